package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courier-booking/models/shipment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormShipmentRepository struct {
	db *gorm.DB
}

func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

func (r *GormShipmentRepository) Create(ctx context.Context, s *shipment.Shipment, initial shipment.ShipmentStatusEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return fmt.Errorf("create shipment: %w", err)
		}
		initial.ShipmentID = s.ID
		if err := tx.Create(&initial).Error; err != nil {
			return fmt.Errorf("create initial status event for %s: %w", s.Code, err)
		}
		return nil
	})
}

func (r *GormShipmentRepository) FindByCode(ctx context.Context, code string) (*shipment.Shipment, error) {
	var s shipment.Shipment
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find shipment %s: %w", code, err)
	}
	return &s, nil
}

func (r *GormShipmentRepository) ListByUser(ctx context.Context, userID uint) ([]shipment.Shipment, error) {
	var list []shipment.Shipment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_date desc, id desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list shipments for user %d: %w", userID, err)
	}
	return list, nil
}

func (r *GormShipmentRepository) List(ctx context.Context, filter ShipmentFilter) (ShipmentPage, error) {
	filter = filter.normalized()
	query := r.db.WithContext(ctx).Model(&shipment.Shipment{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"code ILIKE ? OR sender_name ILIKE ? OR receiver_name ILIKE ? OR sender_city ILIKE ? OR receiver_city ILIKE ?",
			like, like, like, like, like,
		)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.From != nil {
		query = query.Where("booking_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("booking_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ShipmentPage{}, fmt.Errorf("count shipments: %w", err)
	}

	var list []shipment.Shipment
	if err := query.Offset(filter.offset()).Limit(filter.Limit).Order("booking_date desc, id desc").Find(&list).Error; err != nil {
		return ShipmentPage{}, fmt.Errorf("list shipments: %w", err)
	}

	return ShipmentPage{Shipments: list, TotalCount: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (r *GormShipmentRepository) UpdateStage(ctx context.Context, code string, event shipment.ShipmentStatusEvent, updatedBy string) (*shipment.Shipment, error) {
	var updated shipment.Shipment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", strings.ToUpper(code)).
			First(&updated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := updated.Stage.CheckTransition(event.Stage); err != nil {
			return err
		}

		if err := tx.Model(&updated).Updates(map[string]interface{}{
			"stage":      event.Stage,
			"updated_by": updatedBy,
		}).Error; err != nil {
			return fmt.Errorf("update stage of %s: %w", code, err)
		}
		updated.Stage = event.Stage
		updated.UpdatedBy = updatedBy

		event.ShipmentID = updated.ID
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("append status event for %s: %w", code, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *GormShipmentRepository) Events(ctx context.Context, shipmentID uint) ([]shipment.ShipmentStatusEvent, error) {
	var events []shipment.ShipmentStatusEvent
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at asc, id asc").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list status events: %w", err)
	}
	return events, nil
}
