package repository

import (
	"context"
	"errors"
	"fmt"

	"courier-booking/models/asset"

	"gorm.io/gorm"
)

type GormQRCodeRepository struct {
	db *gorm.DB
}

func NewGormQRCodeRepository(db *gorm.DB) *GormQRCodeRepository {
	return &GormQRCodeRepository{db: db}
}

func (r *GormQRCodeRepository) Create(ctx context.Context, qr *asset.PaymentQRCode) error {
	if err := r.db.WithContext(ctx).Create(qr).Error; err != nil {
		return fmt.Errorf("store payment qr code: %w", err)
	}
	return nil
}

func (r *GormQRCodeRepository) Latest(ctx context.Context) (*asset.PaymentQRCode, error) {
	var qr asset.PaymentQRCode
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").First(&qr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load payment qr code: %w", err)
	}
	return &qr, nil
}
