package repository

import (
	"context"
	"errors"
	"time"

	"courier-booking/constants"
	"courier-booking/models/asset"
	"courier-booking/models/shipment"
	"courier-booking/models/user"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByUUID(ctx context.Context, uuid string) (*user.User, error)
	FindByID(ctx context.Context, id uint) (*user.User, error)
}

// ShipmentFilter narrows the admin order listing. Zero values mean no filter.
type ShipmentFilter struct {
	Page   int
	Limit  int
	Query  string
	Stage  shipment.TrackingStage
	From   *time.Time
	To     *time.Time
	UserID uint
}

func (f ShipmentFilter) normalized() ShipmentFilter {
	if f.Page < 1 {
		f.Page = constants.DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = constants.DefaultLimit
	}
	if f.Limit > constants.MaxLimit {
		f.Limit = constants.MaxLimit
	}
	return f
}

func (f ShipmentFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

type ShipmentPage struct {
	Shipments  []shipment.Shipment
	TotalCount int64
	Page       int
	Limit      int
}

func (p ShipmentPage) TotalPages() int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalCount + int64(p.Limit) - 1) / int64(p.Limit)
}

type ShipmentRepository interface {
	// Create stores the shipment together with its first status event
	Create(ctx context.Context, s *shipment.Shipment, initial shipment.ShipmentStatusEvent) error
	FindByCode(ctx context.Context, code string) (*shipment.Shipment, error)
	// ListByUser returns the owner's shipments newest first
	ListByUser(ctx context.Context, userID uint) ([]shipment.Shipment, error)
	List(ctx context.Context, filter ShipmentFilter) (ShipmentPage, error)
	// UpdateStage applies a transition and appends its event atomically.
	// Illegal transitions fail with shipment.ErrIllegalTransition and change nothing.
	UpdateStage(ctx context.Context, code string, event shipment.ShipmentStatusEvent, updatedBy string) (*shipment.Shipment, error)
	Events(ctx context.Context, shipmentID uint) ([]shipment.ShipmentStatusEvent, error)
}

type QRCodeRepository interface {
	Create(ctx context.Context, qr *asset.PaymentQRCode) error
	Latest(ctx context.Context) (*asset.PaymentQRCode, error)
}
