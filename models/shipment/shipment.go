package shipment

import (
	"time"

	"courier-booking/models/user"

	"github.com/shopspring/decimal"
)

// Party is the sender or receiver block of a booking
type Party struct {
	Name    string `gorm:"size:255;not null" json:"name"`
	Street  string `gorm:"size:255;not null" json:"street"`
	City    string `gorm:"size:120;not null" json:"city"`
	State   string `gorm:"size:120;not null" json:"state"`
	Pincode string `gorm:"size:20;not null"  json:"pincode"`
	Country string `gorm:"size:120;not null" json:"country"`
	Phone   string `gorm:"size:20;not null"  json:"phone"`
}

// Package holds the physical attributes used for pricing. Weight is in kg, sizes in cm.
type Package struct {
	Weight float64 `gorm:"not null" json:"weight"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
}

// Shipment represents a single courier booking.
type Shipment struct {
	ID     uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	Code   string     `gorm:"size:32;uniqueIndex;not null" json:"id"`
	UserID uint       `gorm:"not null;index" json:"user_id"`
	User   *user.User `gorm:"foreignKey:UserID" json:"-"`

	Sender   Party   `gorm:"embedded;embeddedPrefix:sender_" json:"sender"`
	Receiver Party   `gorm:"embedded;embeddedPrefix:receiver_" json:"receiver"`
	Package  Package `gorm:"embedded;embeddedPrefix:package_" json:"package"`

	PickupDate  time.Time   `gorm:"not null" json:"pickup_date"`
	ServiceType ServiceTier `gorm:"size:20;not null" json:"service_type"`
	BookingDate time.Time   `gorm:"not null;index" json:"booking_date"`

	NetPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"net_price"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	Stage     TrackingStage `gorm:"size:32;not null;index" json:"stage"`
	UpdatedBy string        `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}
