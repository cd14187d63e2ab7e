package shipment

import (
	"fmt"
	"strings"
	"time"

	"courier-booking/models/shipment"
	"courier-booking/types/validation"

	"github.com/jinzhu/now"
)

// MaxWeightKg is the heaviest parcel accepted at the counter. Keep the weight tag in sync.
const MaxWeightKg = 50

type PartyRequest struct {
	Name    string `json:"name" validate:"notblank,max=255"`
	Street  string `json:"street" validate:"notblank,max=255"`
	City    string `json:"city" validate:"notblank,max=120"`
	State   string `json:"state" validate:"notblank,max=120"`
	Pincode string `json:"pincode" validate:"pincode"`
	Country string `json:"country" validate:"notblank,max=120"`
	Phone   string `json:"phone" validate:"phone"`
}

func (p PartyRequest) ToParty() shipment.Party {
	return shipment.Party{
		Name:    strings.TrimSpace(p.Name),
		Street:  strings.TrimSpace(p.Street),
		City:    strings.TrimSpace(p.City),
		State:   strings.TrimSpace(p.State),
		Pincode: strings.TrimSpace(p.Pincode),
		Country: strings.TrimSpace(p.Country),
		Phone:   strings.TrimSpace(p.Phone),
	}
}

type PackageRequest struct {
	Weight float64 `json:"weight" validate:"gt=0,lte=50"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
	Length float64 `json:"length" validate:"gte=0"`
}

type CreateShipmentRequest struct {
	Sender      PartyRequest         `json:"sender"`
	Receiver    PartyRequest         `json:"receiver"`
	Package     PackageRequest       `json:"package"`
	PickupDate  string               `json:"pickup_date" validate:"required"`
	ServiceType shipment.ServiceTier `json:"service_type" validate:"required,oneof=Standard Express"`
}

// Validate checks the booking form. today anchors the pickup date check.
func (r CreateShipmentRequest) Validate(today time.Time) error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	pickup, err := r.pickupIn(today.Location())
	if err != nil {
		return err
	}
	if pickup.Before(now.With(today).BeginningOfDay()) {
		return fmt.Errorf("pickup_date must not be in the past")
	}
	return nil
}

// Pickup parses pickup_date as a calendar date (UTC midnight) or an RFC 3339 timestamp
func (r CreateShipmentRequest) Pickup() (time.Time, error) {
	return r.pickupIn(time.UTC)
}

// pickupIn reads a bare calendar date as midnight in loc
func (r CreateShipmentRequest) pickupIn(loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(r.PickupDate)
	if raw == "" {
		return time.Time{}, fmt.Errorf("pickup_date is required")
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("pickup_date must be YYYY-MM-DD")
	}
	return t, nil
}

// ToShipment builds an unpriced shipment in the Booked stage
func (r CreateShipmentRequest) ToShipment(code string, userID uint, bookedAt time.Time) (shipment.Shipment, error) {
	pickup, err := r.Pickup()
	if err != nil {
		return shipment.Shipment{}, err
	}
	return shipment.Shipment{
		Code:     code,
		UserID:   userID,
		Sender:   r.Sender.ToParty(),
		Receiver: r.Receiver.ToParty(),
		Package: shipment.Package{
			Weight: r.Package.Weight,
			Width:  r.Package.Width,
			Height: r.Package.Height,
			Length: r.Package.Length,
		},
		PickupDate:  pickup,
		ServiceType: r.ServiceType,
		BookingDate: bookedAt,
		Stage:       shipment.StageBooked,
	}, nil
}
