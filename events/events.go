package events

import (
	"context"
	"time"

	"courier-booking/models/shipment"
	"courier-booking/models/user"
)

const (
	TypeShipmentBooked        = "shipment.booked"
	TypeShipmentStatusChanged = "shipment.status_changed"
)

// ShipmentEvent is published on every booking and accepted status change
type ShipmentEvent struct {
	Type          string                 `json:"type"`
	ShipmentCode  string                 `json:"shipment_code"`
	Stage         shipment.TrackingStage `json:"stage"`
	PreviousStage shipment.TrackingStage `json:"previous_stage,omitempty"`
	Location      string                 `json:"location,omitempty"`
	Activity      string                 `json:"activity,omitempty"`
	ActorUUID     string                 `json:"actor_uuid"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

// Notification is a customer facing message queued for delivery by a mailer worker
type Notification struct {
	Kind         string    `json:"kind"`
	ShipmentCode string    `json:"shipment_code"`
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

type Publisher interface {
	PublishShipmentEvent(ctx context.Context, event ShipmentEvent) error
	Close() error
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}

// BookingConfirmation builds the notification sent after a shipment is booked
func BookingConfirmation(s shipment.Shipment, owner user.User) Notification {
	return Notification{
		Kind:         "booking_confirmed",
		ShipmentCode: s.Code,
		Recipient:    owner.Email,
		Subject:      "Shipment " + s.Code + " booked",
		Body:         "Hi " + owner.DisplayName() + ", your " + string(s.ServiceType) + " shipment to " + s.Receiver.Name + " in " + s.Receiver.City + " has been booked. Total charged: INR " + s.Total.StringFixed(2) + ".",
		CreatedAt:    time.Now(),
	}
}

// DeliveryConfirmation builds the notification sent when a shipment reaches Delivered
func DeliveryConfirmation(s shipment.Shipment, owner user.User) Notification {
	return Notification{
		Kind:         "delivered",
		ShipmentCode: s.Code,
		Recipient:    owner.Email,
		Subject:      "Shipment " + s.Code + " delivered",
		Body:         "Hi " + owner.DisplayName() + ", your shipment has been delivered to " + s.Receiver.Name + " in " + s.Receiver.City + ".",
		CreatedAt:    time.Now(),
	}
}
