package shipment

import (
	"errors"
	"fmt"
)

// TrackingStage is the lifecycle stage of a shipment
type TrackingStage string

const (
	StageBooked         TrackingStage = "Booked"
	StageInTransit      TrackingStage = "In Transit"
	StageOutForDelivery TrackingStage = "Out for Delivery"
	StageDelivered      TrackingStage = "Delivered"
	StageCancelled      TrackingStage = "Cancelled"
)

// ServiceTier is the delivery speed the customer paid for
type ServiceTier string

const (
	ServiceStandard ServiceTier = "Standard"
	ServiceExpress  ServiceTier = "Express"
)

var ErrIllegalTransition = errors.New("illegal stage transition")

// Helper methods for TrackingStage
func (s TrackingStage) String() string {
	return string(s)
}

func (s TrackingStage) IsValid() bool {
	switch s {
	case StageBooked, StageInTransit, StageOutForDelivery, StageDelivered, StageCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the shipment can no longer move
func (s TrackingStage) IsTerminal() bool {
	return s == StageDelivered || s == StageCancelled
}

// Rank is the position on the forward path. Cancelled is off the path and ranks -1.
func (s TrackingStage) Rank() int {
	switch s {
	case StageBooked:
		return 0
	case StageInTransit:
		return 1
	case StageOutForDelivery:
		return 2
	case StageDelivered:
		return 3
	default:
		return -1
	}
}

// CanTransitionTo reports whether an operator may move a shipment from s to next.
// Forward moves may skip stages; Cancelled is reachable from any non-terminal stage.
func (s TrackingStage) CanTransitionTo(next TrackingStage) bool {
	if s.IsTerminal() || !next.IsValid() {
		return false
	}
	if next == StageCancelled {
		return true
	}
	return next.Rank() > s.Rank()
}

// CheckTransition wraps ErrIllegalTransition with the offending stages
func (s TrackingStage) CheckTransition(next TrackingStage) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return nil
}

// GetAllStages returns every stage in display order
func GetAllStages() []TrackingStage {
	return []TrackingStage{
		StageBooked,
		StageInTransit,
		StageOutForDelivery,
		StageDelivered,
		StageCancelled,
	}
}

func (t ServiceTier) IsValid() bool {
	return t == ServiceStandard || t == ServiceExpress
}
