package tracking

import (
	"time"

	"courier-booking/models/shipment"
)

const day = 24 * time.Hour

// Demo locations. None of these come from a carrier feed.
const (
	LocationBookingCenter   = "Booking Center"
	LocationOriginHub       = "Origin Hub"
	LocationRegionalSorting = "Regional Sorting Facility"
	LocationLocalDelivery   = "Local Delivery Station"
	LocationDestination     = "Destination Address"
)

type plannedStep struct {
	stage    shipment.TrackingStage
	offset   time.Duration
	location string
	activity string
}

var forwardPlan = []plannedStep{
	{shipment.StageBooked, 0, LocationBookingCenter, "Shipment booked"},
	{shipment.StageInTransit, day, LocationOriginHub, "Departed from origin hub"},
	{shipment.StageInTransit, 2 * day, LocationRegionalSorting, "Arrived at regional sorting facility"},
	{shipment.StageOutForDelivery, 3 * day, LocationLocalDelivery, "Out for delivery"},
	{shipment.StageDelivered, 3*day + 6*time.Hour, LocationDestination, "Delivered"},
}

// Synthesize builds a plausible history for a shipment from its live stage and booking date.
// It is filler for when no recorded history is available and never touches the shipment.
func Synthesize(stage shipment.TrackingStage, bookedAt, now time.Time) []Step {
	// a booking stamped ahead of the local clock starts now
	if bookedAt.After(now) {
		bookedAt = now
	}

	if stage == shipment.StageCancelled {
		at := bookedAt.Add(day)
		if at.After(now) {
			at = now
		}
		if at.Before(bookedAt) {
			at = bookedAt
		}
		return finalize([]Step{newStep(shipment.StageCancelled, at, LocationBookingCenter, "Shipment cancelled")}, stage)
	}

	steps := make([]Step, 0, len(forwardPlan))
	for _, p := range forwardPlan {
		if p.stage.Rank() > stage.Rank() {
			break
		}
		at := bookedAt.Add(p.offset)
		if at.After(now) {
			// only the live stage may show up early, and never later than now
			switch {
			case p.stage == stage:
				at = now
			case p.stage != shipment.StageBooked:
				continue
			}
		}
		steps = append(steps, newStep(p.stage, at, p.location, p.activity))
	}
	return finalize(steps, stage)
}
