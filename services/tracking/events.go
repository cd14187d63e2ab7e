package tracking

import (
	"courier-booking/models/shipment"
)

// FromEvents turns recorded status events into a tagged history.
// A cancelled shipment shows only its latest cancellation event.
func FromEvents(events []shipment.ShipmentStatusEvent, live shipment.TrackingStage) []Step {
	steps := make([]Step, 0, len(events))
	for _, e := range events {
		steps = append(steps, newStep(e.Stage, e.CreatedAt, e.Location, e.Activity))
	}

	if live == shipment.StageCancelled {
		var last *Step
		for i := range steps {
			if steps[i].Stage == shipment.StageCancelled && (last == nil || !steps[i].Date.Before(last.Date)) {
				last = &steps[i]
			}
		}
		if last == nil {
			return []Step{}
		}
		steps = []Step{*last}
	}

	return finalize(steps, live)
}
