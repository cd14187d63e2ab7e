package tracking

import (
	"sort"
	"time"

	"courier-booking/models/shipment"
)

// StepStatus tags a step relative to the live stage of the shipment
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepPending   StepStatus = "pending"
)

// LabelLayout is the human readable timestamp shown next to each step
const LabelLayout = "02 Jan 2006, 03:04 PM"

// Step is one entry of a rendered tracking history
type Step struct {
	Stage    shipment.TrackingStage `json:"stage"`
	Date     time.Time              `json:"date"`
	Label    string                 `json:"label"`
	Location string                 `json:"location"`
	Activity string                 `json:"activity"`
	Status   StepStatus             `json:"status"`
}

func newStep(stage shipment.TrackingStage, at time.Time, location, activity string) Step {
	return Step{
		Stage:    stage,
		Date:     at,
		Label:    at.Format(LabelLayout),
		Location: location,
		Activity: activity,
	}
}

// finalize orders steps by date and tags them against the live stage.
// The last step carrying the live stage is current. Terminal stages tag everything completed.
func finalize(steps []Step, live shipment.TrackingStage) []Step {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Date.Before(steps[j].Date)
	})

	current := -1
	if !live.IsTerminal() {
		for i := range steps {
			if steps[i].Stage == live {
				current = i
			}
		}
	}

	for i := range steps {
		switch {
		case live.IsTerminal() || i < current:
			steps[i].Status = StepCompleted
		case i == current:
			steps[i].Status = StepCurrent
		case current == -1:
			steps[i].Status = StepCompleted
		default:
			steps[i].Status = StepPending
		}
	}
	return steps
}

// Current returns the step tagged current, if any
func Current(steps []Step) (Step, bool) {
	for _, s := range steps {
		if s.Status == StepCurrent {
			return s, true
		}
	}
	return Step{}, false
}
