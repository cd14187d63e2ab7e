package admin

import (
	"fmt"
	"strings"
	"time"

	"courier-booking/models/shipment"
	"courier-booking/repository"
	"courier-booking/types/validation"

	"github.com/jinzhu/now"
)

type UpdateStatusRequest struct {
	Status   shipment.TrackingStage `json:"status" validate:"required"`
	Location string                 `json:"location" validate:"omitempty,max=255"`
	Activity string                 `json:"activity" validate:"omitempty,max=1000"`
}

func (r *UpdateStatusRequest) Validate() error {
	r.Location = strings.TrimSpace(r.Location)
	r.Activity = strings.TrimSpace(r.Activity)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("status %q is not a known tracking stage", r.Status)
	}
	return nil
}

// ListShipmentsQuery mirrors the admin listing query string
type ListShipmentsQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Q         string `query:"q"`
	Status    string `query:"status"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

func (q ListShipmentsQuery) Validate() error {
	_, err := q.Filter()
	return err
}

// Filter converts the query into a repository filter. Dates are whole days, inclusive.
func (q ListShipmentsQuery) Filter() (repository.ShipmentFilter, error) {
	f := repository.ShipmentFilter{
		Page:  q.Page,
		Limit: q.Limit,
		Query: strings.TrimSpace(q.Q),
	}

	if q.Status != "" && !strings.EqualFold(q.Status, "all") {
		stage := shipment.TrackingStage(q.Status)
		if !stage.IsValid() {
			return f, fmt.Errorf("status %q is not a known tracking stage", q.Status)
		}
		f.Stage = stage
	}

	if q.StartDate != "" {
		start, err := time.Parse("2006-01-02", q.StartDate)
		if err != nil {
			return f, fmt.Errorf("start_date must be YYYY-MM-DD")
		}
		from := now.With(start).BeginningOfDay()
		f.From = &from
	}
	if q.EndDate != "" {
		end, err := time.Parse("2006-01-02", q.EndDate)
		if err != nil {
			return f, fmt.Errorf("end_date must be YYYY-MM-DD")
		}
		to := now.With(end).EndOfDay()
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, fmt.Errorf("start_date must not be after end_date")
	}
	return f, nil
}
