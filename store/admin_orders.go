package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"courier-booking/httpServices/courier"
	"courier-booking/logger"
	"courier-booking/models/shipment"
	"courier-booking/services/tracking"
	"courier-booking/types"
	adminTypes "courier-booking/types/admin"
)

var (
	// ErrStaleResponse is returned to a Load whose answer was overtaken by a newer Load
	ErrStaleResponse = errors.New("stale response discarded")
	ErrViewClosed    = errors.New("admin order view closed")
)

// AdminAPI is the part of the REST client the admin view needs
type AdminAPI interface {
	AdminShipments(ctx context.Context, q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error)
	UpdateStatus(ctx context.Context, id string, req adminTypes.UpdateStatusRequest) (shipment.Shipment, error)
}

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is a transient message for the operator
type Notification struct {
	Level   NotificationLevel
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// AdminOrders is the admin's paged shipment listing.
// Only the answer to the most recent Load is applied, and nothing is applied after Close.
type AdminOrders struct {
	api    AdminAPI
	notify Notifier

	mu      sync.Mutex
	query   adminTypes.ListShipmentsQuery
	page    types.ShipmentPage
	latest  uint64
	loading bool
	lastErr error
	closed  bool
}

func NewAdminOrders(api AdminAPI, notify Notifier) *AdminOrders {
	if notify == nil {
		notify = NotifierFunc(func(n Notification) {
			logger.Info(fmt.Sprintf("[%s] %s", n.Level, n.Message))
		})
	}
	return &AdminOrders{
		api:    api,
		notify: notify,
		query:  adminTypes.ListShipmentsQuery{Page: 1},
	}
}

func (v *AdminOrders) Query() adminTypes.ListShipmentsQuery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *AdminOrders) Page() types.ShipmentPage {
	v.mu.Lock()
	defer v.mu.Unlock()
	page := v.page
	page.Shipments = append([]shipment.Shipment(nil), v.page.Shipments...)
	return page
}

func (v *AdminOrders) IsLoading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err is the error of the last applied load, if any
func (v *AdminOrders) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Load fetches the page for q and applies it if no newer Load was started meanwhile
func (v *AdminOrders) Load(ctx context.Context, q adminTypes.ListShipmentsQuery) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.latest++
	token := v.latest
	v.query = q
	v.loading = true
	v.mu.Unlock()

	page, err := v.api.AdminShipments(ctx, q)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if token != v.latest {
		v.mu.Unlock()
		return ErrStaleResponse
	}
	v.loading = false
	v.lastErr = err
	if err == nil {
		v.page = page
	}
	v.mu.Unlock()

	if err != nil {
		v.notify.Notify(Notification{Level: NotifyError, Message: "Failed to load shipments: " + errorMessage(err)})
		return err
	}
	return nil
}

// Refresh reloads the current query
func (v *AdminOrders) Refresh(ctx context.Context) error {
	return v.Load(ctx, v.Query())
}

// StageOptions lists the stages an operator may move a shipment to from current
func StageOptions(current shipment.TrackingStage) []shipment.TrackingStage {
	var options []shipment.TrackingStage
	for _, stage := range shipment.GetAllStages() {
		if current.CanTransitionTo(stage) {
			options = append(options, stage)
		}
	}
	return options
}

func (v *AdminOrders) row(id string) (shipment.Shipment, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, s := range v.page.Shipments {
		if s.Code == id {
			return s, true
		}
	}
	return shipment.Shipment{}, false
}

// ChangeStatus moves shipment id to stage with the default note and location for that stage.
// On failure the listed rows are left as they were.
func (v *AdminOrders) ChangeStatus(ctx context.Context, id string, stage shipment.TrackingStage) error {
	req := adminTypes.UpdateStatusRequest{Status: stage}
	if s, ok := v.row(id); ok {
		req.Activity = tracking.DefaultActivity(stage, s)
		req.Location = tracking.DefaultLocation(stage, s)
	}

	if _, err := v.api.UpdateStatus(ctx, id, req); err != nil {
		v.notify.Notify(Notification{Level: NotifyError, Message: "Failed to update " + id + ": " + errorMessage(err)})
		return err
	}

	v.notify.Notify(Notification{Level: NotifySuccess, Message: fmt.Sprintf("%s marked %s", id, stage)})
	if err := v.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) && !errors.Is(err, ErrViewClosed) {
		return err
	}
	return nil
}

// Close detaches the view. In-flight loads finish but their answers are dropped.
func (v *AdminOrders) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func errorMessage(err error) string {
	var apiErr *courier.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
