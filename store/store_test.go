package store

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"courier-booking/httpServices/courier"
	"courier-booking/models/shipment"
	"courier-booking/types"
	adminTypes "courier-booking/types/admin"
	authTypes "courier-booking/types/auth"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return fs
}

// brokenStorage fails every operation
type brokenStorage struct{}

func (brokenStorage) Load(string, interface{}) (bool, error) { return false, errors.New("disk gone") }
func (brokenStorage) Save(string, interface{}) error         { return errors.New("disk gone") }
func (brokenStorage) Remove(string) error                    { return errors.New("disk gone") }

func TestFileStorageRoundTrip(t *testing.T) {
	fs := newFileStorage(t)

	var out map[string]int
	found, err := fs.Load("counts", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, fs.Save("counts", map[string]int{"a": 1}))
	found, err = fs.Load("counts", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]int{"a": 1}, out)

	entries, err := os.ReadDir(fs.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "counts.json", entries[0].Name())

	require.NoError(t, fs.Remove("counts"))
	require.NoError(t, fs.Remove("counts"))
	found, err = fs.Load("counts", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStorageRejectsBadKeys(t *testing.T) {
	fs := newFileStorage(t)
	assert.Error(t, fs.Save("../escape", 1))
	assert.Error(t, fs.Save("", 1))
}

func TestFileStorageCorruptValue(t *testing.T) {
	fs := newFileStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(fs.dir, "bad.json"), []byte("{"), 0o600))
	var v interface{}
	_, err := fs.Load("bad", &v)
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	fs := newFileStorage(t)
	session := NewSession(fs, UserSessionKey)
	assert.False(t, session.IsAuthenticated())

	first := "Asha"
	session.Login(authTypes.SessionUser{ID: "u-1", Email: "asha@example.com", FirstName: &first}, "jwt")
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "jwt", session.Token())

	restored := NewSession(fs, UserSessionKey)
	u, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, "Asha", *u.FirstName)
	assert.Equal(t, "jwt", restored.Token())

	admin := NewSession(fs, AdminSessionKey)
	assert.False(t, admin.IsAuthenticated())

	restored.Logout()
	assert.False(t, restored.IsAuthenticated())
	assert.False(t, NewSession(fs, UserSessionKey).IsAuthenticated())
}

func TestSessionSurvivesStorageFailure(t *testing.T) {
	session := NewSession(brokenStorage{}, UserSessionKey)
	assert.False(t, session.IsAuthenticated())

	session.Login(authTypes.SessionUser{ID: "u-1", Email: "asha@example.com"}, "")
	assert.True(t, session.IsAuthenticated())

	session.Logout()
	assert.False(t, session.IsAuthenticated())
}

func sampleShipment(code string, booked time.Time) shipment.Shipment {
	return shipment.Shipment{
		Code:        code,
		Sender:      shipment.Party{Name: "Asha", City: "Pune"},
		Receiver:    shipment.Party{Name: "Ravi", City: "Mumbai"},
		Package:     shipment.Package{Weight: 0.6},
		PickupDate:  booked.Add(24 * time.Hour),
		BookingDate: booked,
		ServiceType: shipment.ServiceStandard,
		NetPrice:    decimal.RequireFromString("110"),
		TaxAmount:   decimal.RequireFromString("19.80"),
		Total:       decimal.RequireFromString("129.80"),
		Stage:       shipment.StageBooked,
	}
}

func TestShipmentsStore(t *testing.T) {
	fs := newFileStorage(t)
	booked := time.Date(2026, time.March, 10, 9, 30, 15, 0, time.FixedZone("IST", 19800))

	store := NewShipments(fs)
	assert.True(t, store.IsLoading())
	store.Load()
	assert.False(t, store.IsLoading())
	assert.Empty(t, store.Shipments())

	store.AddShipment(sampleShipment("SH1", booked))
	store.AddShipment(sampleShipment("SH2", booked.Add(time.Hour)))

	list := store.Shipments()
	require.Len(t, list, 2)
	assert.Equal(t, "SH2", list[0].Code)

	_, ok := store.GetShipmentByID("sh1")
	assert.False(t, ok)
	_, ok = store.GetShipmentByID("SH9")
	assert.False(t, ok)

	reloaded := NewShipments(fs)
	reloaded.Load()
	got, ok := reloaded.GetShipmentByID("SH1")
	require.True(t, ok)
	assert.True(t, got.BookingDate.Equal(booked))
	assert.True(t, got.PickupDate.Equal(booked.Add(24*time.Hour)))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("129.80")))
	assert.Equal(t, shipment.StageBooked, got.Stage)

	list[0].Code = "mutated"
	_, ok = store.GetShipmentByID("SH2")
	assert.True(t, ok)
}

func TestShipmentsReplaceAndClear(t *testing.T) {
	fs := newFileStorage(t)
	store := NewShipments(fs)
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	store.Replace([]shipment.Shipment{sampleShipment("SH5", now), sampleShipment("SH4", now)})
	assert.False(t, store.IsLoading())
	assert.Len(t, store.Shipments(), 2)

	store.Clear()
	assert.Empty(t, store.Shipments())

	reloaded := NewShipments(fs)
	reloaded.Load()
	assert.Empty(t, reloaded.Shipments())
}

func TestShipmentsUpdate(t *testing.T) {
	fs := newFileStorage(t)
	store := NewShipments(fs)
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store.Replace([]shipment.Shipment{sampleShipment("SH2", now), sampleShipment("SH1", now)})

	delivered := sampleShipment("SH1", now)
	delivered.Stage = shipment.StageDelivered
	assert.True(t, store.Update(delivered))
	assert.False(t, store.Update(sampleShipment("SH9", now)))

	list := store.Shipments()
	require.Len(t, list, 2)
	assert.Equal(t, "SH2", list[0].Code)
	assert.Equal(t, shipment.StageDelivered, list[1].Stage)

	reloaded := NewShipments(fs)
	reloaded.Load()
	got, ok := reloaded.GetShipmentByID("SH1")
	require.True(t, ok)
	assert.Equal(t, shipment.StageDelivered, got.Stage)
}

func TestShipmentsStorageFailure(t *testing.T) {
	store := NewShipments(brokenStorage{})
	store.Load()
	assert.False(t, store.IsLoading())
	store.AddShipment(sampleShipment("SH1", time.Now()))
	_, ok := store.GetShipmentByID("SH1")
	assert.True(t, ok)
}

// fakeAdminAPI answers listing calls through a per-call hook
type fakeAdminAPI struct {
	mu      sync.Mutex
	list    func(q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error)
	update  func(id string, req adminTypes.UpdateStatusRequest) (shipment.Shipment, error)
	updates []adminTypes.UpdateStatusRequest
}

func (f *fakeAdminAPI) AdminShipments(_ context.Context, q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
	return f.list(q)
}

func (f *fakeAdminAPI) UpdateStatus(_ context.Context, id string, req adminTypes.UpdateStatusRequest) (shipment.Shipment, error) {
	f.mu.Lock()
	f.updates = append(f.updates, req)
	f.mu.Unlock()
	return f.update(id, req)
}

type notifications struct {
	mu  sync.Mutex
	got []Notification
}

func (n *notifications) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, note)
}

func (n *notifications) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.got...)
}

func pageOf(shipments ...shipment.Shipment) types.ShipmentPage {
	return types.ShipmentPage{Shipments: shipments, TotalPages: 1, CurrentPage: 1, TotalCount: int64(len(shipments))}
}

func TestAdminOrdersStaleResponseIsDiscarded(t *testing.T) {
	now := time.Now()
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	api := &fakeAdminAPI{list: func(q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
		if q.Q == "slow" {
			close(slowStarted)
			<-releaseSlow
			return pageOf(sampleShipment("SLOW", now)), nil
		}
		return pageOf(sampleShipment("FAST", now)), nil
	}}
	view := NewAdminOrders(api, &notifications{})

	slowErr := make(chan error, 1)
	go func() {
		slowErr <- view.Load(context.Background(), adminTypes.ListShipmentsQuery{Q: "slow"})
	}()
	<-slowStarted

	require.NoError(t, view.Load(context.Background(), adminTypes.ListShipmentsQuery{Q: "fast"}))
	close(releaseSlow)
	assert.ErrorIs(t, <-slowErr, ErrStaleResponse)

	page := view.Page()
	require.Len(t, page.Shipments, 1)
	assert.Equal(t, "FAST", page.Shipments[0].Code)
	assert.Equal(t, "fast", view.Query().Q)
	assert.False(t, view.IsLoading())
}

func TestAdminOrdersIgnoresAnswersAfterClose(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAdminAPI{list: func(q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
		close(started)
		<-release
		return pageOf(sampleShipment("SH1", time.Now())), nil
	}}
	view := NewAdminOrders(api, nil)

	done := make(chan error, 1)
	go func() { done <- view.Load(context.Background(), adminTypes.ListShipmentsQuery{Page: 1}) }()
	<-started
	view.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrViewClosed)
	assert.Empty(t, view.Page().Shipments)
	assert.ErrorIs(t, view.Load(context.Background(), adminTypes.ListShipmentsQuery{}), ErrViewClosed)
}

func TestAdminOrdersChangeStatus(t *testing.T) {
	row := sampleShipment("SH1", time.Now())
	loads := 0
	api := &fakeAdminAPI{
		list: func(q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
			loads++
			if loads > 1 {
				updated := row
				updated.Stage = shipment.StageDelivered
				return pageOf(updated), nil
			}
			return pageOf(row), nil
		},
		update: func(id string, req adminTypes.UpdateStatusRequest) (shipment.Shipment, error) {
			return shipment.Shipment{}, nil
		},
	}
	notes := &notifications{}
	view := NewAdminOrders(api, notes)
	require.NoError(t, view.Load(context.Background(), adminTypes.ListShipmentsQuery{Page: 1, Status: "Booked"}))

	require.NoError(t, view.ChangeStatus(context.Background(), "SH1", shipment.StageDelivered))

	require.Len(t, api.updates, 1)
	assert.Equal(t, shipment.StageDelivered, api.updates[0].Status)
	assert.Equal(t, "Delivered to Ravi", api.updates[0].Activity)
	assert.Equal(t, "Mumbai", api.updates[0].Location)

	assert.Equal(t, 2, loads)
	assert.Equal(t, "Booked", view.Query().Status)
	assert.Equal(t, shipment.StageDelivered, view.Page().Shipments[0].Stage)

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, NotifySuccess, got[0].Level)
}

func TestAdminOrdersChangeStatusFailureLeavesRows(t *testing.T) {
	row := sampleShipment("SH1", time.Now())
	row.Stage = shipment.StageDelivered
	loads := 0
	api := &fakeAdminAPI{
		list: func(q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
			loads++
			return pageOf(row), nil
		},
		update: func(id string, req adminTypes.UpdateStatusRequest) (shipment.Shipment, error) {
			return shipment.Shipment{}, &courier.APIError{Status: http.StatusConflict, Message: "illegal stage transition: Delivered -> In Transit"}
		},
	}
	notes := &notifications{}
	view := NewAdminOrders(api, notes)
	require.NoError(t, view.Load(context.Background(), adminTypes.ListShipmentsQuery{Page: 1}))

	err := view.ChangeStatus(context.Background(), "SH1", shipment.StageInTransit)
	assert.True(t, courier.IsStatus(err, http.StatusConflict))

	assert.Equal(t, 1, loads)
	assert.Equal(t, shipment.StageDelivered, view.Page().Shipments[0].Stage)

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, NotifyError, got[0].Level)
	assert.Contains(t, got[0].Message, "illegal stage transition")
}

func TestAdminOrdersLoadFailureNotifies(t *testing.T) {
	api := &fakeAdminAPI{list: func(q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
		return types.ShipmentPage{}, errors.New("connection refused")
	}}
	notes := &notifications{}
	view := NewAdminOrders(api, notes)

	assert.Error(t, view.Load(context.Background(), adminTypes.ListShipmentsQuery{}))
	assert.Error(t, view.Err())
	require.Len(t, notes.all(), 1)
	assert.Contains(t, notes.all()[0].Message, "connection refused")
}

func TestStageOptions(t *testing.T) {
	assert.Equal(t, []shipment.TrackingStage{
		shipment.StageInTransit, shipment.StageOutForDelivery, shipment.StageDelivered, shipment.StageCancelled,
	}, StageOptions(shipment.StageBooked))
	assert.Empty(t, StageOptions(shipment.StageDelivered))
	assert.Empty(t, StageOptions(shipment.StageCancelled))
}
