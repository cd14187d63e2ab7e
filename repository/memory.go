package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"courier-booking/models/asset"
	"courier-booking/models/shipment"
	"courier-booking/models/user"
)

// MemoryStore implements every repository in process memory. It backs handler tests and local demos.
type MemoryStore struct {
	mu        sync.RWMutex
	users     []user.User
	shipments []shipment.Shipment
	events    []shipment.ShipmentStatusEvent
	qrCodes   []asset.PaymentQRCode
	nextID    uint
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) id() uint {
	m.nextID++
	return m.nextID
}

// Users, Shipments and QRCodes expose the store through the narrower interfaces
func (m *MemoryStore) Users() UserRepository         { return memoryUsers{m} }
func (m *MemoryStore) Shipments() ShipmentRepository { return memoryShipments{m} }
func (m *MemoryStore) QRCodes() QRCodeRepository     { return memoryQRCodes{m} }

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.m.users {
		if existing.Email == u.Email || existing.Uuid == u.Uuid {
			return ErrDuplicate
		}
	}
	u.ID = r.m.id()
	u.CreatedAt = r.m.now()
	u.UpdatedAt = u.CreatedAt
	r.m.users = append(r.m.users, *u)
	return nil
}

func (r memoryUsers) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(ctx, func(u user.User) bool { return u.Email == email })
}

func (r memoryUsers) FindByUUID(ctx context.Context, uuid string) (*user.User, error) {
	return r.find(ctx, func(u user.User) bool { return uuid != "" && u.Uuid == uuid })
}

func (r memoryUsers) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.find(ctx, func(u user.User) bool { return u.ID == id })
}

func (r memoryUsers) find(ctx context.Context, match func(user.User) bool) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if match(u) && u.DeletedAt == nil {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

type memoryShipments struct{ m *MemoryStore }

func (r memoryShipments) Create(ctx context.Context, s *shipment.Shipment, initial shipment.ShipmentStatusEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.shipments {
		if existing.Code == s.Code {
			return ErrDuplicate
		}
	}
	s.ID = r.m.id()
	s.CreatedAt = r.m.now()
	s.UpdatedAt = s.CreatedAt
	r.m.shipments = append(r.m.shipments, *s)

	initial.ID = r.m.id()
	initial.ShipmentID = s.ID
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = r.m.now()
	}
	r.m.events = append(r.m.events, initial)
	return nil
}

func (r memoryShipments) FindByCode(ctx context.Context, code string) (*shipment.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if i := r.m.indexOf(code); i >= 0 {
		found := r.m.shipments[i]
		return &found, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) indexOf(code string) int {
	code = strings.ToUpper(code)
	for i := range m.shipments {
		if m.shipments[i].Code == code {
			return i
		}
	}
	return -1
}

func newestFirst(list []shipment.Shipment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].BookingDate.Equal(list[j].BookingDate) {
			return list[i].ID > list[j].ID
		}
		return list[i].BookingDate.After(list[j].BookingDate)
	})
}

func (r memoryShipments) ListByUser(ctx context.Context, userID uint) ([]shipment.Shipment, error) {
	return r.filter(ctx, ShipmentFilter{UserID: userID})
}

func (r memoryShipments) filter(ctx context.Context, f ShipmentFilter) ([]shipment.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]shipment.Shipment, 0)
	for _, s := range r.m.shipments {
		if f.UserID != 0 && s.UserID != f.UserID {
			continue
		}
		if f.Stage != "" && s.Stage != f.Stage {
			continue
		}
		if f.From != nil && s.BookingDate.Before(*f.From) {
			continue
		}
		if f.To != nil && s.BookingDate.After(*f.To) {
			continue
		}
		if q != "" && !matchesQuery(s, q) {
			continue
		}
		out = append(out, s)
	}
	newestFirst(out)
	return out, nil
}

func matchesQuery(s shipment.Shipment, q string) bool {
	for _, field := range []string{s.Code, s.Sender.Name, s.Receiver.Name, s.Sender.City, s.Receiver.City} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (r memoryShipments) List(ctx context.Context, filter ShipmentFilter) (ShipmentPage, error) {
	filter = filter.normalized()
	all, err := r.filter(ctx, filter)
	if err != nil {
		return ShipmentPage{}, err
	}
	start := filter.offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return ShipmentPage{
		Shipments:  all[start:end],
		TotalCount: int64(len(all)),
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (r memoryShipments) UpdateStage(ctx context.Context, code string, event shipment.ShipmentStatusEvent, updatedBy string) (*shipment.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	i := r.m.indexOf(code)
	if i < 0 {
		return nil, ErrNotFound
	}
	s := &r.m.shipments[i]
	if err := s.Stage.CheckTransition(event.Stage); err != nil {
		return nil, err
	}
	s.Stage = event.Stage
	s.UpdatedBy = updatedBy
	s.UpdatedAt = r.m.now()

	event.ID = r.m.id()
	event.ShipmentID = s.ID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.UpdatedAt
	}
	r.m.events = append(r.m.events, event)

	updated := *s
	return &updated, nil
}

func (r memoryShipments) Events(ctx context.Context, shipmentID uint) ([]shipment.ShipmentStatusEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var out []shipment.ShipmentStatusEvent
	for _, e := range r.m.events {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memoryQRCodes struct{ m *MemoryStore }

func (r memoryQRCodes) Create(ctx context.Context, qr *asset.PaymentQRCode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	qr.ID = r.m.id()
	if qr.CreatedAt.IsZero() {
		qr.CreatedAt = r.m.now()
	}
	r.m.qrCodes = append(r.m.qrCodes, *qr)
	return nil
}

func (r memoryQRCodes) Latest(ctx context.Context) (*asset.PaymentQRCode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if len(r.m.qrCodes) == 0 {
		return nil, ErrNotFound
	}
	latest := r.m.qrCodes[len(r.m.qrCodes)-1]
	return &latest, nil
}
