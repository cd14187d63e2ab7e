package store

import (
	"sync"

	"courier-booking/logger"
	"courier-booking/models/shipment"
)

const ShipmentsKey = "courier_shipments"

// Shipments is the client-side list of the session's bookings, newest first
type Shipments struct {
	storage Storage

	mu      sync.RWMutex
	list    []shipment.Shipment
	loading bool
	loaded  bool
}

func NewShipments(storage Storage) *Shipments {
	return &Shipments{storage: storage, loading: true}
}

// Load reads the persisted list once. Later calls are no-ops.
func (s *Shipments) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}

	var list []shipment.Shipment
	if _, err := s.storage.Load(ShipmentsKey, &list); err != nil {
		logger.Error("Failed to load stored shipments", err)
		list = nil
	}
	s.list = list
	s.loaded = true
	s.loading = false
}

// IsLoading is true until the initial load has completed
func (s *Shipments) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Shipments) Shipments() []shipment.Shipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shipment.Shipment, len(s.list))
	copy(out, s.list)
	return out
}

// AddShipment prepends s and rewrites the stored list
func (s *Shipments) AddShipment(sh shipment.Shipment) {
	s.mu.Lock()
	list := make([]shipment.Shipment, 0, len(s.list)+1)
	list = append(list, sh)
	list = append(list, s.list...)
	s.list = list
	s.mu.Unlock()

	s.persist(list)
}

// GetShipmentByID looks up a shipment by its exact public id
func (s *Shipments) GetShipmentByID(id string) (shipment.Shipment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.list {
		if sh.Code == id {
			return sh, true
		}
	}
	return shipment.Shipment{}, false
}

// Update overwrites the stored record with the same id. It reports false when there is none.
func (s *Shipments) Update(sh shipment.Shipment) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.list {
		if s.list[i].Code == sh.Code {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	list := make([]shipment.Shipment, len(s.list))
	copy(list, s.list)
	list[idx] = sh
	s.list = list
	s.mu.Unlock()

	s.persist(list)
	return true
}

// Replace swaps in the list returned by the server
func (s *Shipments) Replace(list []shipment.Shipment) {
	next := make([]shipment.Shipment, len(list))
	copy(next, list)

	s.mu.Lock()
	s.list = next
	s.loaded = true
	s.loading = false
	s.mu.Unlock()

	s.persist(next)
}

// Clear drops the list, e.g. on logout
func (s *Shipments) Clear() {
	s.mu.Lock()
	s.list = nil
	s.mu.Unlock()

	if err := s.storage.Remove(ShipmentsKey); err != nil {
		logger.Error("Failed to clear stored shipments", err)
	}
}

func (s *Shipments) persist(list []shipment.Shipment) {
	if err := s.storage.Save(ShipmentsKey, list); err != nil {
		logger.Error("Failed to persist shipments", err)
	}
}
