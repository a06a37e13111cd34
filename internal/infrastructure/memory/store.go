// Package memory provides mutex-guarded in-memory adapters for the inventory
// ports. The guarded quantity updates apply the same compare-and-swap checks
// as the MongoDB adapter, so application tests exercise the real concurrency
// contract without a database.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

// Store is the shared backing state for the three port adapters.
type Store struct {
	mu        sync.Mutex
	records   map[primitive.ObjectID]*domain.InventoryRecord
	movements []*domain.MovementEntry
	alerts    map[primitive.ObjectID]*domain.InventoryAlert
	events    []domain.DomainEvent
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		records: make(map[primitive.ObjectID]*domain.InventoryRecord),
		alerts:  make(map[primitive.ObjectID]*domain.InventoryAlert),
	}
}

// Inventory returns the inventory port adapter
func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{store: s}
}

// Movements returns the movement port adapter
func (s *Store) Movements() *MovementRepository {
	return &MovementRepository{store: s}
}

// Alerts returns the alert port adapter
func (s *Store) Alerts() *AlertRepository {
	return &AlertRepository{store: s}
}

// Events returns a snapshot of all domain events captured by committed
// quantity changes, in commit order.
func (s *Store) Events() []domain.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DomainEvent, len(s.events))
	copy(out, s.events)
	return out
}

// MovementLog returns a snapshot of all ledger entries in commit order.
func (s *Store) MovementLog() []*domain.MovementEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.MovementEntry, 0, len(s.movements))
	for _, m := range s.movements {
		entry := *m
		out = append(out, &entry)
	}
	return out
}

// cloneRecord copies a record so callers never alias stored state. Pointer
// fields are re-pointed to copies of their values.
func cloneRecord(r *domain.InventoryRecord) *domain.InventoryRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.BackorderLimit != nil {
		v := *r.BackorderLimit
		c.BackorderLimit = &v
	}
	if r.ExpiryDate != nil {
		v := *r.ExpiryDate
		c.ExpiryDate = &v
	}
	if r.LastStockCheck != nil {
		v := *r.LastStockCheck
		c.LastStockCheck = &v
	}
	c.ClearDomainEvents()
	return &c
}

func cloneAlert(a *domain.InventoryAlert) *domain.InventoryAlert {
	if a == nil {
		return nil
	}
	c := *a
	if a.ResolvedAt != nil {
		v := *a.ResolvedAt
		c.ResolvedAt = &v
	}
	return &c
}

// commit appends the movement and events under the caller's lock.
func (s *Store) commit(movement *domain.MovementEntry, events []domain.DomainEvent) {
	if movement != nil {
		entry := *movement
		s.movements = append(s.movements, &entry)
	}
	s.events = append(s.events, events...)
}
