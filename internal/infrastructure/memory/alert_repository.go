package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

// AlertRepository implements domain.AlertRepository in memory
type AlertRepository struct {
	store *Store
}

// Create saves a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *domain.InventoryAlert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.alerts[alert.ID] = cloneAlert(alert)
	return nil
}

// FindByID returns an alert or nil when absent
func (r *AlertRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryAlert, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneAlert(r.store.alerts[id]), nil
}

// HasUnresolved reports whether an unresolved alert of this type exists for the record
func (r *AlertRepository) HasUnresolved(ctx context.Context, inventoryID primitive.ObjectID, alertType domain.AlertType) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, alert := range r.store.alerts {
		if alert.InventoryID == inventoryID && alert.Type == alertType && !alert.IsResolved {
			return true, nil
		}
	}
	return false, nil
}

// List returns matching alerts, newest first
func (r *AlertRepository) List(ctx context.Context, filter domain.AlertFilter) ([]*domain.InventoryAlert, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]*domain.InventoryAlert, 0)
	for _, alert := range r.store.alerts {
		if filter.InventoryID != nil && alert.InventoryID != *filter.InventoryID {
			continue
		}
		if filter.Type != nil && alert.Type != *filter.Type {
			continue
		}
		if filter.IsResolved != nil && alert.IsResolved != *filter.IsResolved {
			continue
		}
		matched = append(matched, cloneAlert(alert))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= total {
			return []*domain.InventoryAlert{}, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && int64(len(matched)) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// Update overwrites an existing alert
func (r *AlertRepository) Update(ctx context.Context, alert *domain.InventoryAlert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.alerts[alert.ID]; !ok {
		return domain.ErrAlertNotFound
	}
	r.store.alerts[alert.ID] = cloneAlert(alert)
	return nil
}

// DeleteResolvedOlderThan removes resolved alerts older than the cutoff
func (r *AlertRepository) DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for id, alert := range r.store.alerts {
		if alert.IsResolved && alert.CreatedAt.Before(cutoff) {
			delete(r.store.alerts, id)
			deleted++
		}
	}
	return deleted, nil
}
