package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

// MovementRepository implements domain.MovementRepository in memory
type MovementRepository struct {
	store *Store
}

// List returns one record's entries, newest first
func (r *MovementRepository) List(ctx context.Context, inventoryID primitive.ObjectID, filter domain.MovementFilter) ([]*domain.MovementEntry, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]*domain.MovementEntry, 0)
	for _, m := range r.store.movements {
		if m.InventoryID != inventoryID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.ReferenceID != nil && m.ReferenceID != *filter.ReferenceID {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		entry := *m
		matched = append(matched, &entry)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= total {
			return []*domain.MovementEntry{}, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && int64(len(matched)) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// Summary aggregates matching entries. STOCK_IN and RETURN count as inbound,
// STOCK_OUT and DAMAGE as outbound, ADJUSTMENT separately.
func (r *MovementRepository) Summary(ctx context.Context, filter domain.SummaryFilter) (*domain.MovementSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summary := &domain.MovementSummary{}
	for _, m := range r.store.movements {
		if filter.InventoryID != nil && m.InventoryID != *filter.InventoryID {
			continue
		}
		if filter.WarehouseID != nil {
			record, ok := r.store.records[m.InventoryID]
			if !ok || record.WarehouseID != *filter.WarehouseID {
				continue
			}
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}

		switch m.Type {
		case domain.MovementStockIn, domain.MovementReturn:
			summary.TotalIn += m.Quantity
		case domain.MovementStockOut, domain.MovementDamage:
			summary.TotalOut += m.Quantity
		case domain.MovementAdjustment:
			summary.TotalAdjustments += m.Quantity
		}
		if m.TotalCost != nil {
			summary.TotalValue += *m.TotalCost
		}
		summary.MovementCount++
	}

	return summary, nil
}

// DeleteOlderThan removes entries older than the cutoff
func (r *MovementRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.movements[:0]
	var deleted int64
	for _, m := range r.store.movements {
		if m.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.store.movements = kept
	return deleted, nil
}
