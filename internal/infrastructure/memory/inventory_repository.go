package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

// InventoryRepository implements domain.InventoryRepository in memory
type InventoryRepository struct {
	store *Store
}

// Create saves a new record, enforcing the SKU and product+warehouse
// uniqueness the MongoDB indexes provide.
func (r *InventoryRepository) Create(ctx context.Context, record *domain.InventoryRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.records {
		if existing.SKU == record.SKU {
			return domain.ErrSKUAlreadyExists
		}
		if existing.ProductID == record.ProductID && existing.WarehouseID == record.WarehouseID {
			return domain.ErrRecordAlreadyExists
		}
	}

	r.store.records[record.ID] = cloneRecord(record)
	return nil
}

// FindByID returns a record or nil when absent
func (r *InventoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneRecord(r.store.records[id]), nil
}

// FindByProductID returns the record for a product in a warehouse, or nil
func (r *InventoryRepository) FindByProductID(ctx context.Context, productID, warehouseID string) (*domain.InventoryRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, record := range r.store.records {
		if record.ProductID == productID && record.WarehouseID == warehouseID {
			return cloneRecord(record), nil
		}
	}
	return nil, nil
}

// FindBySKU returns the record for a SKU, or nil
func (r *InventoryRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, record := range r.store.records {
		if record.SKU == sku {
			return cloneRecord(record), nil
		}
	}
	return nil, nil
}

// Update overwrites an existing record
func (r *InventoryRepository) Update(ctx context.Context, record *domain.InventoryRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.records[record.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	r.store.records[record.ID] = cloneRecord(record)
	return nil
}

// List returns matching records with the unpaginated total
func (r *InventoryRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.InventoryRecord, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	matched := make([]*domain.InventoryRecord, 0, len(r.store.records))
	for _, record := range r.store.records {
		if opts.WarehouseID != nil && record.WarehouseID != *opts.WarehouseID {
			continue
		}
		if opts.IsActive != nil && record.IsActive != *opts.IsActive {
			continue
		}
		if opts.LowStock != nil {
			low := record.AvailableQuantity <= record.LowStockThreshold
			if low != *opts.LowStock {
				continue
			}
		}
		if opts.Expired != nil {
			expired := record.ExpiryDate != nil && record.ExpiryDate.Before(now)
			if expired != *opts.Expired {
				continue
			}
		}
		if opts.Search != "" {
			needle := strings.ToLower(opts.Search)
			if !strings.Contains(strings.ToLower(record.SKU), needle) &&
				!strings.Contains(strings.ToLower(record.ProductID), needle) {
				continue
			}
		}
		matched = append(matched, cloneRecord(record))
	}

	sortRecords(matched, opts.SortBy, opts.SortOrder)
	total := int64(len(matched))

	if opts.Offset > 0 {
		if opts.Offset >= total {
			return []*domain.InventoryRecord{}, total, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	return matched, total, nil
}

func sortRecords(records []*domain.InventoryRecord, sortBy, sortOrder string) {
	asc := sortOrder == "asc"
	less := func(a, b *domain.InventoryRecord) bool {
		switch sortBy {
		case "sku":
			return a.SKU < b.SKU
		case "availableQuantity":
			return a.AvailableQuantity < b.AvailableQuantity
		case "totalQuantity":
			return a.TotalQuantity < b.TotalQuantity
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if asc {
			return less(records[i], records[j])
		}
		return less(records[j], records[i])
	})
}

// ReserveQuantity applies the reservation only while the shortfall guard holds
func (r *InventoryRepository) ReserveQuantity(ctx context.Context, id primitive.ObjectID, qty, allowedShortfall int, movement *domain.MovementEntry, events ...domain.DomainEvent) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.records[id]
	if !ok || !record.IsActive {
		return false, nil
	}
	if allowedShortfall != domain.UnlimitedShortfall && record.AvailableQuantity < qty-allowedShortfall {
		return false, nil
	}

	record.AvailableQuantity -= qty
	record.ReservedQuantity += qty
	record.UpdatedAt = time.Now().UTC()
	r.store.commit(movement, events)
	return true, nil
}

// ReleaseQuantity applies the release only while reserved covers it
func (r *InventoryRepository) ReleaseQuantity(ctx context.Context, id primitive.ObjectID, qty int, movement *domain.MovementEntry, events ...domain.DomainEvent) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.records[id]
	if !ok || record.ReservedQuantity < qty {
		return false, nil
	}

	record.AvailableQuantity += qty
	record.ReservedQuantity -= qty
	record.UpdatedAt = time.Now().UTC()
	r.store.commit(movement, events)
	return true, nil
}

// AddQuantity applies a stock-in with the recomputed average cost
func (r *InventoryRepository) AddQuantity(ctx context.Context, id primitive.ObjectID, qty int, averageCost float64, movement *domain.MovementEntry, events ...domain.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	record.TotalQuantity += qty
	record.AvailableQuantity += qty
	record.AverageCost = averageCost
	record.UpdatedAt = time.Now().UTC()
	r.store.commit(movement, events)
	return nil
}

// RemoveQuantity applies a stock-out only while available covers it
func (r *InventoryRepository) RemoveQuantity(ctx context.Context, id primitive.ObjectID, qty int, movement *domain.MovementEntry, events ...domain.DomainEvent) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.records[id]
	if !ok || record.AvailableQuantity < qty {
		return false, nil
	}

	record.TotalQuantity -= qty
	record.AvailableQuantity -= qty
	record.UpdatedAt = time.Now().UTC()
	r.store.commit(movement, events)
	return true, nil
}

// SetQuantities overwrites the stock triple absolutely
func (r *InventoryRepository) SetQuantities(ctx context.Context, id primitive.ObjectID, quantity domain.StockQuantity, lastStockCheck time.Time, movement *domain.MovementEntry, events ...domain.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	record.TotalQuantity = quantity.Total()
	record.AvailableQuantity = quantity.Available()
	record.ReservedQuantity = quantity.Reserved()
	record.LastStockCheck = &lastStockCheck
	record.UpdatedAt = time.Now().UTC()
	r.store.commit(movement, events)
	return nil
}

// Transfer moves qty between two records as one all-or-nothing unit
func (r *InventoryRepository) Transfer(ctx context.Context, fromID, toID primitive.ObjectID, qty int, outMovement, inMovement *domain.MovementEntry, events ...domain.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	from, ok := r.store.records[fromID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	to, ok := r.store.records[toID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if from.AvailableQuantity < qty {
		return domain.ErrInsufficientAvailable
	}

	now := time.Now().UTC()
	from.TotalQuantity -= qty
	from.AvailableQuantity -= qty
	from.UpdatedAt = now
	to.TotalQuantity += qty
	to.AvailableQuantity += qty
	to.UpdatedAt = now

	r.store.commit(outMovement, nil)
	r.store.commit(inMovement, events)
	return nil
}

// Delete removes the record with its movements and alerts
func (r *InventoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.store.records, id)

	kept := r.store.movements[:0]
	for _, m := range r.store.movements {
		if m.InventoryID != id {
			kept = append(kept, m)
		}
	}
	r.store.movements = kept

	for alertID, alert := range r.store.alerts {
		if alert.InventoryID == id {
			delete(r.store.alerts, alertID)
		}
	}
	return nil
}

// Stats computes the dashboard aggregate
func (r *InventoryRepository) Stats(ctx context.Context, warehouseID *string, expiryWindow time.Duration) (*domain.InventoryStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	horizon := now.Add(expiryWindow)
	stats := &domain.InventoryStats{}

	for _, record := range r.store.records {
		if warehouseID != nil && record.WarehouseID != *warehouseID {
			continue
		}
		if !record.IsActive {
			continue
		}

		stats.TotalItems++
		stats.TotalValue += record.StockValue()
		if record.AvailableQuantity <= 0 {
			stats.OutOfStockItems++
		} else if record.AvailableQuantity <= record.LowStockThreshold {
			stats.LowStockItems++
		}
		if record.ExpiryDate != nil {
			if record.ExpiryDate.Before(now) {
				stats.ExpiredItems++
			} else if record.ExpiryDate.Before(horizon) {
				stats.ExpiringItems++
			}
		}
	}

	return stats, nil
}
