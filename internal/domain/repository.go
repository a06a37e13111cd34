package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListOptions is the typed query surface for inventory listings. Adapters
// translate it to whatever the storage backend requires.
type ListOptions struct {
	WarehouseID *string
	LowStock    *bool
	Expired     *bool
	IsActive    *bool
	Search      string

	Limit     int64
	Offset    int64
	SortBy    string
	SortOrder string
}

// MovementFilter narrows a movement listing.
type MovementFilter struct {
	Type        *MovementType
	ReferenceID *string
	From        *time.Time
	To          *time.Time

	Limit  int64
	Offset int64
}

// SummaryFilter scopes a movement aggregation.
type SummaryFilter struct {
	InventoryID *primitive.ObjectID
	WarehouseID *string
	From        *time.Time
	To          *time.Time
}

// AlertFilter narrows an alert listing.
type AlertFilter struct {
	InventoryID *primitive.ObjectID
	Type        *AlertType
	IsResolved  *bool

	Limit  int64
	Offset int64
}

// InventoryStats is the dashboard aggregate over inventory records.
type InventoryStats struct {
	TotalItems      int64   `bson:"totalItems" json:"totalItems"`
	TotalValue      float64 `bson:"totalValue" json:"totalValue"`
	LowStockItems   int64   `bson:"lowStockItems" json:"lowStockItems"`
	OutOfStockItems int64   `bson:"outOfStockItems" json:"outOfStockItems"`
	ExpiredItems    int64   `bson:"expiredItems" json:"expiredItems"`
	ExpiringItems   int64   `bson:"expiringItems" json:"expiringItems"`
}

// NoShortfall disables backorder headroom on a guarded reserve.
const NoShortfall = 0

// UnlimitedShortfall lets a guarded reserve take available negative without bound.
const UnlimitedShortfall = -1

// InventoryRepository is the persistence port for inventory records. All
// quantity-changing methods bundle the movement append with the guarded
// counter update in one atomic unit, and enqueue the given domain events in
// the same unit so they cannot outlive a rolled-back change.
//
// The guarded methods return false without error when the conditional update
// matched no record (a concurrent writer won the race); callers surface that
// distinctly from policy failures.
type InventoryRepository interface {
	Create(ctx context.Context, record *InventoryRecord) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*InventoryRecord, error)
	FindByProductID(ctx context.Context, productID, warehouseID string) (*InventoryRecord, error)
	FindBySKU(ctx context.Context, sku string) (*InventoryRecord, error)
	Update(ctx context.Context, record *InventoryRecord) error
	List(ctx context.Context, opts ListOptions) ([]*InventoryRecord, int64, error)

	// ReserveQuantity commits available -= qty, reserved += qty only if
	// available - qty >= -allowedShortfall still holds at commit time.
	// allowedShortfall is NoShortfall for plain reserves, the backorder
	// headroom for backorder-approved reserves, or UnlimitedShortfall.
	ReserveQuantity(ctx context.Context, id primitive.ObjectID, qty, allowedShortfall int, movement *MovementEntry, events ...DomainEvent) (bool, error)

	// ReleaseQuantity commits available += qty, reserved -= qty only if
	// reserved >= qty still holds at commit time.
	ReleaseQuantity(ctx context.Context, id primitive.ObjectID, qty int, movement *MovementEntry, events ...DomainEvent) (bool, error)

	// AddQuantity commits total += qty, available += qty and sets the new
	// average cost. Stock-in has no precondition so no guard is needed.
	AddQuantity(ctx context.Context, id primitive.ObjectID, qty int, averageCost float64, movement *MovementEntry, events ...DomainEvent) error

	// RemoveQuantity commits total -= qty, available -= qty only if
	// available >= qty still holds at commit time.
	RemoveQuantity(ctx context.Context, id primitive.ObjectID, qty int, movement *MovementEntry, events ...DomainEvent) (bool, error)

	// SetQuantities overwrites the stock triple absolutely (adjustments).
	SetQuantities(ctx context.Context, id primitive.ObjectID, quantity StockQuantity, lastStockCheck time.Time, movement *MovementEntry, events ...DomainEvent) error

	// Transfer moves qty between two records and appends both transfer legs
	// as one all-or-nothing unit. It fails with ErrInsufficientAvailable when
	// the source guard does not hold at commit time.
	Transfer(ctx context.Context, fromID, toID primitive.ObjectID, qty int, outMovement, inMovement *MovementEntry, events ...DomainEvent) error

	// Delete hard-deletes a record with its movements and alerts.
	// Administrative use only; normal flow deactivates instead.
	Delete(ctx context.Context, id primitive.ObjectID) error

	Stats(ctx context.Context, warehouseID *string, expiryWindow time.Duration) (*InventoryStats, error)
}

// MovementRepository is the read/cleanup port over the append-only ledger.
// Entries are written through InventoryRepository as part of quantity changes.
type MovementRepository interface {
	List(ctx context.Context, inventoryID primitive.ObjectID, filter MovementFilter) ([]*MovementEntry, int64, error)
	Summary(ctx context.Context, filter SummaryFilter) (*MovementSummary, error)

	// DeleteOlderThan is the only permitted mutation of written entries:
	// bulk retention cleanup of entries older than the cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AlertRepository is the persistence port for derived alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *InventoryAlert) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*InventoryAlert, error)
	HasUnresolved(ctx context.Context, inventoryID primitive.ObjectID, alertType AlertType) (bool, error)
	List(ctx context.Context, filter AlertFilter) ([]*InventoryAlert, int64, error)
	Update(ctx context.Context, alert *InventoryAlert) error

	// DeleteResolvedOlderThan removes resolved alerts older than the cutoff.
	DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
