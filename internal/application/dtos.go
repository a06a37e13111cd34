package application

import "time"

// InventoryDTO represents an inventory record in responses
type InventoryDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	SKU         string `json:"sku"`
	WarehouseID string `json:"warehouseId,omitempty"`

	TotalQuantity     int `json:"totalQuantity"`
	AvailableQuantity int `json:"availableQuantity"`
	ReservedQuantity  int `json:"reservedQuantity"`

	UnitCost    float64 `json:"unitCost"`
	AverageCost float64 `json:"averageCost"`
	StockValue  float64 `json:"stockValue"`

	LowStockThreshold int  `json:"lowStockThreshold"`
	AllowBackorder    bool `json:"allowBackorder"`
	BackorderLimit    *int `json:"backorderLimit,omitempty"`
	ReorderPoint      int  `json:"reorderPoint"`
	ReorderQuantity   int  `json:"reorderQuantity"`

	Location       string     `json:"location,omitempty"`
	Batch          string     `json:"batch,omitempty"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	IsActive       bool       `json:"isActive"`
	IsLowStock     bool       `json:"isLowStock"`
	IsOutOfStock   bool       `json:"isOutOfStock"`
	LastStockCheck *time.Time `json:"lastStockCheck,omitempty"`
	Notes          string     `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MovementDTO represents a ledger entry in responses
type MovementDTO struct {
	ID            string    `json:"id"`
	InventoryID   string    `json:"inventoryId"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	ReferenceType string    `json:"referenceType,omitempty"`
	Reason        string    `json:"reason"`
	UnitCost      *float64  `json:"unitCost,omitempty"`
	TotalCost     *float64  `json:"totalCost,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AlertDTO represents an inventory alert in responses
type AlertDTO struct {
	ID          string     `json:"id"`
	InventoryID string     `json:"inventoryId"`
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	IsResolved  bool       `json:"isResolved"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AvailabilityDTO is the response for an availability check
type AvailabilityDTO struct {
	ProductID         string `json:"productId"`
	WarehouseID       string `json:"warehouseId,omitempty"`
	Available         bool   `json:"available"`
	AvailableQuantity int    `json:"availableQuantity"`
	BackorderRequired bool   `json:"backorderRequired"`
	BackorderQuantity int    `json:"backorderQuantity,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

// MovementSummaryDTO aggregates ledger entries over a window
type MovementSummaryDTO struct {
	TotalIn          int     `json:"totalIn"`
	TotalOut         int     `json:"totalOut"`
	TotalAdjustments int     `json:"totalAdjustments"`
	TotalValue       float64 `json:"totalValue"`
	MovementCount    int64   `json:"movementCount"`
}

// StatsDTO is the dashboard aggregate response
type StatsDTO struct {
	TotalItems      int64   `json:"totalItems"`
	TotalValue      float64 `json:"totalValue"`
	LowStockItems   int64   `json:"lowStockItems"`
	OutOfStockItems int64   `json:"outOfStockItems"`
	ExpiredItems    int64   `json:"expiredItems"`
	ExpiringItems   int64   `json:"expiringItems"`
}

// ReorderRecommendationDTO is one line of the reorder report
type ReorderRecommendationDTO struct {
	InventoryID       string `json:"inventoryId"`
	ProductID         string `json:"productId"`
	SKU               string `json:"sku"`
	WarehouseID       string `json:"warehouseId,omitempty"`
	AvailableQuantity int    `json:"availableQuantity"`
	ReorderPoint      int    `json:"reorderPoint"`
	Quantity          int    `json:"quantity"`
	Reason            string `json:"reason"`
}

// CleanupResultDTO reports what a retention cleanup removed
type CleanupResultDTO struct {
	MovementsDeleted int64 `json:"movementsDeleted"`
	AlertsDeleted    int64 `json:"alertsDeleted"`
}

// ReserveStockResult is the outcome of a reservation attempt. Policy and
// concurrency failures are expected outcomes, not errors.
type ReserveStockResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	InventoryID string `json:"inventoryId,omitempty"`
	Backordered bool   `json:"backordered,omitempty"`
}

// ReleaseStockResult is the outcome of a release attempt
type ReleaseStockResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	InventoryID string `json:"inventoryId,omitempty"`
}

// StockOutResult is the outcome of a guarded stock-out attempt
type StockOutResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	InventoryID string `json:"inventoryId,omitempty"`
}

// TransferResult is the outcome of a transfer attempt
type TransferResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	FromInventoryID string `json:"fromInventoryId,omitempty"`
	ToInventoryID   string `json:"toInventoryId,omitempty"`
}
