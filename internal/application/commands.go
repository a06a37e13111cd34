package application

import "time"

// CreateInventoryCommand represents the command to create an inventory record
type CreateInventoryCommand struct {
	ProductID         string
	SKU               string
	WarehouseID       string
	TotalQuantity     int
	UnitCost          float64
	LowStockThreshold int
	AllowBackorder    bool
	BackorderLimit    *int
	ReorderPoint      int
	ReorderQuantity   int
	Location          string
	Batch             string
	ExpiryDate        *time.Time
	Notes             string
}

// UpdateInventoryCommand represents the command to update record settings.
// Nil pointers leave the corresponding field untouched.
type UpdateInventoryCommand struct {
	TotalQuantity     *int
	UnitCost          *float64
	LowStockThreshold *int
	AllowBackorder    *bool
	BackorderLimit    *int
	ReorderPoint      *int
	ReorderQuantity   *int
	Location          *string
	Batch             *string
	ExpiryDate        *time.Time
	Notes             *string
}

// ReserveStockCommand represents the command to reserve stock for an order
type ReserveStockCommand struct {
	ProductID     string
	WarehouseID   string
	Quantity      int
	ReferenceID   string
	ReferenceType string
	UserID        string
}

// ReleaseStockCommand represents the command to release a reservation
type ReleaseStockCommand struct {
	ProductID     string
	WarehouseID   string
	Quantity      int
	ReferenceID   string
	ReferenceType string
	UserID        string
}

// StockInCommand represents the command to receive stock. Returned marks the
// receipt as a customer return so the ledger records RETURN instead of STOCK_IN.
type StockInCommand struct {
	InventoryID   string
	Quantity      int
	UnitCost      *float64
	Returned      bool
	ReferenceID   string
	ReferenceType string
	Reason        string
	UserID        string
}

// StockOutCommand represents the command to remove stock
type StockOutCommand struct {
	InventoryID   string
	Quantity      int
	Damaged       bool
	ReferenceID   string
	ReferenceType string
	Reason        string
	UserID        string
}

// AdjustStockCommand represents the command to correct the total absolutely
type AdjustStockCommand struct {
	InventoryID string
	NewTotal    int
	Reason      string
	UserID      string
}

// TransferStockCommand represents the command to move stock between records
type TransferStockCommand struct {
	FromInventoryID string
	ToInventoryID   string
	Quantity        int
	Reason          string
	UserID          string
}

// ListInventoryQuery represents the query to list inventory with pagination
type ListInventoryQuery struct {
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

// MovementQuery represents the query to list ledger entries for a record
type MovementQuery struct {
	InventoryID string
	Type        *string
	ReferenceID *string
	From        *time.Time
	To          *time.Time
	Limit       int64
	Offset      int64
}

// SummaryQuery represents the query for a movement aggregation
type SummaryQuery struct {
	InventoryID *string
	WarehouseID *string
	From        *time.Time
	To          *time.Time
}

// AlertQuery represents the query to list alerts
type AlertQuery struct {
	InventoryID *string
	Type        *string
	IsResolved  *bool
	Limit       int64
	Offset      int64
}
