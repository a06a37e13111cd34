package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// StockReservedEvent is published when stock is reserved for an order
type StockReservedEvent struct {
	SKU           string    `json:"sku"`
	ProductID     string    `json:"productId"`
	Quantity      int       `json:"quantity"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	ReferenceType string    `json:"referenceType,omitempty"`
	Backordered   bool      `json:"backordered"`
	ReservedAt    time.Time `json:"reservedAt"`
}

func (e *StockReservedEvent) EventType() string     { return "inventory.stock.reserved" }
func (e *StockReservedEvent) OccurredAt() time.Time { return e.ReservedAt }

// StockReleasedEvent is published when a reservation is released
type StockReleasedEvent struct {
	SKU         string    `json:"sku"`
	ProductID   string    `json:"productId"`
	Quantity    int       `json:"quantity"`
	ReferenceID string    `json:"referenceId,omitempty"`
	ReleasedAt  time.Time `json:"releasedAt"`
}

func (e *StockReleasedEvent) EventType() string     { return "inventory.stock.released" }
func (e *StockReleasedEvent) OccurredAt() time.Time { return e.ReleasedAt }

// StockReceivedEvent is published on stock-in
type StockReceivedEvent struct {
	SKU        string    `json:"sku"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	UnitCost   float64   `json:"unitCost"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func (e *StockReceivedEvent) EventType() string     { return "inventory.stock.received" }
func (e *StockReceivedEvent) OccurredAt() time.Time { return e.ReceivedAt }

// StockAdjustedEvent is published when total quantity is corrected absolutely
type StockAdjustedEvent struct {
	SKU        string    `json:"sku"`
	OldTotal   int       `json:"oldTotal"`
	NewTotal   int       `json:"newTotal"`
	Reason     string    `json:"reason"`
	AdjustedAt time.Time `json:"adjustedAt"`
}

func (e *StockAdjustedEvent) EventType() string     { return "inventory.stock.adjusted" }
func (e *StockAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }

// StockTransferredEvent is published when a cross-location transfer commits
type StockTransferredEvent struct {
	FromInventoryID string    `json:"fromInventoryId"`
	ToInventoryID   string    `json:"toInventoryId"`
	Quantity        int       `json:"quantity"`
	Reason          string    `json:"reason"`
	TransferredAt   time.Time `json:"transferredAt"`
}

func (e *StockTransferredEvent) EventType() string     { return "inventory.stock.transferred" }
func (e *StockTransferredEvent) OccurredAt() time.Time { return e.TransferredAt }

// LowStockEvent is published when available stock falls to or below the threshold
type LowStockEvent struct {
	SKU               string    `json:"sku"`
	ProductID         string    `json:"productId"`
	AvailableQuantity int       `json:"availableQuantity"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	AlertedAt         time.Time `json:"alertedAt"`
}

func (e *LowStockEvent) EventType() string     { return "inventory.stock.low" }
func (e *LowStockEvent) OccurredAt() time.Time { return e.AlertedAt }

// OutOfStockEvent is published when available stock reaches zero
type OutOfStockEvent struct {
	SKU       string    `json:"sku"`
	ProductID string    `json:"productId"`
	AlertedAt time.Time `json:"alertedAt"`
}

func (e *OutOfStockEvent) EventType() string     { return "inventory.stock.out" }
func (e *OutOfStockEvent) OccurredAt() time.Time { return e.AlertedAt }
