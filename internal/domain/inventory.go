package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryRecord is one tracked stock position per product, optionally per
// warehouse. Quantities and costs are only mutated through the operations
// below; persistence adapters apply the same arithmetic with guarded updates.
type InventoryRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID   string             `bson:"productId" json:"productId"`
	SKU         string             `bson:"sku" json:"sku"`
	WarehouseID string             `bson:"warehouseId,omitempty" json:"warehouseId,omitempty"`

	TotalQuantity     int `bson:"totalQuantity" json:"totalQuantity"`
	AvailableQuantity int `bson:"availableQuantity" json:"availableQuantity"`
	ReservedQuantity  int `bson:"reservedQuantity" json:"reservedQuantity"`

	UnitCost    float64 `bson:"unitCost" json:"unitCost"`
	AverageCost float64 `bson:"averageCost" json:"averageCost"`

	LowStockThreshold int  `bson:"lowStockThreshold" json:"lowStockThreshold"`
	AllowBackorder    bool `bson:"allowBackorder" json:"allowBackorder"`
	BackorderLimit    *int `bson:"backorderLimit,omitempty" json:"backorderLimit,omitempty"`
	ReorderPoint      int  `bson:"reorderPoint" json:"reorderPoint"`
	ReorderQuantity   int  `bson:"reorderQuantity" json:"reorderQuantity"`

	Location       string     `bson:"location,omitempty" json:"location,omitempty"`
	Batch          string     `bson:"batch,omitempty" json:"batch,omitempty"`
	ExpiryDate     *time.Time `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	IsActive       bool       `bson:"isActive" json:"isActive"`
	LastStockCheck *time.Time `bson:"lastStockCheck,omitempty" json:"lastStockCheck,omitempty"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	events []DomainEvent
}

// NewInventoryRecord creates a record for a product. The full initial total is
// available, nothing reserved, and the average cost starts at the unit cost.
func NewInventoryRecord(productID, sku, warehouseID string, totalQuantity int, unitCost float64) (*InventoryRecord, error) {
	quantity, err := StockFromTotal(totalQuantity)
	if err != nil {
		return nil, err
	}
	cost, err := NewCost(unitCost, unitCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &InventoryRecord{
		ID:          primitive.NewObjectID(),
		ProductID:   productID,
		SKU:         sku,
		WarehouseID: warehouseID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec.setQuantity(quantity)
	rec.setCost(cost)
	return rec, nil
}

// Quantity reconstructs the stock value object from the stored counters.
// No revalidation: an absolute adjustment may have left the triple in the
// documented inconsistent state.
func (r *InventoryRecord) Quantity() StockQuantity {
	return rawStockQuantity(r.TotalQuantity, r.AvailableQuantity, r.ReservedQuantity)
}

// Cost reconstructs the cost value object from the stored fields.
func (r *InventoryRecord) Cost() Cost {
	return Cost{unitCost: r.UnitCost, averageCost: r.AverageCost}
}

func (r *InventoryRecord) setQuantity(q StockQuantity) {
	r.TotalQuantity = q.Total()
	r.AvailableQuantity = q.Available()
	r.ReservedQuantity = q.Reserved()
	r.UpdatedAt = time.Now().UTC()
}

func (r *InventoryRecord) setCost(c Cost) {
	r.UnitCost = c.UnitCost()
	r.AverageCost = c.AverageCost()
}

// Reserve moves qty from available to reserved.
func (r *InventoryRecord) Reserve(qty int) error {
	if !r.IsActive {
		return ErrRecordInactive
	}
	q, err := r.Quantity().Reserve(qty)
	if err != nil {
		return err
	}
	r.setQuantity(q)
	return nil
}

// Release moves qty from reserved back to available.
func (r *InventoryRecord) Release(qty int) error {
	q, err := r.Quantity().Release(qty)
	if err != nil {
		return err
	}
	r.setQuantity(q)
	return nil
}

// AddStock records a stock-in and recomputes the weighted average cost.
func (r *InventoryRecord) AddStock(qty int, unitCost float64) error {
	cost, err := r.Cost().WithStockIn(r.TotalQuantity, qty, unitCost)
	if err != nil {
		return err
	}
	q, err := r.Quantity().AddStock(qty)
	if err != nil {
		return err
	}
	r.setQuantity(q)
	r.setCost(cost)
	return nil
}

// RemoveStock records a stock-out from available inventory.
func (r *InventoryRecord) RemoveStock(qty int) error {
	q, err := r.Quantity().RemoveStock(qty)
	if err != nil {
		return err
	}
	r.setQuantity(q)
	return nil
}

// AdjustTotal applies an absolute correction and stamps the stock check time.
func (r *InventoryRecord) AdjustTotal(newTotal int) error {
	q, err := r.Quantity().AdjustTo(newTotal)
	if err != nil {
		return err
	}
	r.setQuantity(q)
	now := time.Now().UTC()
	r.LastStockCheck = &now
	return nil
}

// Deactivate soft-disables the record. Used instead of deletion in normal flow.
func (r *InventoryRecord) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()
}

// Activate re-enables the record.
func (r *InventoryRecord) Activate() {
	r.IsActive = true
	r.UpdatedAt = time.Now().UTC()
}

// IsOutOfStock reports whether no stock is available.
func (r *InventoryRecord) IsOutOfStock() bool {
	return r.AvailableQuantity <= 0
}

// StockValue is the valuation of the position at average cost.
func (r *InventoryRecord) StockValue() float64 {
	return float64(r.TotalQuantity) * r.AverageCost
}

// Domain event methods
func (r *InventoryRecord) AddDomainEvent(event DomainEvent) {
	r.events = append(r.events, event)
}

func (r *InventoryRecord) GetDomainEvents() []DomainEvent {
	return r.events
}

func (r *InventoryRecord) ClearDomainEvents() {
	r.events = nil
}
