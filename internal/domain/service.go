package domain

import (
	"math"
	"time"
)

// ReserveDecision is the outcome of the can-reserve policy check.
type ReserveDecision struct {
	CanReserve        bool
	Reason            string
	BackorderRequired bool
	BackorderQuantity int
}

// ReorderRecommendation is the outcome of the reorder policy check.
type ReorderRecommendation struct {
	ShouldReorder bool
	Quantity      int
	Reason        string
}

// DefaultExpiryAlertDays is the near-expiry window used when callers pass no threshold.
const DefaultExpiryAlertDays = 30

// InventoryService holds the stateless inventory policy functions. The clock
// is injectable for expiry checks.
type InventoryService struct {
	now func() time.Time
}

// NewInventoryService creates a policy service using the wall clock.
func NewInventoryService() *InventoryService {
	return &InventoryService{now: time.Now}
}

// NewInventoryServiceWithClock creates a policy service with a fixed clock source.
func NewInventoryServiceWithClock(now func() time.Time) *InventoryService {
	return &InventoryService{now: now}
}

// CanReserveStock decides whether requestedQty units can be reserved,
// applying the backorder policy when available stock is insufficient.
func (s *InventoryService) CanReserveStock(record *InventoryRecord, requestedQty int) ReserveDecision {
	if !record.IsActive {
		return ReserveDecision{CanReserve: false, Reason: "Inventory is not active"}
	}

	if requestedQty <= record.AvailableQuantity {
		return ReserveDecision{CanReserve: true}
	}

	if !record.AllowBackorder {
		return ReserveDecision{CanReserve: false, Reason: "Insufficient stock and backorder not allowed"}
	}

	shortfall := requestedQty - record.AvailableQuantity
	if record.BackorderLimit != nil && shortfall > *record.BackorderLimit {
		return ReserveDecision{CanReserve: false, Reason: "Exceeds backorder limit"}
	}

	return ReserveDecision{
		CanReserve:        true,
		BackorderRequired: true,
		BackorderQuantity: shortfall,
	}
}

// ShouldCreateLowStockAlert reports whether available stock is at or below the threshold.
func (s *InventoryService) ShouldCreateLowStockAlert(record *InventoryRecord) bool {
	return record.AvailableQuantity <= record.LowStockThreshold
}

// ShouldCreateExpiryAlert reports whether the record expires within
// daysThreshold days. Already-past dates also trigger it, so near-expiry and
// expired alerts co-trigger at and after expiry; consumers rely on that.
func (s *InventoryService) ShouldCreateExpiryAlert(record *InventoryRecord, daysThreshold int) bool {
	if record.ExpiryDate == nil {
		return false
	}
	days := math.Ceil(record.ExpiryDate.Sub(s.now()).Hours() / 24)
	return days <= float64(daysThreshold)
}

// IsExpired reports whether the expiry date has passed.
func (s *InventoryService) IsExpired(record *InventoryRecord) bool {
	return record.ExpiryDate != nil && record.ExpiryDate.Before(s.now())
}

// CalculateReorderRecommendation recommends a reorder when available stock is
// at or below the reorder point.
func (s *InventoryService) CalculateReorderRecommendation(record *InventoryRecord) ReorderRecommendation {
	if record.AvailableQuantity > record.ReorderPoint {
		return ReorderRecommendation{ShouldReorder: false}
	}
	if record.AvailableQuantity <= 0 {
		return ReorderRecommendation{
			ShouldReorder: true,
			Quantity:      record.ReorderQuantity,
			Reason:        "Out of stock",
		}
	}
	return ReorderRecommendation{
		ShouldReorder: true,
		Quantity:      record.ReorderQuantity,
		Reason:        "Below reorder point",
	}
}
