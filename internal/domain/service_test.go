package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestInventoryService_CanReserveStock(t *testing.T) {
	svc := NewInventoryService()

	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)

	decision := svc.CanReserveStock(rec, 10)
	assert.True(t, decision.CanReserve)
	assert.False(t, decision.BackorderRequired)

	decision = svc.CanReserveStock(rec, 11)
	assert.False(t, decision.CanReserve)
	assert.Equal(t, "Insufficient stock and backorder not allowed", decision.Reason)

	rec.Deactivate()
	decision = svc.CanReserveStock(rec, 1)
	assert.False(t, decision.CanReserve)
	assert.Equal(t, "Inventory is not active", decision.Reason)
}

func TestInventoryService_CanReserveStock_BackorderBoundary(t *testing.T) {
	svc := NewInventoryService()

	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)
	rec.AllowBackorder = true
	rec.BackorderLimit = intPtr(5)

	// shortfall 4 <= limit 5
	decision := svc.CanReserveStock(rec, 14)
	assert.True(t, decision.CanReserve)
	assert.True(t, decision.BackorderRequired)
	assert.Equal(t, 4, decision.BackorderQuantity)

	// shortfall 6 > limit 5
	decision = svc.CanReserveStock(rec, 16)
	assert.False(t, decision.CanReserve)
	assert.Equal(t, "Exceeds backorder limit", decision.Reason)

	// no limit set: any shortfall is accepted
	rec.BackorderLimit = nil
	decision = svc.CanReserveStock(rec, 100)
	assert.True(t, decision.CanReserve)
	assert.Equal(t, 90, decision.BackorderQuantity)
}

func TestInventoryService_ShouldCreateLowStockAlert(t *testing.T) {
	svc := NewInventoryService()

	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 20, 5)
	rec.LowStockThreshold = 5

	assert.False(t, svc.ShouldCreateLowStockAlert(rec))

	require.NoError(t, rec.Reserve(18))
	assert.True(t, svc.ShouldCreateLowStockAlert(rec))
}

func TestInventoryService_ExpiryChecks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewInventoryServiceWithClock(func() time.Time { return now })

	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)
	assert.False(t, svc.ShouldCreateExpiryAlert(rec, DefaultExpiryAlertDays))
	assert.False(t, svc.IsExpired(rec))

	in10 := now.Add(10 * 24 * time.Hour)
	rec.ExpiryDate = &in10
	assert.True(t, svc.ShouldCreateExpiryAlert(rec, 30))
	assert.False(t, svc.ShouldCreateExpiryAlert(rec, 5))
	assert.False(t, svc.IsExpired(rec))

	// past dates trigger both the near-expiry and expired checks
	past := now.Add(-24 * time.Hour)
	rec.ExpiryDate = &past
	assert.True(t, svc.ShouldCreateExpiryAlert(rec, 30))
	assert.True(t, svc.IsExpired(rec))
}

func TestInventoryService_CalculateReorderRecommendation(t *testing.T) {
	svc := NewInventoryService()

	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 20, 5)
	rec.ReorderPoint = 5
	rec.ReorderQuantity = 50

	rec.AvailableQuantity = 10
	assert.False(t, svc.CalculateReorderRecommendation(rec).ShouldReorder)

	rec.AvailableQuantity = 5
	recommendation := svc.CalculateReorderRecommendation(rec)
	assert.True(t, recommendation.ShouldReorder)
	assert.Equal(t, 50, recommendation.Quantity)
	assert.Equal(t, "Below reorder point", recommendation.Reason)

	rec.AvailableQuantity = 0
	recommendation = svc.CalculateReorderRecommendation(rec)
	assert.True(t, recommendation.ShouldReorder)
	assert.Equal(t, "Out of stock", recommendation.Reason)
}

func TestInventoryAlert_Resolve(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)
	alert := NewInventoryAlert(rec.ID, AlertLowStock, "Low stock for SKU-001")

	require.NoError(t, alert.Resolve(time.Now()))
	assert.True(t, alert.IsResolved)
	require.NotNil(t, alert.ResolvedAt)

	assert.ErrorIs(t, alert.Resolve(time.Now()), ErrAlertAlreadyResolved)
}
