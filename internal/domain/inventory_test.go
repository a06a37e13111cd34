package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryRecord(t *testing.T) {
	rec, err := NewInventoryRecord("prod-1", "SKU-001", "WH-1", 20, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 20, rec.TotalQuantity)
	assert.Equal(t, 20, rec.AvailableQuantity)
	assert.Equal(t, 0, rec.ReservedQuantity)
	assert.Equal(t, 4.5, rec.UnitCost)
	assert.Equal(t, 4.5, rec.AverageCost)
	assert.True(t, rec.IsActive)
	assert.False(t, rec.ID.IsZero())

	_, err = NewInventoryRecord("prod-1", "SKU-001", "WH-1", -5, 4.5)
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	_, err = NewInventoryRecord("prod-1", "SKU-001", "WH-1", 5, -1)
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestInventoryRecord_ReserveRelease(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 20, 5)

	require.NoError(t, rec.Reserve(18))
	assert.Equal(t, 20, rec.TotalQuantity)
	assert.Equal(t, 2, rec.AvailableQuantity)
	assert.Equal(t, 18, rec.ReservedQuantity)

	assert.ErrorIs(t, rec.Release(20), ErrExcessRelease)

	require.NoError(t, rec.Release(3))
	assert.Equal(t, 5, rec.AvailableQuantity)
	assert.Equal(t, 15, rec.ReservedQuantity)

	rec.Deactivate()
	assert.ErrorIs(t, rec.Reserve(1), ErrRecordInactive)
}

func TestInventoryRecord_AddStockRecomputesAverage(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 0, 0)

	require.NoError(t, rec.AddStock(10, 5))
	assert.Equal(t, 5.0, rec.AverageCost)

	require.NoError(t, rec.AddStock(10, 7))
	assert.Equal(t, 6.0, rec.AverageCost)
	assert.Equal(t, 20, rec.TotalQuantity)
	assert.Equal(t, 20, rec.AvailableQuantity)
}

func TestInventoryRecord_RemoveStock(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)
	require.NoError(t, rec.Reserve(4))

	assert.ErrorIs(t, rec.RemoveStock(7), ErrInsufficientAvailable)
	require.NoError(t, rec.RemoveStock(6))
	assert.Equal(t, 4, rec.TotalQuantity)
	assert.Equal(t, 0, rec.AvailableQuantity)
	assert.Equal(t, 4, rec.ReservedQuantity)
}

func TestInventoryRecord_AdjustTotal(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)
	require.NoError(t, rec.Reserve(8))

	require.NoError(t, rec.AdjustTotal(3))
	assert.Equal(t, 3, rec.TotalQuantity)
	assert.Equal(t, 0, rec.AvailableQuantity)
	assert.Equal(t, 8, rec.ReservedQuantity)
	require.NotNil(t, rec.LastStockCheck)
	assert.WithinDuration(t, time.Now(), *rec.LastStockCheck, time.Minute)
}

func TestInventoryRecord_StockValue(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)
	require.NoError(t, rec.AddStock(10, 7))
	assert.Equal(t, 20*rec.AverageCost, rec.StockValue())
}

func TestInventoryRecord_DomainEvents(t *testing.T) {
	rec, _ := NewInventoryRecord("prod-1", "SKU-001", "", 10, 5)

	rec.AddDomainEvent(&StockReservedEvent{SKU: rec.SKU, Quantity: 2, ReservedAt: time.Now()})
	require.Len(t, rec.GetDomainEvents(), 1)

	rec.ClearDomainEvents()
	assert.Empty(t, rec.GetDomainEvents())
}
