package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

func TestToInventoryDTO(t *testing.T) {
	now := time.Now().UTC()
	limit := 5
	record := &domain.InventoryRecord{
		ID:                primitive.NewObjectID(),
		ProductID:         "prod-1",
		SKU:               "SKU-1",
		WarehouseID:       "WH-1",
		TotalQuantity:     10,
		AvailableQuantity: 2,
		ReservedQuantity:  8,
		UnitCost:          5,
		AverageCost:       5.5,
		LowStockThreshold: 3,
		AllowBackorder:    true,
		BackorderLimit:    &limit,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	dto := ToInventoryDTO(record)
	require.NotNil(t, dto)
	assert.Equal(t, record.ID.Hex(), dto.ID)
	assert.Equal(t, "SKU-1", dto.SKU)
	assert.True(t, dto.IsLowStock)
	assert.False(t, dto.IsOutOfStock)
	assert.InDelta(t, 55.0, dto.StockValue, 1e-9)
	require.NotNil(t, dto.BackorderLimit)
	assert.Equal(t, 5, *dto.BackorderLimit)

	assert.Nil(t, ToInventoryDTO(nil))
}

func TestToMovementDTO(t *testing.T) {
	entry := domain.NewMovementEntry(primitive.NewObjectID(), domain.MovementStockIn, 10, "Stock received").
		WithReference("po-1", "PURCHASE_ORDER").
		WithCost(4.5, 45).
		WithUser("user-1")

	dto := ToMovementDTO(entry)
	require.NotNil(t, dto)
	assert.Equal(t, string(domain.MovementStockIn), dto.Type)
	assert.Equal(t, 10, dto.Quantity)
	assert.Equal(t, "po-1", dto.ReferenceID)
	require.NotNil(t, dto.TotalCost)
	assert.InDelta(t, 45.0, *dto.TotalCost, 1e-9)
	assert.Equal(t, "user-1", dto.UserID)

	assert.Nil(t, ToMovementDTO(nil))
}

func TestToAlertDTO(t *testing.T) {
	alert := domain.NewInventoryAlert(primitive.NewObjectID(), domain.AlertLowStock, "Product SKU-1 is low on stock")

	dto := ToAlertDTO(alert)
	require.NotNil(t, dto)
	assert.Equal(t, string(domain.AlertLowStock), dto.Type)
	assert.False(t, dto.IsResolved)
	assert.Nil(t, dto.ResolvedAt)

	assert.Nil(t, ToAlertDTO(nil))
}

func TestToStatsDTO(t *testing.T) {
	dto := ToStatsDTO(&domain.InventoryStats{TotalItems: 3, TotalValue: 120, LowStockItems: 1})
	require.NotNil(t, dto)
	assert.Equal(t, int64(3), dto.TotalItems)
	assert.InDelta(t, 120.0, dto.TotalValue, 1e-9)

	assert.Nil(t, ToStatsDTO(nil))
}
