package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryQueryService_ListFilters(t *testing.T) {
	env := newTestEnv()

	lowCmd := baseCreateCommand("prod-low", "SKU-LOW", 2)
	lowCmd.LowStockThreshold = 5
	env.mustCreate(t, lowCmd)

	otherCmd := baseCreateCommand("prod-other", "SKU-OTHER", 100)
	otherCmd.WarehouseID = "WH-2"
	env.mustCreate(t, otherCmd)

	inactive := env.mustCreate(t, baseCreateCommand("prod-off", "SKU-OFF", 10))
	_, err := env.commands.Deactivate(context.Background(), inactive.ID)
	require.NoError(t, err)

	_, total, err := env.queries.List(context.Background(), ListInventoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	warehouse := "WH-2"
	items, total, err := env.queries.List(context.Background(), ListInventoryQuery{WarehouseID: &warehouse})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "SKU-OTHER", items[0].SKU)

	lowStock := true
	items, total, err = env.queries.List(context.Background(), ListInventoryQuery{LowStock: &lowStock})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "SKU-LOW", items[0].SKU)

	active := true
	_, total, err = env.queries.List(context.Background(), ListInventoryQuery{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	items, total, err = env.queries.List(context.Background(), ListInventoryQuery{Search: "prod-other"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "prod-other", items[0].ProductID)
}

func TestInventoryQueryService_ListPagination(t *testing.T) {
	env := newTestEnv()
	env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))
	env.mustCreate(t, baseCreateCommand("prod-2", "SKU-2", 10))
	env.mustCreate(t, baseCreateCommand("prod-3", "SKU-3", 10))

	items, total, err := env.queries.List(context.Background(), ListInventoryQuery{
		Limit:     2,
		SortBy:    "sku",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "SKU-1", items[0].SKU)

	items, _, err = env.queries.List(context.Background(), ListInventoryQuery{
		Limit:     2,
		Offset:    2,
		SortBy:    "sku",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-3", items[0].SKU)
}

func TestInventoryQueryService_Stats(t *testing.T) {
	env := newTestEnv()

	lowCmd := baseCreateCommand("prod-low", "SKU-LOW", 2)
	lowCmd.LowStockThreshold = 5
	env.mustCreate(t, lowCmd)
	env.mustCreate(t, baseCreateCommand("prod-out", "SKU-OUT", 0))
	env.mustCreate(t, baseCreateCommand("prod-ok", "SKU-OK", 100))

	stats, err := env.queries.Stats(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalItems)
	assert.Equal(t, int64(1), stats.LowStockItems)
	assert.Equal(t, int64(1), stats.OutOfStockItems)
	assert.InDelta(t, 510.0, stats.TotalValue, 1e-9)

	warehouse := "WH-9"
	stats, err = env.queries.Stats(context.Background(), &warehouse)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalItems)
}

func TestInventoryQueryService_ReorderRecommendations(t *testing.T) {
	env := newTestEnv()

	belowCmd := baseCreateCommand("prod-below", "SKU-BELOW", 3)
	belowCmd.ReorderPoint = 5
	belowCmd.ReorderQuantity = 20
	env.mustCreate(t, belowCmd)

	outCmd := baseCreateCommand("prod-out", "SKU-OUT", 0)
	outCmd.ReorderPoint = 5
	outCmd.ReorderQuantity = 30
	env.mustCreate(t, outCmd)

	okCmd := baseCreateCommand("prod-ok", "SKU-OK", 100)
	okCmd.ReorderPoint = 5
	env.mustCreate(t, okCmd)

	recs, err := env.queries.ReorderRecommendations(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	bySKU := map[string]ReorderRecommendationDTO{}
	for _, rec := range recs {
		bySKU[rec.SKU] = rec
	}
	assert.Equal(t, "Below reorder point", bySKU["SKU-BELOW"].Reason)
	assert.Equal(t, 20, bySKU["SKU-BELOW"].Quantity)
	assert.Equal(t, "Out of stock", bySKU["SKU-OUT"].Reason)
	assert.Equal(t, 30, bySKU["SKU-OUT"].Quantity)
}
