package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

// seedMovements runs a stock-in, a stock-out and an adjustment against a fresh
// record so the ledger has one entry of each flavor.
func seedMovements(t *testing.T, env *testEnv) *InventoryDTO {
	t.Helper()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	cost := 8.0
	_, err := env.commands.StockIn(context.Background(), StockInCommand{
		InventoryID: created.ID, Quantity: 10, UnitCost: &cost, ReferenceID: "po-1",
	})
	require.NoError(t, err)

	result, err := env.commands.StockOut(context.Background(), StockOutCommand{
		InventoryID: created.ID, Quantity: 5,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	_, err = env.commands.Adjust(context.Background(), AdjustStockCommand{
		InventoryID: created.ID, NewTotal: 12, Reason: "cycle count",
	})
	require.NoError(t, err)

	return created
}

func TestMovementService_List(t *testing.T) {
	env := newTestEnv()
	created := seedMovements(t, env)

	movements, total, err := env.movements.List(context.Background(), MovementQuery{InventoryID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, movements, 3)
	// Newest first
	assert.Equal(t, string(domain.MovementAdjustment), movements[0].Type)
	assert.Equal(t, string(domain.MovementStockOut), movements[1].Type)
	assert.Equal(t, string(domain.MovementStockIn), movements[2].Type)

	stockIn := string(domain.MovementStockIn)
	movements, total, err = env.movements.List(context.Background(), MovementQuery{
		InventoryID: created.ID,
		Type:        &stockIn,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "po-1", movements[0].ReferenceID)

	movements, total, err = env.movements.List(context.Background(), MovementQuery{
		InventoryID: created.ID,
		Limit:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, movements, 2)
}

func TestMovementService_ListInvalidInput(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.movements.List(context.Background(), MovementQuery{InventoryID: "nope"})
	assert.Error(t, err)

	bad := "TELEPORT"
	_, _, err = env.movements.List(context.Background(), MovementQuery{
		InventoryID: primitiveHex(t),
		Type:        &bad,
	})
	assert.Error(t, err)
}

func TestMovementService_Summary(t *testing.T) {
	env := newTestEnv()
	created := seedMovements(t, env)

	summary, err := env.movements.Summary(context.Background(), SummaryQuery{InventoryID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalIn)
	assert.Equal(t, 5, summary.TotalOut)
	// 15 after stock-out, adjusted to 12: magnitude 3
	assert.Equal(t, 3, summary.TotalAdjustments)
	assert.Equal(t, int64(3), summary.MovementCount)
	assert.Greater(t, summary.TotalValue, 0.0)

	warehouse := "WH-1"
	summary, err = env.movements.Summary(context.Background(), SummaryQuery{WarehouseID: &warehouse})
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.MovementCount)

	elsewhere := "WH-9"
	summary, err = env.movements.Summary(context.Background(), SummaryQuery{WarehouseID: &elsewhere})
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.MovementCount)
}

func TestMovementService_CleanupRetention(t *testing.T) {
	env := newTestEnv()
	created := seedMovements(t, env)

	_, err := env.movements.CleanupRetention(context.Background(), 0)
	assert.Error(t, err)

	// Everything stays inside a generous window
	result, err := env.movements.CleanupRetention(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.MovementsDeleted)

	time.Sleep(10 * time.Millisecond)
	result, err = env.movements.CleanupRetention(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.MovementsDeleted)

	_, total, err := env.movements.List(context.Background(), MovementQuery{InventoryID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
