package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecom-platform/inventory-service/internal/domain"
	"github.com/ecom-platform/inventory-service/internal/infrastructure/memory"
	"github.com/ecom-platform/inventory-service/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.New(&logging.Config{
		Level:       logging.LevelError,
		ServiceName: "inventory-service-test",
		Output:      io.Discard,
	})
}

type testEnv struct {
	store     *memory.Store
	commands  *InventoryCommandService
	queries   *InventoryQueryService
	movements *MovementService
	alerts    *AlertService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	logger := testLogger()
	policy := domain.NewInventoryService()

	return &testEnv{
		store:     store,
		commands:  NewInventoryCommandService(store.Inventory(), store.Alerts(), policy, nil, logger),
		queries:   NewInventoryQueryService(store.Inventory(), policy, logger),
		movements: NewMovementService(store.Movements(), store.Alerts(), logger),
		alerts:    NewAlertService(store.Inventory(), store.Alerts(), policy, nil, logger),
	}
}

func (e *testEnv) mustCreate(t *testing.T, cmd CreateInventoryCommand) *InventoryDTO {
	t.Helper()
	dto, err := e.commands.Create(context.Background(), cmd)
	require.NoError(t, err)
	return dto
}

func baseCreateCommand(productID, sku string, total int) CreateInventoryCommand {
	return CreateInventoryCommand{
		ProductID:       productID,
		SKU:             sku,
		WarehouseID:     "WH-1",
		TotalQuantity:   total,
		UnitCost:        5.0,
		ReorderQuantity: 10,
	}
}

func TestInventoryCommandService_CreateRejectsDuplicates(t *testing.T) {
	env := newTestEnv()

	env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	_, err := env.commands.Create(context.Background(), baseCreateCommand("prod-1", "SKU-2", 10))
	assert.Error(t, err)

	_, err = env.commands.Create(context.Background(), baseCreateCommand("prod-2", "SKU-1", 10))
	assert.Error(t, err)
}

func TestInventoryCommandService_ReserveHappyPath(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	result, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID:     "prod-1",
		WarehouseID:   "WH-1",
		Quantity:      4,
		ReferenceID:   "order-1",
		ReferenceType: "ORDER",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, created.ID, result.InventoryID)
	assert.False(t, result.Backordered)

	got, err := env.commands.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.AvailableQuantity)
	assert.Equal(t, 4, got.ReservedQuantity)
	assert.Equal(t, 10, got.TotalQuantity)

	movements, total, err := env.movements.List(context.Background(), MovementQuery{InventoryID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, string(domain.MovementReservation), movements[0].Type)
	assert.Equal(t, "order-1", movements[0].ReferenceID)

	events := env.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "inventory.stock.reserved", events[0].EventType())
}

func TestInventoryCommandService_ReserveFailures(t *testing.T) {
	env := newTestEnv()
	env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	result, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "missing", WarehouseID: "WH-1", Quantity: 1,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Inventory not found for this product", result.Message)

	result, err = env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 11,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient stock and backorder not allowed", result.Message)

	_, err = env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 0,
	})
	assert.Error(t, err)
}

func TestInventoryCommandService_ReserveBackorder(t *testing.T) {
	env := newTestEnv()
	limit := 5
	cmd := baseCreateCommand("prod-1", "SKU-1", 10)
	cmd.AllowBackorder = true
	cmd.BackorderLimit = &limit
	created := env.mustCreate(t, cmd)

	// Within the limit: available goes negative by the shortfall
	result, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 14,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Backordered)

	got, err := env.commands.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, -4, got.AvailableQuantity)
	assert.Equal(t, 14, got.ReservedQuantity)
	assert.Equal(t, 10, got.TotalQuantity)
}

func TestInventoryCommandService_ReserveBackorderLimitExceeded(t *testing.T) {
	env := newTestEnv()
	limit := 5
	cmd := baseCreateCommand("prod-1", "SKU-1", 10)
	cmd.AllowBackorder = true
	cmd.BackorderLimit = &limit
	env.mustCreate(t, cmd)

	result, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 16,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Exceeds backorder limit", result.Message)
}

func TestInventoryCommandService_ReserveInactive(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	_, err := env.commands.Deactivate(context.Background(), created.ID)
	require.NoError(t, err)

	result, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 1,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Inventory is not active", result.Message)
}

// With k units available and many concurrent single-unit reserves, exactly k
// may succeed and the counters must stay consistent.
func TestInventoryCommandService_ConcurrentReserves(t *testing.T) {
	env := newTestEnv()
	const available = 7
	const attempts = 25
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", available))

	var wg sync.WaitGroup
	results := make([]*ReserveStockResult, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.commands.Reserve(context.Background(), ReserveStockCommand{
				ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 1,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, result := range results {
		require.NoError(t, errs[i])
		if result.Success {
			succeeded++
		}
	}
	assert.Equal(t, available, succeeded)

	got, err := env.commands.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableQuantity)
	assert.Equal(t, available, got.ReservedQuantity)
	assert.Equal(t, available, got.TotalQuantity)
}

func TestInventoryCommandService_ReleaseRoundTrip(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	_, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 4, ReferenceID: "order-1",
	})
	require.NoError(t, err)

	result, err := env.commands.Release(context.Background(), ReleaseStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 4, ReferenceID: "order-1",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	got, err := env.commands.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableQuantity)
	assert.Equal(t, 0, got.ReservedQuantity)
}

func TestInventoryCommandService_ReleaseMoreThanReserved(t *testing.T) {
	env := newTestEnv()
	env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	_, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 3,
	})
	require.NoError(t, err)

	result, err := env.commands.Release(context.Background(), ReleaseStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 5,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Cannot release more than reserved quantity", result.Message)
}

func TestInventoryCommandService_StockInRecomputesAverageCost(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	incoming := 7.0
	got, err := env.commands.StockIn(context.Background(), StockInCommand{
		InventoryID: created.ID,
		Quantity:    10,
		UnitCost:    &incoming,
		ReferenceID: "po-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, got.TotalQuantity)
	assert.Equal(t, 20, got.AvailableQuantity)
	assert.InDelta(t, 6.0, got.AverageCost, 1e-9)
	assert.InDelta(t, 5.0, got.UnitCost, 1e-9)

	events := env.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "inventory.stock.received", events[0].EventType())
}

func TestInventoryCommandService_StockOut(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	result, err := env.commands.StockOut(context.Background(), StockOutCommand{
		InventoryID: created.ID,
		Quantity:    4,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	got, err := env.commands.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.TotalQuantity)
	assert.Equal(t, 6, got.AvailableQuantity)

	result, err = env.commands.StockOut(context.Background(), StockOutCommand{
		InventoryID: created.ID,
		Quantity:    100,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient available stock", result.Message)
}

func TestInventoryCommandService_StockOutDamage(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	result, err := env.commands.StockOut(context.Background(), StockOutCommand{
		InventoryID: created.ID,
		Quantity:    2,
		Damaged:     true,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	movements, _, err := env.movements.List(context.Background(), MovementQuery{InventoryID: created.ID})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, string(domain.MovementDamage), movements[0].Type)
}

// An absolute correction below the reserved quantity floors available at zero
// and leaves the reservation intact, even though the counters no longer add
// up. The discrepancy stays visible for follow-up instead of silently
// shrinking the reservation.
func TestInventoryCommandService_AdjustBelowReserved(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	_, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 8,
	})
	require.NoError(t, err)

	got, err := env.commands.Adjust(context.Background(), AdjustStockCommand{
		InventoryID: created.ID,
		NewTotal:    3,
		Reason:      "cycle count",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalQuantity)
	assert.Equal(t, 0, got.AvailableQuantity)
	assert.Equal(t, 8, got.ReservedQuantity)
	assert.NotNil(t, got.LastStockCheck)

	movements, _, err := env.movements.List(context.Background(), MovementQuery{InventoryID: created.ID})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, string(domain.MovementAdjustment), movements[0].Type)
	assert.Equal(t, 7, movements[0].Quantity)
}

func TestInventoryCommandService_Transfer(t *testing.T) {
	env := newTestEnv()
	src := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))
	dstCmd := baseCreateCommand("prod-1", "SKU-2", 5)
	dstCmd.WarehouseID = "WH-2"
	dst := env.mustCreate(t, dstCmd)

	result, err := env.commands.Transfer(context.Background(), TransferStockCommand{
		FromInventoryID: src.ID,
		ToInventoryID:   dst.ID,
		Quantity:        6,
		Reason:          "rebalance",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	gotSrc, err := env.commands.Get(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, gotSrc.TotalQuantity)
	assert.Equal(t, 4, gotSrc.AvailableQuantity)

	gotDst, err := env.commands.Get(context.Background(), dst.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, gotDst.TotalQuantity)
	assert.Equal(t, 11, gotDst.AvailableQuantity)

	// The two ledger legs must sum to zero, both valued at the source's
	// unit cost with the total cost signed like the quantity
	log := env.store.MovementLog()
	require.Len(t, log, 2)
	assert.Equal(t, 0, log[0].Quantity+log[1].Quantity)
	assert.Contains(t, log[0].Reason, "Transfer out:")
	assert.Contains(t, log[1].Reason, "Transfer in:")

	require.NotNil(t, log[0].UnitCost)
	require.NotNil(t, log[0].TotalCost)
	assert.InDelta(t, 5.0, *log[0].UnitCost, 1e-9)
	assert.InDelta(t, -30.0, *log[0].TotalCost, 1e-9)
	require.NotNil(t, log[1].UnitCost)
	require.NotNil(t, log[1].TotalCost)
	assert.InDelta(t, 5.0, *log[1].UnitCost, 1e-9)
	assert.InDelta(t, 30.0, *log[1].TotalCost, 1e-9)
}

func TestInventoryCommandService_TransferFailures(t *testing.T) {
	env := newTestEnv()
	src := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 5))
	dstCmd := baseCreateCommand("prod-1", "SKU-2", 0)
	dstCmd.WarehouseID = "WH-2"
	dst := env.mustCreate(t, dstCmd)

	result, err := env.commands.Transfer(context.Background(), TransferStockCommand{
		FromInventoryID: src.ID,
		ToInventoryID:   dst.ID,
		Quantity:        6,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient quantity for transfer", result.Message)

	result, err = env.commands.Transfer(context.Background(), TransferStockCommand{
		FromInventoryID: primitiveHex(t),
		ToInventoryID:   dst.ID,
		Quantity:        1,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Source inventory not found", result.Message)

	// Nothing moved in either failure
	gotSrc, err := env.commands.Get(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, gotSrc.TotalQuantity)
	assert.Empty(t, env.store.MovementLog())
}

func TestInventoryCommandService_UpdateRejectsTotalBelowReserved(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	_, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 6,
	})
	require.NoError(t, err)

	newTotal := 4
	_, err = env.commands.Update(context.Background(), created.ID, UpdateInventoryCommand{
		TotalQuantity: &newTotal,
	})
	assert.Error(t, err)

	newTotal = 8
	got, err := env.commands.Update(context.Background(), created.ID, UpdateInventoryCommand{
		TotalQuantity: &newTotal,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalQuantity)
	assert.Equal(t, 2, got.AvailableQuantity)
	assert.Equal(t, 6, got.ReservedQuantity)
}

func TestInventoryCommandService_CheckAvailability(t *testing.T) {
	env := newTestEnv()
	env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	dto, err := env.commands.CheckAvailability(context.Background(), "prod-1", "WH-1", 5)
	require.NoError(t, err)
	assert.True(t, dto.Available)
	assert.Equal(t, 10, dto.AvailableQuantity)

	dto, err = env.commands.CheckAvailability(context.Background(), "prod-1", "WH-1", 15)
	require.NoError(t, err)
	assert.False(t, dto.Available)

	dto, err = env.commands.CheckAvailability(context.Background(), "missing", "WH-1", 1)
	require.NoError(t, err)
	assert.False(t, dto.Available)
}

func TestInventoryCommandService_ReserveCreatesStockAlerts(t *testing.T) {
	env := newTestEnv()
	cmd := baseCreateCommand("prod-1", "SKU-1", 5)
	cmd.LowStockThreshold = 3
	created := env.mustCreate(t, cmd)

	_, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 3,
	})
	require.NoError(t, err)

	alerts, total, err := env.alerts.List(context.Background(), AlertQuery{InventoryID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, string(domain.AlertLowStock), alerts[0].Type)

	// Draining the rest flips to out-of-stock without duplicating low-stock
	_, err = env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 2,
	})
	require.NoError(t, err)

	_, total, err = env.alerts.List(context.Background(), AlertQuery{InventoryID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestInventoryCommandService_CreateValidation(t *testing.T) {
	env := newTestEnv()

	negativeLimit := -1
	cmd := baseCreateCommand("prod-1", "SKU-1", 10)
	cmd.BackorderLimit = &negativeLimit
	_, err := env.commands.Create(context.Background(), cmd)
	assert.Error(t, err)

	cmd = baseCreateCommand("prod-1", "SKU-1", 10)
	cmd.ReorderQuantity = 0
	_, err = env.commands.Create(context.Background(), cmd)
	assert.Error(t, err)

	past := time.Now().UTC().Add(-24 * time.Hour)
	cmd = baseCreateCommand("prod-1", "SKU-1", 10)
	cmd.ExpiryDate = &past
	_, err = env.commands.Create(context.Background(), cmd)
	assert.Error(t, err)

	cmd = baseCreateCommand("prod-1", "SKU-1", 10)
	cmd.LowStockThreshold = -1
	_, err = env.commands.Create(context.Background(), cmd)
	assert.Error(t, err)

	// Nothing was persisted by any rejected create
	_, total, err := env.queries.List(context.Background(), ListInventoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestInventoryCommandService_UpdateValidation(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	negativeLimit := -3
	_, err := env.commands.Update(context.Background(), created.ID, UpdateInventoryCommand{
		BackorderLimit: &negativeLimit,
	})
	assert.Error(t, err)

	zeroReorder := 0
	_, err = env.commands.Update(context.Background(), created.ID, UpdateInventoryCommand{
		ReorderQuantity: &zeroReorder,
	})
	assert.Error(t, err)

	got, err := env.commands.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BackorderLimit)
	assert.Equal(t, 10, got.ReorderQuantity)
}

// A reserve that lands on the low-stock threshold stages a low-stock event in
// the same commit as the reservation; draining the rest stages out-of-stock.
func TestInventoryCommandService_ReserveStagesStockLevelEvents(t *testing.T) {
	env := newTestEnv()
	cmd := baseCreateCommand("prod-1", "SKU-1", 5)
	cmd.LowStockThreshold = 3
	env.mustCreate(t, cmd)

	_, err := env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"inventory.stock.reserved",
		"inventory.stock.low",
	}, eventTypes(env.store.Events()))

	_, err = env.commands.Reserve(context.Background(), ReserveStockCommand{
		ProductID: "prod-1", WarehouseID: "WH-1", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"inventory.stock.reserved",
		"inventory.stock.low",
		"inventory.stock.reserved",
		"inventory.stock.out",
	}, eventTypes(env.store.Events()))
}

func TestInventoryCommandService_StockOutStagesOutOfStockEvent(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 4))

	result, err := env.commands.StockOut(context.Background(), StockOutCommand{
		InventoryID: created.ID,
		Quantity:    4,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, []string{"inventory.stock.out"}, eventTypes(env.store.Events()))
}

func TestInventoryCommandService_StockInReturn(t *testing.T) {
	env := newTestEnv()
	created := env.mustCreate(t, baseCreateCommand("prod-1", "SKU-1", 10))

	got, err := env.commands.StockIn(context.Background(), StockInCommand{
		InventoryID: created.ID,
		Quantity:    2,
		Returned:    true,
		ReferenceID: "rma-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalQuantity)
	assert.Equal(t, 12, got.AvailableQuantity)

	movements, _, err := env.movements.List(context.Background(), MovementQuery{InventoryID: created.ID})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, string(domain.MovementReturn), movements[0].Type)
	assert.Equal(t, "rma-1", movements[0].ReferenceID)

	summary, err := env.movements.Summary(context.Background(), SummaryQuery{InventoryID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalIn)
}

func eventTypes(events []domain.DomainEvent) []string {
	types := make([]string, 0, len(events))
	for _, event := range events {
		types = append(types, event.EventType())
	}
	return types
}

func primitiveHex(t *testing.T) string {
	t.Helper()
	return "ffffffffffffffffffffffff"
}
