package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

func TestAlertService_ScanDerivesAlerts(t *testing.T) {
	env := newTestEnv()

	lowCmd := baseCreateCommand("prod-low", "SKU-LOW", 2)
	lowCmd.LowStockThreshold = 5
	low := env.mustCreate(t, lowCmd)

	outCmd := baseCreateCommand("prod-out", "SKU-OUT", 0)
	out := env.mustCreate(t, outCmd)

	// Expiry must be in the future at create time, so age it via update
	exp := env.mustCreate(t, baseCreateCommand("prod-exp", "SKU-EXP", 50))
	expired := time.Now().UTC().Add(-24 * time.Hour)
	_, err := env.commands.Update(context.Background(), exp.ID, UpdateInventoryCommand{ExpiryDate: &expired})
	require.NoError(t, err)

	healthy := baseCreateCommand("prod-ok", "SKU-OK", 100)
	env.mustCreate(t, healthy)

	created, err := env.alerts.Scan(context.Background())
	require.NoError(t, err)
	// low stock + out of stock + expired + near expiry (expired dates co-trigger)
	assert.Equal(t, 4, created)

	alerts, _, err := env.alerts.List(context.Background(), AlertQuery{InventoryID: &low.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, string(domain.AlertLowStock), alerts[0].Type)
	assert.False(t, alerts[0].IsResolved)

	alerts, _, err = env.alerts.List(context.Background(), AlertQuery{InventoryID: &out.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, string(domain.AlertOutOfStock), alerts[0].Type)
}

func TestAlertService_ScanDoesNotDuplicateUnresolved(t *testing.T) {
	env := newTestEnv()

	cmd := baseCreateCommand("prod-low", "SKU-LOW", 2)
	cmd.LowStockThreshold = 5
	env.mustCreate(t, cmd)

	created, err := env.alerts.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = env.alerts.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestAlertService_ScanRecreatesAfterResolve(t *testing.T) {
	env := newTestEnv()

	cmd := baseCreateCommand("prod-low", "SKU-LOW", 2)
	cmd.LowStockThreshold = 5
	created := env.mustCreate(t, cmd)

	_, err := env.alerts.Scan(context.Background())
	require.NoError(t, err)

	alerts, _, err := env.alerts.List(context.Background(), AlertQuery{InventoryID: &created.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	resolved, err := env.alerts.Resolve(context.Background(), alerts[0].ID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolvedAt)

	// The condition still holds, so the next scan raises it again
	count, err := env.alerts.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAlertService_ResolveTwiceConflicts(t *testing.T) {
	env := newTestEnv()

	cmd := baseCreateCommand("prod-low", "SKU-LOW", 0)
	created := env.mustCreate(t, cmd)

	_, err := env.alerts.Scan(context.Background())
	require.NoError(t, err)

	alerts, _, err := env.alerts.List(context.Background(), AlertQuery{InventoryID: &created.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	_, err = env.alerts.Resolve(context.Background(), alerts[0].ID)
	require.NoError(t, err)

	_, err = env.alerts.Resolve(context.Background(), alerts[0].ID)
	assert.Error(t, err)
}

func TestAlertService_ResolveMissing(t *testing.T) {
	env := newTestEnv()

	_, err := env.alerts.Resolve(context.Background(), "not-a-hex-id")
	assert.Error(t, err)

	_, err = env.alerts.Resolve(context.Background(), primitiveHex(t))
	assert.Error(t, err)
}

func TestAlertService_ListFilters(t *testing.T) {
	env := newTestEnv()

	cmd := baseCreateCommand("prod-low", "SKU-LOW", 2)
	cmd.LowStockThreshold = 5
	created := env.mustCreate(t, cmd)
	env.mustCreate(t, baseCreateCommand("prod-out", "SKU-OUT", 0))

	_, err := env.alerts.Scan(context.Background())
	require.NoError(t, err)

	lowType := string(domain.AlertLowStock)
	alerts, total, err := env.alerts.List(context.Background(), AlertQuery{Type: &lowType})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, created.ID, alerts[0].InventoryID)

	unresolved := false
	_, total, err = env.alerts.List(context.Background(), AlertQuery{IsResolved: &unresolved})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
