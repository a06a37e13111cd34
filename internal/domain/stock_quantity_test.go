package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockQuantity(t *testing.T) {
	q, err := NewStockQuantity(10, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Total())
	assert.Equal(t, 6, q.Available())
	assert.Equal(t, 4, q.Reserved())
	assert.True(t, q.IsConsistent())

	_, err = NewStockQuantity(10, 5, 4)
	assert.ErrorIs(t, err, ErrQuantityInvariant)

	_, err = NewStockQuantity(-1, -1, 0)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestStockFromTotal(t *testing.T) {
	q, err := StockFromTotal(20)
	require.NoError(t, err)
	assert.Equal(t, 20, q.Total())
	assert.Equal(t, 20, q.Available())
	assert.Equal(t, 0, q.Reserved())
}

func TestStockQuantity_Reserve(t *testing.T) {
	q, _ := StockFromTotal(10)

	reserved, err := q.Reserve(4)
	require.NoError(t, err)
	assert.Equal(t, 10, reserved.Total())
	assert.Equal(t, 6, reserved.Available())
	assert.Equal(t, 4, reserved.Reserved())

	// original is untouched
	assert.Equal(t, 10, q.Available())

	_, err = q.Reserve(11)
	assert.ErrorIs(t, err, ErrInsufficientAvailable)
	_, err = q.Reserve(0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestStockQuantity_Release(t *testing.T) {
	q, _ := StockFromTotal(10)
	q, _ = q.Reserve(4)

	released, err := q.Release(3)
	require.NoError(t, err)
	assert.Equal(t, 9, released.Available())
	assert.Equal(t, 1, released.Reserved())

	_, err = q.Release(5)
	assert.ErrorIs(t, err, ErrExcessRelease)
}

func TestStockQuantity_ReserveReleaseRoundTrip(t *testing.T) {
	q, _ := StockFromTotal(17)
	reserved, err := q.Reserve(9)
	require.NoError(t, err)
	back, err := reserved.Release(9)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestStockQuantity_AddRemoveStock(t *testing.T) {
	q, _ := StockFromTotal(5)

	q, err := q.AddStock(10)
	require.NoError(t, err)
	assert.Equal(t, 15, q.Total())
	assert.Equal(t, 15, q.Available())

	q, err = q.RemoveStock(12)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Total())
	assert.Equal(t, 3, q.Available())

	_, err = q.RemoveStock(4)
	assert.ErrorIs(t, err, ErrInsufficientAvailable)
}

func TestStockQuantity_AdjustTo(t *testing.T) {
	q, _ := StockFromTotal(10)
	q, _ = q.Reserve(2)

	adjusted, err := q.AdjustTo(14)
	require.NoError(t, err)
	assert.Equal(t, 14, adjusted.Total())
	assert.Equal(t, 12, adjusted.Available())
	assert.Equal(t, 2, adjusted.Reserved())
	assert.True(t, adjusted.IsConsistent())

	_, err = q.AdjustTo(-1)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

// An adjustment that drops total below reserved floors available at zero and
// leaves reserved untouched, producing the documented inconsistent triple.
// Changing this arithmetic needs a product decision first.
func TestStockQuantity_AdjustBelowReserved(t *testing.T) {
	q, err := NewStockQuantity(10, 2, 8)
	require.NoError(t, err)

	adjusted, err := q.AdjustTo(3)
	require.NoError(t, err)
	assert.Equal(t, 3, adjusted.Total())
	assert.Equal(t, 0, adjusted.Available())
	assert.Equal(t, 8, adjusted.Reserved())
	assert.False(t, adjusted.IsConsistent())
}
