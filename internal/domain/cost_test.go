package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCost(t *testing.T) {
	c, err := NewCost(5, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.UnitCost())
	assert.Equal(t, 4.5, c.AverageCost())

	_, err = NewCost(-1, 0)
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestCost_WithStockIn(t *testing.T) {
	c, _ := NewCost(0, 0)

	// first receipt sets the average to the incoming price
	c, err := c.WithStockIn(0, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.AverageCost())

	// weighted average: (10*5 + 10*7) / 20 = 6
	c, err = c.WithStockIn(10, 10, 7)
	require.NoError(t, err)
	assert.Equal(t, 6.0, c.AverageCost())

	// unit cost is preserved, not overwritten by receipts
	assert.Equal(t, 0.0, c.UnitCost())

	_, err = c.WithStockIn(10, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.WithStockIn(10, 5, -1)
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestCost_UpdateUnitCost(t *testing.T) {
	c, _ := NewCost(5, 6)
	c, err := c.UpdateUnitCost(8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, c.UnitCost())
	assert.Equal(t, 6.0, c.AverageCost())

	_, err = c.UpdateUnitCost(-2)
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestCost_MovementCost(t *testing.T) {
	c, _ := NewCost(5, 6)
	assert.Equal(t, 15.0, c.MovementCost(3, nil))

	override := 10.0
	assert.Equal(t, 30.0, c.MovementCost(3, &override))
}
