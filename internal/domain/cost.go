package domain

// Cost is an immutable unit-cost/average-cost pair. The average is the
// weighted average over all stock-in movements; the unit cost is the latest
// purchase price and only changes through UpdateUnitCost.
type Cost struct {
	unitCost    float64
	averageCost float64
}

// NewCost validates and builds a cost pair.
func NewCost(unitCost, averageCost float64) (Cost, error) {
	if unitCost < 0 || averageCost < 0 {
		return Cost{}, ErrNegativeCost
	}
	return Cost{unitCost: unitCost, averageCost: averageCost}, nil
}

func (c Cost) UnitCost() float64    { return c.unitCost }
func (c Cost) AverageCost() float64 { return c.averageCost }

// WithStockIn recomputes the weighted average after receiving incomingQty
// units at incomingUnitCost. With no stock on hand the incoming price becomes
// the average. The unit cost field is preserved.
func (c Cost) WithStockIn(currentQty, incomingQty int, incomingUnitCost float64) (Cost, error) {
	if incomingQty <= 0 {
		return Cost{}, ErrInvalidQuantity
	}
	if incomingUnitCost < 0 {
		return Cost{}, ErrNegativeCost
	}
	if currentQty <= 0 {
		return Cost{unitCost: c.unitCost, averageCost: incomingUnitCost}, nil
	}
	avg := (float64(currentQty)*c.averageCost + float64(incomingQty)*incomingUnitCost) /
		float64(currentQty+incomingQty)
	return Cost{unitCost: c.unitCost, averageCost: avg}, nil
}

// UpdateUnitCost replaces the unit cost, keeping the average.
func (c Cost) UpdateUnitCost(unitCost float64) (Cost, error) {
	if unitCost < 0 {
		return Cost{}, ErrNegativeCost
	}
	return Cost{unitCost: unitCost, averageCost: c.averageCost}, nil
}

// MovementCost prices a movement of qty units. A non-nil override wins over
// the stored unit cost.
func (c Cost) MovementCost(qty int, override *float64) float64 {
	unit := c.unitCost
	if override != nil {
		unit = *override
	}
	return float64(qty) * unit
}
