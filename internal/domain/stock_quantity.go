package domain

// StockQuantity is an immutable total/available/reserved triple. All mutation
// goes through the factory operations below, each returning a new value.
// Every validated constructor enforces the invariant
// available + reserved == total with all three fields non-negative.
type StockQuantity struct {
	total     int
	available int
	reserved  int
}

// NewStockQuantity validates and builds a stock triple.
func NewStockQuantity(total, available, reserved int) (StockQuantity, error) {
	if total < 0 || available < 0 || reserved < 0 {
		return StockQuantity{}, ErrNegativeQuantity
	}
	if available+reserved != total {
		return StockQuantity{}, ErrQuantityInvariant
	}
	return StockQuantity{total: total, available: available, reserved: reserved}, nil
}

// StockFromTotal builds a triple for a fresh record: everything available.
func StockFromTotal(total int) (StockQuantity, error) {
	return NewStockQuantity(total, total, 0)
}

// rawStockQuantity builds a triple without invariant validation. Only the
// adjustment path uses it; see AdjustTo.
func rawStockQuantity(total, available, reserved int) StockQuantity {
	return StockQuantity{total: total, available: available, reserved: reserved}
}

func (q StockQuantity) Total() int     { return q.total }
func (q StockQuantity) Available() int { return q.available }
func (q StockQuantity) Reserved() int  { return q.reserved }

// Reserve moves qty units from available to reserved.
func (q StockQuantity) Reserve(qty int) (StockQuantity, error) {
	if qty <= 0 {
		return StockQuantity{}, ErrInvalidQuantity
	}
	if qty > q.available {
		return StockQuantity{}, ErrInsufficientAvailable
	}
	return NewStockQuantity(q.total, q.available-qty, q.reserved+qty)
}

// Release moves qty units from reserved back to available.
func (q StockQuantity) Release(qty int) (StockQuantity, error) {
	if qty <= 0 {
		return StockQuantity{}, ErrInvalidQuantity
	}
	if qty > q.reserved {
		return StockQuantity{}, ErrExcessRelease
	}
	return NewStockQuantity(q.total, q.available+qty, q.reserved-qty)
}

// AddStock records a stock-in: total and available both grow.
func (q StockQuantity) AddStock(qty int) (StockQuantity, error) {
	if qty <= 0 {
		return StockQuantity{}, ErrInvalidQuantity
	}
	return NewStockQuantity(q.total+qty, q.available+qty, q.reserved)
}

// RemoveStock records a stock-out from available inventory.
func (q StockQuantity) RemoveStock(qty int) (StockQuantity, error) {
	if qty <= 0 {
		return StockQuantity{}, ErrInvalidQuantity
	}
	if qty > q.available {
		return StockQuantity{}, ErrInsufficientAvailable
	}
	return NewStockQuantity(q.total-qty, q.available-qty, q.reserved)
}

// AdjustTo applies an absolute correction of the total (cycle counts).
// The delta is absorbed by available, floored at zero; reserved is untouched.
//
// When the delta is negative and larger than available, the resulting triple
// breaks the available+reserved==total invariant. The upstream system behaves
// this way and callers depend on the exact arithmetic, so the result is
// returned unvalidated rather than coerced. Pending a product decision.
func (q StockQuantity) AdjustTo(newTotal int) (StockQuantity, error) {
	if newTotal < 0 {
		return StockQuantity{}, ErrNegativeQuantity
	}
	delta := newTotal - q.total
	available := q.available + delta
	if available < 0 {
		available = 0
	}
	return rawStockQuantity(newTotal, available, q.reserved), nil
}

// IsConsistent reports whether the invariant holds. An adjustment that cut
// total below reserved is the only documented way it can be false.
func (q StockQuantity) IsConsistent() bool {
	return q.total >= 0 && q.available >= 0 && q.reserved >= 0 &&
		q.available+q.reserved == q.total
}
