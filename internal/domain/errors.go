package domain

import "errors"

// Domain errors
var (
	// ErrInvalidQuantity is returned when a quantity is zero or negative
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInsufficientAvailable is returned when a reservation or removal exceeds available stock
	ErrInsufficientAvailable = errors.New("insufficient available quantity")

	// ErrExcessRelease is returned when a release exceeds the reserved quantity
	ErrExcessRelease = errors.New("cannot release more than reserved quantity")

	// ErrNegativeQuantity is returned when a stock triple contains a negative field
	ErrNegativeQuantity = errors.New("stock quantities cannot be negative")

	// ErrQuantityInvariant is returned when available + reserved does not equal total.
	// This is a programming-error class: it should never occur if all mutation
	// goes through the documented operations.
	ErrQuantityInvariant = errors.New("stock invariant violated: available + reserved must equal total")

	// ErrNegativeCost is returned when a unit or average cost is negative
	ErrNegativeCost = errors.New("cost cannot be negative")

	// ErrRecordNotFound is returned when an inventory record cannot be found
	ErrRecordNotFound = errors.New("inventory record not found")

	// ErrRecordAlreadyExists is returned when a record already exists for the product
	ErrRecordAlreadyExists = errors.New("inventory record already exists for this product")

	// ErrSKUAlreadyExists is returned when the SKU is already in use
	ErrSKUAlreadyExists = errors.New("sku already exists")

	// ErrRecordInactive is returned when an operation targets a deactivated record
	ErrRecordInactive = errors.New("inventory is not active")

	// ErrTotalBelowReserved is returned when an update would set total below reserved
	ErrTotalBelowReserved = errors.New("total quantity cannot be set below reserved quantity")

	// ErrAlertNotFound is returned when an alert cannot be found
	ErrAlertNotFound = errors.New("alert not found")

	// ErrAlertAlreadyResolved is returned when resolving an already resolved alert
	ErrAlertAlreadyResolved = errors.New("alert is already resolved")
)
