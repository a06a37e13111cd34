package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementStockIn     MovementType = "STOCK_IN"
	MovementStockOut    MovementType = "STOCK_OUT"
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementReservation MovementType = "RESERVATION"
	MovementRelease     MovementType = "RELEASE"
	MovementTransfer    MovementType = "TRANSFER"
	MovementDamage      MovementType = "DAMAGE"
	MovementReturn      MovementType = "RETURN"
)

// IsValid reports whether t is a known movement type.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementStockIn, MovementStockOut, MovementAdjustment, MovementReservation,
		MovementRelease, MovementTransfer, MovementDamage, MovementReturn:
		return true
	}
	return false
}

// MovementEntry is one immutable row of the movement ledger. Entries are never
// updated or deleted once written, except by the retention cleanup job.
//
// Quantity is signed only for transfers: the outgoing leg is negative, the
// incoming leg positive. All other types carry the unsigned magnitude.
type MovementEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InventoryID   primitive.ObjectID `bson:"inventoryId" json:"inventoryId"`
	Type          MovementType       `bson:"type" json:"type"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	ReferenceID   string             `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	ReferenceType string             `bson:"referenceType,omitempty" json:"referenceType,omitempty"`
	Reason        string             `bson:"reason" json:"reason"`
	UnitCost      *float64           `bson:"unitCost,omitempty" json:"unitCost,omitempty"`
	TotalCost     *float64           `bson:"totalCost,omitempty" json:"totalCost,omitempty"`
	UserID        string             `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewMovementEntry builds a ledger entry for an inventory record.
func NewMovementEntry(inventoryID primitive.ObjectID, movementType MovementType, quantity int, reason string) *MovementEntry {
	return &MovementEntry{
		ID:          primitive.NewObjectID(),
		InventoryID: inventoryID,
		Type:        movementType,
		Quantity:    quantity,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
}

// WithReference attaches the order/transfer/purchase-order that caused the movement.
func (m *MovementEntry) WithReference(referenceID, referenceType string) *MovementEntry {
	m.ReferenceID = referenceID
	m.ReferenceType = referenceType
	return m
}

// WithCost attaches unit and total cost.
func (m *MovementEntry) WithCost(unitCost, totalCost float64) *MovementEntry {
	m.UnitCost = &unitCost
	m.TotalCost = &totalCost
	return m
}

// WithUser attaches the acting user.
func (m *MovementEntry) WithUser(userID string) *MovementEntry {
	m.UserID = userID
	return m
}

// MovementSummary aggregates ledger entries over a date range.
// STOCK_IN and RETURN count as inbound, STOCK_OUT and DAMAGE as outbound,
// ADJUSTMENT separately. Value is the sum of totalCost over all entries.
type MovementSummary struct {
	TotalIn          int     `json:"totalIn"`
	TotalOut         int     `json:"totalOut"`
	TotalAdjustments int     `json:"totalAdjustments"`
	TotalValue       float64 `json:"totalValue"`
	MovementCount    int64   `json:"movementCount"`
}
