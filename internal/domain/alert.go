package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertType classifies a derived inventory alert.
type AlertType string

const (
	AlertLowStock   AlertType = "LOW_STOCK"
	AlertOutOfStock AlertType = "OUT_OF_STOCK"
	AlertExpired    AlertType = "EXPIRED"
	AlertNearExpiry AlertType = "NEAR_EXPIRY"
)

// InventoryAlert is a derived signal, not a source of truth. Alerts are
// created by the alerting policy and resolved by operator action only; they
// are not auto-resolved when the triggering condition clears.
type InventoryAlert struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InventoryID primitive.ObjectID `bson:"inventoryId" json:"inventoryId"`
	Type        AlertType          `bson:"type" json:"type"`
	Message     string             `bson:"message" json:"message"`
	IsResolved  bool               `bson:"isResolved" json:"isResolved"`
	ResolvedAt  *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewInventoryAlert builds an unresolved alert.
func NewInventoryAlert(inventoryID primitive.ObjectID, alertType AlertType, message string) *InventoryAlert {
	return &InventoryAlert{
		ID:          primitive.NewObjectID(),
		InventoryID: inventoryID,
		Type:        alertType,
		Message:     message,
		IsResolved:  false,
		CreatedAt:   time.Now().UTC(),
	}
}

// Resolve marks the alert resolved at the given time.
func (a *InventoryAlert) Resolve(at time.Time) error {
	if a.IsResolved {
		return ErrAlertAlreadyResolved
	}
	a.IsResolved = true
	a.ResolvedAt = &at
	return nil
}
