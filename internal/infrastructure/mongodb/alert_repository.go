package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecom-platform/inventory-service/internal/domain"
)

// AlertRepository implements domain.AlertRepository on MongoDB
type AlertRepository struct {
	collection *mongo.Collection
}

// NewAlertRepository creates the adapter and ensures its indexes
func NewAlertRepository(db *mongo.Database) *AlertRepository {
	repo := &AlertRepository{collection: db.Collection(alertCollection)}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *AlertRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "inventoryId", Value: 1}, {Key: "type", Value: 1}, {Key: "isResolved", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Create saves a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *domain.InventoryAlert) error {
	if _, err := r.collection.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// FindByID returns an alert or nil when absent
func (r *AlertRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryAlert, error) {
	var alert domain.InventoryAlert
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find alert: %w", err)
	}
	return &alert, nil
}

// HasUnresolved reports whether an unresolved alert of this type exists for the record
func (r *AlertRepository) HasUnresolved(ctx context.Context, inventoryID primitive.ObjectID, alertType domain.AlertType) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"inventoryId": inventoryID,
		"type":        alertType,
		"isResolved":  false,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check unresolved alerts: %w", err)
	}
	return count > 0, nil
}

// List returns matching alerts, newest first
func (r *AlertRepository) List(ctx context.Context, filter domain.AlertFilter) ([]*domain.InventoryAlert, int64, error) {
	query := bson.M{}
	if filter.InventoryID != nil {
		query["inventoryId"] = *filter.InventoryID
	}
	if filter.Type != nil {
		query["type"] = *filter.Type
	}
	if filter.IsResolved != nil {
		query["isResolved"] = *filter.IsResolved
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Offset > 0 {
		findOpts.SetSkip(filter.Offset)
	}
	if filter.Limit > 0 {
		findOpts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var alerts []*domain.InventoryAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode alerts: %w", err)
	}

	return alerts, total, nil
}

// Update overwrites an existing alert
func (r *AlertRepository) Update(ctx context.Context, alert *domain.InventoryAlert) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": alert.ID}, alert)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrAlertNotFound
	}
	return nil
}

// DeleteResolvedOlderThan removes resolved alerts older than the cutoff
func (r *AlertRepository) DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"isResolved": true,
		"createdAt":  bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete resolved alerts: %w", err)
	}
	return result.DeletedCount, nil
}
