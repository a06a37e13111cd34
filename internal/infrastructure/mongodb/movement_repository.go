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

// MovementRepository implements the read/cleanup port over the ledger.
// Entries are inserted by InventoryRepository inside quantity transactions.
type MovementRepository struct {
	collection *mongo.Collection
	inventory  *mongo.Collection
}

// NewMovementRepository creates the adapter
func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{
		collection: db.Collection(movementCollection),
		inventory:  db.Collection(inventoryCollection),
	}
}

// List returns one record's entries, newest first
func (r *MovementRepository) List(ctx context.Context, inventoryID primitive.ObjectID, filter domain.MovementFilter) ([]*domain.MovementEntry, int64, error) {
	query := bson.M{"inventoryId": inventoryID}
	if filter.Type != nil {
		query["type"] = *filter.Type
	}
	if filter.ReferenceID != nil {
		query["referenceId"] = *filter.ReferenceID
	}
	if dateRange := dateRangeFilter(filter.From, filter.To); dateRange != nil {
		query["createdAt"] = dateRange
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
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
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.MovementEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode movements: %w", err)
	}

	return entries, total, nil
}

// Summary aggregates matching entries in one pipeline pass. STOCK_IN and
// RETURN count as inbound, STOCK_OUT and DAMAGE as outbound, ADJUSTMENT
// separately.
func (r *MovementRepository) Summary(ctx context.Context, filter domain.SummaryFilter) (*domain.MovementSummary, error) {
	match := bson.M{}
	if filter.InventoryID != nil {
		match["inventoryId"] = *filter.InventoryID
	}
	if filter.WarehouseID != nil {
		ids, err := r.inventoryIDsInWarehouse(ctx, *filter.WarehouseID)
		if err != nil {
			return nil, err
		}
		match["inventoryId"] = bson.M{"$in": ids}
	}
	if dateRange := dateRangeFilter(filter.From, filter.To); dateRange != nil {
		match["createdAt"] = dateRange
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"totalIn": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{"$type", bson.A{
					string(domain.MovementStockIn), string(domain.MovementReturn),
				}}}, "$quantity", 0,
			}}},
			"totalOut": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{"$type", bson.A{
					string(domain.MovementStockOut), string(domain.MovementDamage),
				}}}, "$quantity", 0,
			}}},
			"totalAdjustments": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$type", string(domain.MovementAdjustment)}}, "$quantity", 0,
			}}},
			"totalValue":    bson.M{"$sum": bson.M{"$ifNull": bson.A{"$totalCost", 0}}},
			"movementCount": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate movements: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalIn          int     `bson:"totalIn"`
		TotalOut         int     `bson:"totalOut"`
		TotalAdjustments int     `bson:"totalAdjustments"`
		TotalValue       float64 `bson:"totalValue"`
		MovementCount    int64   `bson:"movementCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode movement summary: %w", err)
	}
	if len(results) == 0 {
		return &domain.MovementSummary{}, nil
	}

	return &domain.MovementSummary{
		TotalIn:          results[0].TotalIn,
		TotalOut:         results[0].TotalOut,
		TotalAdjustments: results[0].TotalAdjustments,
		TotalValue:       results[0].TotalValue,
		MovementCount:    results[0].MovementCount,
	}, nil
}

// DeleteOlderThan removes entries older than the cutoff
func (r *MovementRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete movements: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *MovementRepository) inventoryIDsInWarehouse(ctx context.Context, warehouseID string) (bson.A, error) {
	cursor, err := r.inventory.Find(ctx, bson.M{"warehouseId": warehouseID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve warehouse records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode warehouse records: %w", err)
	}

	ids := make(bson.A, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func dateRangeFilter(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	rangeFilter := bson.M{}
	if from != nil {
		rangeFilter["$gte"] = *from
	}
	if to != nil {
		rangeFilter["$lte"] = *to
	}
	return rangeFilter
}
