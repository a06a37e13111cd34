package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecom-platform/inventory-service/internal/domain"
	"github.com/ecom-platform/inventory-service/pkg/kafka"
	"github.com/ecom-platform/inventory-service/pkg/outbox"
	outboxMongo "github.com/ecom-platform/inventory-service/pkg/outbox/mongodb"
)

// Collection names
const (
	inventoryCollection = "inventory"
	movementCollection  = "inventory_movements"
	alertCollection     = "inventory_alerts"
)

// InventoryRepository implements domain.InventoryRepository on MongoDB.
// Quantity changes are conditional updates: the availability guard is part of
// the update filter, so a concurrent writer that invalidates the precondition
// makes the update match nothing instead of overselling. Each change commits
// the counter update, the ledger entry and the staged outbox events in one
// transaction.
type InventoryRepository struct {
	collection *mongo.Collection
	movements  *mongo.Collection
	db         *mongo.Database
	outboxRepo *outboxMongo.OutboxRepository
}

// NewInventoryRepository creates the adapter and ensures its indexes
func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	repo := &InventoryRepository{
		collection: db.Collection(inventoryCollection),
		movements:  db.Collection(movementCollection),
		db:         db,
		outboxRepo: outboxMongo.NewOutboxRepository(db),
	}
	repo.ensureIndexes(context.Background())
	_ = repo.outboxRepo.EnsureIndexes(context.Background())
	return repo
}

func (r *InventoryRepository) ensureIndexes(ctx context.Context) {
	inventoryIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "warehouseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "availableQuantity", Value: 1}}},
		{Keys: bson.D{{Key: "expiryDate", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, inventoryIndexes)

	movementIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "inventoryId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "referenceId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}
	r.movements.Indexes().CreateMany(ctx, movementIndexes)
}

// Create inserts a new record. Duplicate-key violations map to the domain
// uniqueness sentinels.
func (r *InventoryRepository) Create(ctx context.Context, record *domain.InventoryRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "sku") {
				return domain.ErrSKUAlreadyExists
			}
			return domain.ErrRecordAlreadyExists
		}
		return fmt.Errorf("failed to create inventory record: %w", err)
	}
	return nil
}

// FindByID returns a record or nil when absent
func (r *InventoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByProductID returns the record for a product in a warehouse, or nil
func (r *InventoryRepository) FindByProductID(ctx context.Context, productID, warehouseID string) (*domain.InventoryRecord, error) {
	filter := bson.M{"productId": productID}
	if warehouseID != "" {
		filter["warehouseId"] = warehouseID
	} else {
		filter["warehouseId"] = bson.M{"$in": bson.A{nil, ""}}
	}
	return r.findOne(ctx, filter)
}

// FindBySKU returns the record for a SKU, or nil
func (r *InventoryRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryRecord, error) {
	return r.findOne(ctx, bson.M{"sku": sku})
}

func (r *InventoryRepository) findOne(ctx context.Context, filter bson.M) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory record: %w", err)
	}
	return &record, nil
}

// Update overwrites the settings fields of an existing record. Quantity
// counters are deliberately not written here; they only change through the
// guarded methods.
func (r *InventoryRepository) Update(ctx context.Context, record *domain.InventoryRecord) error {
	update := bson.M{"$set": bson.M{
		"totalQuantity":     record.TotalQuantity,
		"availableQuantity": record.AvailableQuantity,
		"unitCost":          record.UnitCost,
		"averageCost":       record.AverageCost,
		"lowStockThreshold": record.LowStockThreshold,
		"allowBackorder":    record.AllowBackorder,
		"backorderLimit":    record.BackorderLimit,
		"reorderPoint":      record.ReorderPoint,
		"reorderQuantity":   record.ReorderQuantity,
		"location":          record.Location,
		"batch":             record.Batch,
		"expiryDate":        record.ExpiryDate,
		"isActive":          record.IsActive,
		"notes":             record.Notes,
		"updatedAt":         time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update inventory record: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// List returns matching records with the unpaginated total
func (r *InventoryRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.InventoryRecord, int64, error) {
	filter := bson.M{}
	if opts.WarehouseID != nil {
		filter["warehouseId"] = *opts.WarehouseID
	}
	if opts.IsActive != nil {
		filter["isActive"] = *opts.IsActive
	}
	if opts.LowStock != nil {
		op := "$lte"
		if !*opts.LowStock {
			op = "$gt"
		}
		filter["$expr"] = bson.M{op: bson.A{"$availableQuantity", "$lowStockThreshold"}}
	}
	if opts.Expired != nil {
		if *opts.Expired {
			filter["expiryDate"] = bson.M{"$lt": time.Now().UTC()}
		} else {
			filter["$or"] = bson.A{
				bson.M{"expiryDate": bson.M{"$gte": time.Now().UTC()}},
				bson.M{"expiryDate": bson.M{"$exists": false}},
			}
		}
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: opts.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"sku": pattern},
			bson.M{"productId": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "createdAt"
	}
	sortDir := -1
	if opts.SortOrder == "asc" {
		sortDir = 1
	}

	findOpts := options.Find().SetSort(bson.D{{Key: sortField, Value: sortDir}})
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.InventoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode inventory records: %w", err)
	}

	return records, total, nil
}

// ReserveQuantity commits the reservation only while the shortfall guard still
// holds. A matched-nothing update is the concurrency-failure signal.
func (r *InventoryRepository) ReserveQuantity(ctx context.Context, id primitive.ObjectID, qty, allowedShortfall int, movement *domain.MovementEntry, events ...domain.DomainEvent) (bool, error) {
	filter := bson.M{"_id": id, "isActive": true}
	if allowedShortfall != domain.UnlimitedShortfall {
		filter["availableQuantity"] = bson.M{"$gte": qty - allowedShortfall}
	}
	update := bson.M{
		"$inc": bson.M{"availableQuantity": -qty, "reservedQuantity": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	return r.guardedUpdate(ctx, id, filter, update, movement, events)
}

// ReleaseQuantity commits the release only while reserved still covers it
func (r *InventoryRepository) ReleaseQuantity(ctx context.Context, id primitive.ObjectID, qty int, movement *domain.MovementEntry, events ...domain.DomainEvent) (bool, error) {
	filter := bson.M{"_id": id, "reservedQuantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"availableQuantity": qty, "reservedQuantity": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	return r.guardedUpdate(ctx, id, filter, update, movement, events)
}

// AddQuantity commits a stock-in with the recomputed average cost
func (r *InventoryRepository) AddQuantity(ctx context.Context, id primitive.ObjectID, qty int, averageCost float64, movement *domain.MovementEntry, events ...domain.DomainEvent) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"totalQuantity": qty, "availableQuantity": qty},
		"$set": bson.M{"averageCost": averageCost, "updatedAt": time.Now().UTC()},
	}

	ok, err := r.guardedUpdate(ctx, id, filter, update, movement, events)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRecordNotFound
	}
	return nil
}

// RemoveQuantity commits a stock-out only while available still covers it
func (r *InventoryRepository) RemoveQuantity(ctx context.Context, id primitive.ObjectID, qty int, movement *domain.MovementEntry, events ...domain.DomainEvent) (bool, error) {
	filter := bson.M{"_id": id, "availableQuantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"totalQuantity": -qty, "availableQuantity": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	return r.guardedUpdate(ctx, id, filter, update, movement, events)
}

// SetQuantities overwrites the stock triple absolutely (adjustments)
func (r *InventoryRepository) SetQuantities(ctx context.Context, id primitive.ObjectID, quantity domain.StockQuantity, lastStockCheck time.Time, movement *domain.MovementEntry, events ...domain.DomainEvent) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"totalQuantity":     quantity.Total(),
		"availableQuantity": quantity.Available(),
		"reservedQuantity":  quantity.Reserved(),
		"lastStockCheck":    lastStockCheck,
		"updatedAt":         time.Now().UTC(),
	}}

	ok, err := r.guardedUpdate(ctx, id, filter, update, movement, events)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRecordNotFound
	}
	return nil
}

// guardedUpdate runs one conditional counter update plus the ledger append and
// outbox staging in a transaction. Returns false when the filter matched no
// document, with nothing written.
func (r *InventoryRepository) guardedUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M, movement *domain.MovementEntry, events []domain.DomainEvent) (bool, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return false, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := r.collection.UpdateOne(sessCtx, filter, update)
		if err != nil {
			return false, fmt.Errorf("failed to update quantities: %w", err)
		}
		if res.ModifiedCount == 0 {
			return false, nil
		}

		if movement != nil {
			if _, err := r.movements.InsertOne(sessCtx, movement); err != nil {
				return false, fmt.Errorf("failed to append movement: %w", err)
			}
		}
		if err := r.stageEvents(sessCtx, id, events); err != nil {
			return false, err
		}

		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("transaction failed: %w", err)
	}

	return result.(bool), nil
}

// Transfer moves qty between two records with both ledger legs in one
// transaction. The source guard failing aborts the whole unit.
func (r *InventoryRepository) Transfer(ctx context.Context, fromID, toID primitive.ObjectID, qty int, outMovement, inMovement *domain.MovementEntry, events ...domain.DomainEvent) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	now := time.Now().UTC()
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		outFilter := bson.M{"_id": fromID, "availableQuantity": bson.M{"$gte": qty}}
		outUpdate := bson.M{
			"$inc": bson.M{"totalQuantity": -qty, "availableQuantity": -qty},
			"$set": bson.M{"updatedAt": now},
		}
		res, err := r.collection.UpdateOne(sessCtx, outFilter, outUpdate)
		if err != nil {
			return nil, fmt.Errorf("failed to update source record: %w", err)
		}
		if res.ModifiedCount == 0 {
			return nil, domain.ErrInsufficientAvailable
		}

		inUpdate := bson.M{
			"$inc": bson.M{"totalQuantity": qty, "availableQuantity": qty},
			"$set": bson.M{"updatedAt": now},
		}
		res, err = r.collection.UpdateOne(sessCtx, bson.M{"_id": toID}, inUpdate)
		if err != nil {
			return nil, fmt.Errorf("failed to update destination record: %w", err)
		}
		if res.ModifiedCount == 0 {
			return nil, domain.ErrRecordNotFound
		}

		if _, err := r.movements.InsertMany(sessCtx, []interface{}{outMovement, inMovement}); err != nil {
			return nil, fmt.Errorf("failed to append transfer movements: %w", err)
		}
		if err := r.stageEvents(sessCtx, fromID, events); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		if err == domain.ErrInsufficientAvailable || err == domain.ErrRecordNotFound {
			return err
		}
		return fmt.Errorf("transfer transaction failed: %w", err)
	}

	return nil
}

// Delete hard-deletes a record with its movements and alerts
func (r *InventoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := r.collection.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("failed to delete inventory record: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrRecordNotFound
		}

		if _, err := r.movements.DeleteMany(sessCtx, bson.M{"inventoryId": id}); err != nil {
			return nil, fmt.Errorf("failed to delete movements: %w", err)
		}
		if _, err := r.db.Collection(alertCollection).DeleteMany(sessCtx, bson.M{"inventoryId": id}); err != nil {
			return nil, fmt.Errorf("failed to delete alerts: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		if err == domain.ErrRecordNotFound {
			return err
		}
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

// Stats computes the dashboard aggregate in one pipeline pass
func (r *InventoryRepository) Stats(ctx context.Context, warehouseID *string, expiryWindow time.Duration) (*domain.InventoryStats, error) {
	now := time.Now().UTC()
	horizon := now.Add(expiryWindow)

	match := bson.M{"isActive": true}
	if warehouseID != nil {
		match["warehouseId"] = *warehouseID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalItems": bson.M{"$sum": 1},
			"totalValue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$totalQuantity", "$averageCost"}}},
			"outOfStockItems": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{"$availableQuantity", 0}}, 1, 0,
			}}},
			"lowStockItems": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$gt": bson.A{"$availableQuantity", 0}},
					bson.M{"$lte": bson.A{"$availableQuantity", "$lowStockThreshold"}},
				}}, 1, 0,
			}}},
			"expiredItems": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$ne": bson.A{"$expiryDate", nil}},
					bson.M{"$lt": bson.A{"$expiryDate", now}},
				}}, 1, 0,
			}}},
			"expiringItems": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$ne": bson.A{"$expiryDate", nil}},
					bson.M{"$gte": bson.A{"$expiryDate", now}},
					bson.M{"$lt": bson.A{"$expiryDate", horizon}},
				}}, 1, 0,
			}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.InventoryStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	if len(results) == 0 {
		return &domain.InventoryStats{}, nil
	}
	return &results[0], nil
}

// stageEvents writes the domain events to the outbox inside the caller's
// transaction. Alert-flavored events route to the alert topic.
func (r *InventoryRepository) stageEvents(sessCtx mongo.SessionContext, aggregateID primitive.ObjectID, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(events))
	for _, event := range events {
		topic := kafka.Topics.InventoryEvents
		switch event.(type) {
		case *domain.LowStockEvent, *domain.OutOfStockEvent:
			topic = kafka.Topics.AlertEvents
		}

		outboxEvent, err := outbox.NewOutboxEvent(aggregateID.Hex(), "InventoryRecord", topic, event)
		if err != nil {
			return fmt.Errorf("failed to create outbox event: %w", err)
		}
		outboxEvents = append(outboxEvents, outboxEvent)
	}

	if err := r.outboxRepo.SaveAll(sessCtx, outboxEvents); err != nil {
		return fmt.Errorf("failed to save outbox events: %w", err)
	}
	return nil
}

// OutboxRepository exposes the outbox adapter sharing this database
func (r *InventoryRepository) OutboxRepository() *outboxMongo.OutboxRepository {
	return r.outboxRepo
}
