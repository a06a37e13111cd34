package application

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
	"github.com/ecom-platform/inventory-service/pkg/errors"
	"github.com/ecom-platform/inventory-service/pkg/logging"
	"github.com/ecom-platform/inventory-service/pkg/metrics"
)

// InventoryCommandService handles inventory write use cases. Guarded stock
// changes go through the repository's conditional updates so a stale read can
// never oversell; the domain entity is only used for validation and derived
// values before the guarded commit.
type InventoryCommandService struct {
	repo    domain.InventoryRepository
	alerts  domain.AlertRepository
	policy  *domain.InventoryService
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewInventoryCommandService creates a new InventoryCommandService
func NewInventoryCommandService(
	repo domain.InventoryRepository,
	alerts domain.AlertRepository,
	policy *domain.InventoryService,
	m *metrics.Metrics,
	logger *logging.Logger,
) *InventoryCommandService {
	return &InventoryCommandService{
		repo:    repo,
		alerts:  alerts,
		policy:  policy,
		metrics: m,
		logger:  logger,
	}
}

// Create creates a new inventory record
func (s *InventoryCommandService) Create(ctx context.Context, cmd CreateInventoryCommand) (*InventoryDTO, error) {
	if err := validateCreateCommand(cmd); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByProductID(ctx, cmd.ProductID, cmd.WarehouseID); err != nil {
		return nil, fmt.Errorf("failed to check existing inventory: %w", err)
	} else if existing != nil {
		return nil, errors.ErrConflict("Inventory already exists for this product and warehouse")
	}

	if existing, err := s.repo.FindBySKU(ctx, cmd.SKU); err != nil {
		return nil, fmt.Errorf("failed to check existing SKU: %w", err)
	} else if existing != nil {
		return nil, errors.ErrConflict("SKU is already in use")
	}

	record, err := domain.NewInventoryRecord(cmd.ProductID, cmd.SKU, cmd.WarehouseID, cmd.TotalQuantity, cmd.UnitCost)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	record.LowStockThreshold = cmd.LowStockThreshold
	record.AllowBackorder = cmd.AllowBackorder
	record.BackorderLimit = cmd.BackorderLimit
	record.ReorderPoint = cmd.ReorderPoint
	record.ReorderQuantity = cmd.ReorderQuantity
	record.Location = cmd.Location
	record.Batch = cmd.Batch
	record.ExpiryDate = cmd.ExpiryDate
	record.Notes = cmd.Notes

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create inventory", "productId", cmd.ProductID, "sku", cmd.SKU, "error", err)
		if err == domain.ErrSKUAlreadyExists || err == domain.ErrRecordAlreadyExists {
			return nil, errors.ErrConflict(err.Error())
		}
		return nil, fmt.Errorf("failed to create inventory: %w", err)
	}

	s.logger.Info("Created inventory record", "productId", cmd.ProductID, "sku", cmd.SKU, "warehouseId", cmd.WarehouseID)
	return ToInventoryDTO(record), nil
}

// Get retrieves an inventory record by ID
func (s *InventoryCommandService) Get(ctx context.Context, id string) (*InventoryDTO, error) {
	record, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInventoryDTO(record), nil
}

// GetByProduct retrieves an inventory record by product and warehouse
func (s *InventoryCommandService) GetByProduct(ctx context.Context, productID, warehouseID string) (*InventoryDTO, error) {
	record, err := s.repo.FindByProductID(ctx, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if record == nil {
		return nil, errors.ErrNotFound("inventory")
	}
	return ToInventoryDTO(record), nil
}

// GetBySKU retrieves an inventory record by SKU
func (s *InventoryCommandService) GetBySKU(ctx context.Context, sku string) (*InventoryDTO, error) {
	record, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if record == nil {
		return nil, errors.ErrNotFound("inventory")
	}
	return ToInventoryDTO(record), nil
}

// Update applies settings changes to a record. A total-quantity change is an
// absolute correction that keeps reserved intact, so the new total must cover
// the current reservation.
func (s *InventoryCommandService) Update(ctx context.Context, id string, cmd UpdateInventoryCommand) (*InventoryDTO, error) {
	if err := validateUpdateCommand(cmd); err != nil {
		return nil, err
	}

	record, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.TotalQuantity != nil {
		if *cmd.TotalQuantity < record.ReservedQuantity {
			return nil, errors.ErrValidation(domain.ErrTotalBelowReserved.Error())
		}
		record.TotalQuantity = *cmd.TotalQuantity
		record.AvailableQuantity = *cmd.TotalQuantity - record.ReservedQuantity
	}
	if cmd.UnitCost != nil {
		cost, err := record.Cost().UpdateUnitCost(*cmd.UnitCost)
		if err != nil {
			return nil, errors.ErrValidation(err.Error())
		}
		record.UnitCost = cost.UnitCost()
		record.AverageCost = cost.AverageCost()
	}
	if cmd.LowStockThreshold != nil {
		record.LowStockThreshold = *cmd.LowStockThreshold
	}
	if cmd.AllowBackorder != nil {
		record.AllowBackorder = *cmd.AllowBackorder
	}
	if cmd.BackorderLimit != nil {
		record.BackorderLimit = cmd.BackorderLimit
	}
	if cmd.ReorderPoint != nil {
		record.ReorderPoint = *cmd.ReorderPoint
	}
	if cmd.ReorderQuantity != nil {
		record.ReorderQuantity = *cmd.ReorderQuantity
	}
	if cmd.Location != nil {
		record.Location = *cmd.Location
	}
	if cmd.Batch != nil {
		record.Batch = *cmd.Batch
	}
	if cmd.ExpiryDate != nil {
		record.ExpiryDate = cmd.ExpiryDate
	}
	if cmd.Notes != nil {
		record.Notes = *cmd.Notes
	}
	record.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, record); err != nil {
		s.logger.Error("Failed to update inventory", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	s.logger.Info("Updated inventory record", "id", id)
	return ToInventoryDTO(record), nil
}

// CheckAvailability runs the reservation policy without committing anything
func (s *InventoryCommandService) CheckAvailability(ctx context.Context, productID, warehouseID string, quantity int) (*AvailabilityDTO, error) {
	if quantity <= 0 {
		return nil, errors.ErrValidation("Quantity must be positive")
	}

	record, err := s.repo.FindByProductID(ctx, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if record == nil {
		return &AvailabilityDTO{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Available:   false,
			Reason:      "Inventory not found for this product",
		}, nil
	}

	decision := s.policy.CanReserveStock(record, quantity)
	return &AvailabilityDTO{
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Available:         decision.CanReserve,
		AvailableQuantity: record.AvailableQuantity,
		BackorderRequired: decision.BackorderRequired,
		BackorderQuantity: decision.BackorderQuantity,
		Reason:            decision.Reason,
	}, nil
}

// Reserve attempts to reserve stock for an order. The policy decision is made
// on a snapshot; the commit re-checks the guard so concurrent reserves cannot
// oversell. A lost race comes back as a failed result, not an error.
func (s *InventoryCommandService) Reserve(ctx context.Context, cmd ReserveStockCommand) (*ReserveStockResult, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.ErrValidation("Quantity must be positive")
	}

	record, err := s.repo.FindByProductID(ctx, cmd.ProductID, cmd.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if record == nil {
		return &ReserveStockResult{Success: false, Message: "Inventory not found for this product"}, nil
	}

	decision := s.policy.CanReserveStock(record, cmd.Quantity)
	if !decision.CanReserve {
		s.observeReservation("rejected")
		return &ReserveStockResult{Success: false, Message: decision.Reason, InventoryID: record.ID.Hex()}, nil
	}

	allowedShortfall := domain.NoShortfall
	if decision.BackorderRequired {
		if record.BackorderLimit != nil {
			allowedShortfall = *record.BackorderLimit
		} else {
			allowedShortfall = domain.UnlimitedShortfall
		}
	}

	movement := domain.NewMovementEntry(record.ID, domain.MovementReservation, cmd.Quantity, "Stock reservation").
		WithReference(cmd.ReferenceID, cmd.ReferenceType).
		WithCost(record.UnitCost, record.UnitCost*float64(cmd.Quantity)).
		WithUser(cmd.UserID)

	event := &domain.StockReservedEvent{
		SKU:           record.SKU,
		ProductID:     record.ProductID,
		Quantity:      cmd.Quantity,
		ReferenceID:   cmd.ReferenceID,
		ReferenceType: cmd.ReferenceType,
		Backordered:   decision.BackorderRequired,
		ReservedAt:    time.Now().UTC(),
	}

	events := append([]domain.DomainEvent{event}, stockLevelEvents(record, record.AvailableQuantity-cmd.Quantity)...)
	ok, err := s.repo.ReserveQuantity(ctx, record.ID, cmd.Quantity, allowedShortfall, movement, events...)
	if err != nil {
		s.logger.Error("Failed to reserve stock", "productId", cmd.ProductID, "error", err)
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if !ok {
		s.observeReservation("conflict")
		if s.metrics != nil {
			s.metrics.ReservationConflicts.WithLabelValues(s.metrics.ServiceName()).Inc()
		}
		return &ReserveStockResult{
			Success:     false,
			Message:     "Failed to reserve stock due to concurrent access",
			InventoryID: record.ID.Hex(),
		}, nil
	}

	s.observeReservation("success")
	s.observeMovement(domain.MovementReservation)
	s.maybeRaiseStockAlerts(ctx, record.ID)

	s.logger.Info("Reserved stock",
		"productId", cmd.ProductID,
		"quantity", cmd.Quantity,
		"referenceId", cmd.ReferenceID,
		"backordered", decision.BackorderRequired,
	)
	return &ReserveStockResult{
		Success:     true,
		InventoryID: record.ID.Hex(),
		Backordered: decision.BackorderRequired,
	}, nil
}

// Release returns reserved stock to the available pool
func (s *InventoryCommandService) Release(ctx context.Context, cmd ReleaseStockCommand) (*ReleaseStockResult, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.ErrValidation("Quantity must be positive")
	}

	record, err := s.repo.FindByProductID(ctx, cmd.ProductID, cmd.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if record == nil {
		return &ReleaseStockResult{Success: false, Message: "Inventory not found for this product"}, nil
	}

	if cmd.Quantity > record.ReservedQuantity {
		return &ReleaseStockResult{
			Success:     false,
			Message:     "Cannot release more than reserved quantity",
			InventoryID: record.ID.Hex(),
		}, nil
	}

	movement := domain.NewMovementEntry(record.ID, domain.MovementRelease, cmd.Quantity, "Reservation release").
		WithReference(cmd.ReferenceID, cmd.ReferenceType).
		WithUser(cmd.UserID)

	event := &domain.StockReleasedEvent{
		SKU:         record.SKU,
		ProductID:   record.ProductID,
		Quantity:    cmd.Quantity,
		ReferenceID: cmd.ReferenceID,
		ReleasedAt:  time.Now().UTC(),
	}

	ok, err := s.repo.ReleaseQuantity(ctx, record.ID, cmd.Quantity, movement, event)
	if err != nil {
		s.logger.Error("Failed to release stock", "productId", cmd.ProductID, "error", err)
		return nil, fmt.Errorf("failed to release stock: %w", err)
	}
	if !ok {
		// The snapshot passed but a concurrent release shrank the
		// reservation before the commit.
		return &ReleaseStockResult{
			Success:     false,
			Message:     "Cannot release more than reserved quantity",
			InventoryID: record.ID.Hex(),
		}, nil
	}

	s.observeMovement(domain.MovementRelease)
	s.logger.Info("Released stock", "productId", cmd.ProductID, "quantity", cmd.Quantity, "referenceId", cmd.ReferenceID)
	return &ReleaseStockResult{Success: true, InventoryID: record.ID.Hex()}, nil
}

// StockIn receives stock and recomputes the weighted average cost
func (s *InventoryCommandService) StockIn(ctx context.Context, cmd StockInCommand) (*InventoryDTO, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.ErrValidation("Quantity must be positive")
	}

	record, err := s.findByID(ctx, cmd.InventoryID)
	if err != nil {
		return nil, err
	}

	unitCost := record.UnitCost
	if cmd.UnitCost != nil {
		unitCost = *cmd.UnitCost
	}

	cost, err := record.Cost().WithStockIn(record.TotalQuantity, cmd.Quantity, unitCost)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	movementType := domain.MovementStockIn
	reason := cmd.Reason
	if cmd.Returned {
		movementType = domain.MovementReturn
		if reason == "" {
			reason = "Returned stock restocked"
		}
	} else if reason == "" {
		reason = "Stock received"
	}
	movement := domain.NewMovementEntry(record.ID, movementType, cmd.Quantity, reason).
		WithReference(cmd.ReferenceID, cmd.ReferenceType).
		WithCost(unitCost, unitCost*float64(cmd.Quantity)).
		WithUser(cmd.UserID)

	event := &domain.StockReceivedEvent{
		SKU:        record.SKU,
		ProductID:  record.ProductID,
		Quantity:   cmd.Quantity,
		UnitCost:   unitCost,
		ReceivedAt: time.Now().UTC(),
	}

	if err := s.repo.AddQuantity(ctx, record.ID, cmd.Quantity, cost.AverageCost(), movement, event); err != nil {
		s.logger.Error("Failed to stock in", "id", cmd.InventoryID, "error", err)
		return nil, fmt.Errorf("failed to stock in: %w", err)
	}

	s.observeMovement(movementType)
	s.logger.Info("Stocked in", "id", cmd.InventoryID, "quantity", cmd.Quantity, "unitCost", unitCost)

	updated, err := s.repo.FindByID(ctx, record.ID)
	if err != nil || updated == nil {
		return ToInventoryDTO(record), nil
	}
	return ToInventoryDTO(updated), nil
}

// StockOut removes available stock, recorded as STOCK_OUT or DAMAGE
func (s *InventoryCommandService) StockOut(ctx context.Context, cmd StockOutCommand) (*StockOutResult, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.ErrValidation("Quantity must be positive")
	}

	record, err := s.findByID(ctx, cmd.InventoryID)
	if err != nil {
		return nil, err
	}

	movementType := domain.MovementStockOut
	reason := cmd.Reason
	if cmd.Damaged {
		movementType = domain.MovementDamage
		if reason == "" {
			reason = "Damaged stock written off"
		}
	} else if reason == "" {
		reason = "Stock removed"
	}

	movement := domain.NewMovementEntry(record.ID, movementType, cmd.Quantity, reason).
		WithReference(cmd.ReferenceID, cmd.ReferenceType).
		WithCost(record.AverageCost, record.AverageCost*float64(cmd.Quantity)).
		WithUser(cmd.UserID)

	ok, err := s.repo.RemoveQuantity(ctx, record.ID, cmd.Quantity, movement,
		stockLevelEvents(record, record.AvailableQuantity-cmd.Quantity)...)
	if err != nil {
		s.logger.Error("Failed to stock out", "id", cmd.InventoryID, "error", err)
		return nil, fmt.Errorf("failed to stock out: %w", err)
	}
	if !ok {
		return &StockOutResult{
			Success:     false,
			Message:     "Insufficient available stock",
			InventoryID: record.ID.Hex(),
		}, nil
	}

	s.observeMovement(movementType)
	s.maybeRaiseStockAlerts(ctx, record.ID)
	s.logger.Info("Stocked out", "id", cmd.InventoryID, "quantity", cmd.Quantity, "type", movementType)
	return &StockOutResult{Success: true, InventoryID: record.ID.Hex()}, nil
}

// Adjust applies an absolute total correction (cycle count). Reserved stock is
// never touched; available floors at zero even when that leaves the counters
// temporarily inconsistent, so over-reservations stay visible for follow-up.
func (s *InventoryCommandService) Adjust(ctx context.Context, cmd AdjustStockCommand) (*InventoryDTO, error) {
	record, err := s.findByID(ctx, cmd.InventoryID)
	if err != nil {
		return nil, err
	}

	oldTotal := record.TotalQuantity
	quantity, err := record.Quantity().AdjustTo(cmd.NewTotal)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	delta := cmd.NewTotal - oldTotal
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	reason := cmd.Reason
	if reason == "" {
		reason = "Stock adjustment"
	}
	movement := domain.NewMovementEntry(record.ID, domain.MovementAdjustment, magnitude, reason).
		WithUser(cmd.UserID)

	event := &domain.StockAdjustedEvent{
		SKU:        record.SKU,
		OldTotal:   oldTotal,
		NewTotal:   cmd.NewTotal,
		Reason:     reason,
		AdjustedAt: time.Now().UTC(),
	}

	events := []domain.DomainEvent{event}
	if quantity.Available() < record.AvailableQuantity {
		events = append(events, stockLevelEvents(record, quantity.Available())...)
	}

	now := time.Now().UTC()
	if err := s.repo.SetQuantities(ctx, record.ID, quantity, now, movement, events...); err != nil {
		s.logger.Error("Failed to adjust stock", "id", cmd.InventoryID, "error", err)
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.observeMovement(domain.MovementAdjustment)
	s.maybeRaiseStockAlerts(ctx, record.ID)
	s.logger.Info("Adjusted stock", "id", cmd.InventoryID, "oldTotal", oldTotal, "newTotal", cmd.NewTotal)

	updated, err := s.repo.FindByID(ctx, record.ID)
	if err != nil || updated == nil {
		record.TotalQuantity = quantity.Total()
		record.AvailableQuantity = quantity.Available()
		record.ReservedQuantity = quantity.Reserved()
		record.LastStockCheck = &now
		return ToInventoryDTO(record), nil
	}
	return ToInventoryDTO(updated), nil
}

// Transfer moves available stock between two records as one atomic unit
func (s *InventoryCommandService) Transfer(ctx context.Context, cmd TransferStockCommand) (*TransferResult, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.ErrValidation("Quantity must be positive")
	}
	if cmd.FromInventoryID == cmd.ToInventoryID {
		return nil, errors.ErrValidation("Source and destination must differ")
	}

	fromID, err := primitive.ObjectIDFromHex(cmd.FromInventoryID)
	if err != nil {
		return nil, errors.ErrBadRequest("Invalid source inventory id")
	}
	toID, err := primitive.ObjectIDFromHex(cmd.ToInventoryID)
	if err != nil {
		return nil, errors.ErrBadRequest("Invalid destination inventory id")
	}

	from, err := s.repo.FindByID(ctx, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source inventory: %w", err)
	}
	if from == nil {
		return &TransferResult{Success: false, Message: "Source inventory not found"}, nil
	}
	if from.AvailableQuantity < cmd.Quantity {
		return &TransferResult{
			Success:         false,
			Message:         "Insufficient quantity for transfer",
			FromInventoryID: cmd.FromInventoryID,
		}, nil
	}

	to, err := s.repo.FindByID(ctx, toID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination inventory: %w", err)
	}
	if to == nil {
		return &TransferResult{Success: false, Message: "Destination inventory not found"}, nil
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "Stock transfer"
	}

	// Out leg carries a negative quantity, in leg positive; the pair must
	// sum to zero on the ledger. Both legs are valued at the source's unit
	// cost, with total cost signed like the quantity.
	outMovement := domain.NewMovementEntry(fromID, domain.MovementTransfer, -cmd.Quantity, "Transfer out: "+reason).
		WithReference(cmd.ToInventoryID, "TRANSFER").
		WithCost(from.UnitCost, -from.UnitCost*float64(cmd.Quantity)).
		WithUser(cmd.UserID)
	inMovement := domain.NewMovementEntry(toID, domain.MovementTransfer, cmd.Quantity, "Transfer in: "+reason).
		WithReference(cmd.FromInventoryID, "TRANSFER").
		WithCost(from.UnitCost, from.UnitCost*float64(cmd.Quantity)).
		WithUser(cmd.UserID)

	event := &domain.StockTransferredEvent{
		FromInventoryID: cmd.FromInventoryID,
		ToInventoryID:   cmd.ToInventoryID,
		Quantity:        cmd.Quantity,
		Reason:          reason,
		TransferredAt:   time.Now().UTC(),
	}

	events := append([]domain.DomainEvent{event}, stockLevelEvents(from, from.AvailableQuantity-cmd.Quantity)...)
	if err := s.repo.Transfer(ctx, fromID, toID, cmd.Quantity, outMovement, inMovement, events...); err != nil {
		if err == domain.ErrInsufficientAvailable {
			return &TransferResult{
				Success:         false,
				Message:         "Insufficient quantity for transfer",
				FromInventoryID: cmd.FromInventoryID,
			}, nil
		}
		s.logger.Error("Failed to transfer stock", "from", cmd.FromInventoryID, "to", cmd.ToInventoryID, "error", err)
		return nil, fmt.Errorf("failed to transfer stock: %w", err)
	}

	s.observeMovement(domain.MovementTransfer)
	s.maybeRaiseStockAlerts(ctx, fromID)
	s.logger.Info("Transferred stock",
		"from", cmd.FromInventoryID,
		"to", cmd.ToInventoryID,
		"quantity", cmd.Quantity,
	)
	return &TransferResult{
		Success:         true,
		FromInventoryID: cmd.FromInventoryID,
		ToInventoryID:   cmd.ToInventoryID,
	}, nil
}

// Deactivate soft-disables a record
func (s *InventoryCommandService) Deactivate(ctx context.Context, id string) (*InventoryDTO, error) {
	record, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Deactivate()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to deactivate inventory: %w", err)
	}

	s.logger.Info("Deactivated inventory record", "id", id)
	return ToInventoryDTO(record), nil
}

// Activate re-enables a record
func (s *InventoryCommandService) Activate(ctx context.Context, id string) (*InventoryDTO, error) {
	record, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Activate()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to activate inventory: %w", err)
	}

	s.logger.Info("Activated inventory record", "id", id)
	return ToInventoryDTO(record), nil
}

// Delete hard-deletes a record with its movements and alerts. Administrative
// use only; normal flow deactivates instead.
func (s *InventoryCommandService) Delete(ctx context.Context, id string) error {
	record, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		s.logger.Error("Failed to delete inventory", "id", id, "error", err)
		return fmt.Errorf("failed to delete inventory: %w", err)
	}

	s.logger.Info("Deleted inventory record", "id", id, "sku", record.SKU)
	return nil
}

func (s *InventoryCommandService) findByID(ctx context.Context, id string) (*domain.InventoryRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.ErrBadRequest("Invalid inventory id")
	}

	record, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if record == nil {
		return nil, errors.ErrNotFoundWithID("inventory", id)
	}
	return record, nil
}

func validateCreateCommand(cmd CreateInventoryCommand) error {
	if cmd.LowStockThreshold < 0 {
		return errors.ErrValidationWithFields("Low stock threshold cannot be negative",
			map[string]string{"lowStockThreshold": "must be zero or greater"})
	}
	if cmd.ReorderPoint < 0 {
		return errors.ErrValidationWithFields("Reorder point cannot be negative",
			map[string]string{"reorderPoint": "must be zero or greater"})
	}
	if cmd.ReorderQuantity <= 0 {
		return errors.ErrValidationWithFields("Reorder quantity must be positive",
			map[string]string{"reorderQuantity": "must be greater than zero"})
	}
	if cmd.BackorderLimit != nil && *cmd.BackorderLimit < 0 {
		return errors.ErrValidationWithFields("Backorder limit cannot be negative",
			map[string]string{"backorderLimit": "must be zero or greater"})
	}
	if cmd.ExpiryDate != nil && !cmd.ExpiryDate.After(time.Now().UTC()) {
		return errors.ErrValidationWithFields("Expiry date must be in the future",
			map[string]string{"expiryDate": "must be a future date"})
	}
	return nil
}

func validateUpdateCommand(cmd UpdateInventoryCommand) error {
	if cmd.LowStockThreshold != nil && *cmd.LowStockThreshold < 0 {
		return errors.ErrValidationWithFields("Low stock threshold cannot be negative",
			map[string]string{"lowStockThreshold": "must be zero or greater"})
	}
	if cmd.ReorderPoint != nil && *cmd.ReorderPoint < 0 {
		return errors.ErrValidationWithFields("Reorder point cannot be negative",
			map[string]string{"reorderPoint": "must be zero or greater"})
	}
	if cmd.ReorderQuantity != nil && *cmd.ReorderQuantity <= 0 {
		return errors.ErrValidationWithFields("Reorder quantity must be positive",
			map[string]string{"reorderQuantity": "must be greater than zero"})
	}
	if cmd.BackorderLimit != nil && *cmd.BackorderLimit < 0 {
		return errors.ErrValidationWithFields("Backorder limit cannot be negative",
			map[string]string{"backorderLimit": "must be zero or greater"})
	}
	return nil
}

// stockLevelEvents derives the threshold-crossing event for a quantity drop so
// it is staged in the same atomic unit as the movement that caused the drop.
func stockLevelEvents(record *domain.InventoryRecord, newAvailable int) []domain.DomainEvent {
	now := time.Now().UTC()
	if newAvailable <= 0 {
		return []domain.DomainEvent{&domain.OutOfStockEvent{
			SKU:       record.SKU,
			ProductID: record.ProductID,
			AlertedAt: now,
		}}
	}
	if newAvailable <= record.LowStockThreshold {
		return []domain.DomainEvent{&domain.LowStockEvent{
			SKU:               record.SKU,
			ProductID:         record.ProductID,
			AvailableQuantity: newAvailable,
			LowStockThreshold: record.LowStockThreshold,
			AlertedAt:         now,
		}}
	}
	return nil
}

// maybeRaiseStockAlerts derives low/out-of-stock alerts after a quantity drop.
// At most one unresolved alert per type per record; failures here never fail
// the stock operation itself.
func (s *InventoryCommandService) maybeRaiseStockAlerts(ctx context.Context, id primitive.ObjectID) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil || record == nil {
		return
	}

	if record.IsOutOfStock() {
		s.raiseAlert(ctx, record, domain.AlertOutOfStock,
			fmt.Sprintf("Product %s is out of stock", record.SKU))
	}
	if s.policy.ShouldCreateLowStockAlert(record) && !record.IsOutOfStock() {
		s.raiseAlert(ctx, record, domain.AlertLowStock,
			fmt.Sprintf("Product %s is low on stock (%d available, threshold %d)",
				record.SKU, record.AvailableQuantity, record.LowStockThreshold))
	}
}

func (s *InventoryCommandService) raiseAlert(ctx context.Context, record *domain.InventoryRecord, alertType domain.AlertType, message string) {
	exists, err := s.alerts.HasUnresolved(ctx, record.ID, alertType)
	if err != nil || exists {
		return
	}

	alert := domain.NewInventoryAlert(record.ID, alertType, message)
	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.WithError(err).Warn("Failed to create alert", "inventoryId", record.ID.Hex(), "type", alertType)
		return
	}

	if s.metrics != nil {
		s.metrics.AlertsCreated.WithLabelValues(s.metrics.ServiceName(), string(alertType)).Inc()
	}
	s.logger.Info("Created inventory alert", "inventoryId", record.ID.Hex(), "type", alertType)
}

func (s *InventoryCommandService) observeReservation(outcome string) {
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues(s.metrics.ServiceName(), outcome).Inc()
	}
}

func (s *InventoryCommandService) observeMovement(movementType domain.MovementType) {
	if s.metrics != nil {
		s.metrics.MovementsRecorded.WithLabelValues(s.metrics.ServiceName(), string(movementType)).Inc()
	}
}
