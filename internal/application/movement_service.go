package application

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-platform/inventory-service/internal/domain"
	"github.com/ecom-platform/inventory-service/pkg/errors"
	"github.com/ecom-platform/inventory-service/pkg/logging"
)

// MovementService handles ledger read and retention use cases. The ledger
// itself is written by the inventory repository as part of quantity changes.
type MovementService struct {
	movements domain.MovementRepository
	alerts    domain.AlertRepository
	logger    *logging.Logger
}

// NewMovementService creates a new MovementService
func NewMovementService(
	movements domain.MovementRepository,
	alerts domain.AlertRepository,
	logger *logging.Logger,
) *MovementService {
	return &MovementService{
		movements: movements,
		alerts:    alerts,
		logger:    logger,
	}
}

// List returns the movement history of one record, newest first
func (s *MovementService) List(ctx context.Context, query MovementQuery) ([]MovementDTO, int64, error) {
	inventoryID, err := primitive.ObjectIDFromHex(query.InventoryID)
	if err != nil {
		return nil, 0, errors.ErrBadRequest("Invalid inventory id")
	}

	filter := domain.MovementFilter{
		ReferenceID: query.ReferenceID,
		From:        query.From,
		To:          query.To,
		Limit:       query.Limit,
		Offset:      query.Offset,
	}
	if query.Type != nil {
		movementType := domain.MovementType(*query.Type)
		if !movementType.IsValid() {
			return nil, 0, errors.ErrValidation("Invalid movement type")
		}
		filter.Type = &movementType
	}

	entries, total, err := s.movements.List(ctx, inventoryID, filter)
	if err != nil {
		s.logger.Error("Failed to list movements", "inventoryId", query.InventoryID, "error", err)
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}

	return ToMovementDTOs(entries), total, nil
}

// Summary aggregates the ledger over a window for a record or a warehouse
func (s *MovementService) Summary(ctx context.Context, query SummaryQuery) (*MovementSummaryDTO, error) {
	filter := domain.SummaryFilter{
		WarehouseID: query.WarehouseID,
		From:        query.From,
		To:          query.To,
	}
	if query.InventoryID != nil {
		inventoryID, err := primitive.ObjectIDFromHex(*query.InventoryID)
		if err != nil {
			return nil, errors.ErrBadRequest("Invalid inventory id")
		}
		filter.InventoryID = &inventoryID
	}

	summary, err := s.movements.Summary(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to summarize movements", "error", err)
		return nil, fmt.Errorf("failed to summarize movements: %w", err)
	}

	return ToMovementSummaryDTO(summary), nil
}

// CleanupRetention bulk-deletes movements and resolved alerts older than the
// retention window. This is the only path allowed to remove ledger entries.
func (s *MovementService) CleanupRetention(ctx context.Context, retention time.Duration) (*CleanupResultDTO, error) {
	if retention <= 0 {
		return nil, errors.ErrValidation("Retention window must be positive")
	}

	cutoff := time.Now().UTC().Add(-retention)

	movementsDeleted, err := s.movements.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to clean up movements", "error", err)
		return nil, fmt.Errorf("failed to clean up movements: %w", err)
	}

	alertsDeleted, err := s.alerts.DeleteResolvedOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to clean up alerts", "error", err)
		return nil, fmt.Errorf("failed to clean up alerts: %w", err)
	}

	s.logger.Info("Retention cleanup complete",
		"cutoff", cutoff,
		"movementsDeleted", movementsDeleted,
		"alertsDeleted", alertsDeleted,
	)
	return &CleanupResultDTO{
		MovementsDeleted: movementsDeleted,
		AlertsDeleted:    alertsDeleted,
	}, nil
}
