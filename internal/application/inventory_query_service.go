package application

import (
	"context"
	"fmt"
	"time"

	"github.com/ecom-platform/inventory-service/internal/domain"
	"github.com/ecom-platform/inventory-service/pkg/logging"
)

// InventoryQueryService handles inventory read use cases
type InventoryQueryService struct {
	repo   domain.InventoryRepository
	policy *domain.InventoryService
	logger *logging.Logger
}

// NewInventoryQueryService creates a new InventoryQueryService
func NewInventoryQueryService(
	repo domain.InventoryRepository,
	policy *domain.InventoryService,
	logger *logging.Logger,
) *InventoryQueryService {
	return &InventoryQueryService{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// List returns a filtered, paginated inventory listing with the total count
func (s *InventoryQueryService) List(ctx context.Context, query ListInventoryQuery) ([]InventoryDTO, int64, error) {
	opts := domain.ListOptions{
		WarehouseID: query.WarehouseID,
		LowStock:    query.LowStock,
		Expired:     query.Expired,
		IsActive:    query.IsActive,
		Search:      query.Search,
		Limit:       query.Limit,
		Offset:      query.Offset,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	}

	records, total, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("Failed to list inventory", "error", err)
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}

	return ToInventoryDTOs(records), total, nil
}

// Stats returns the dashboard aggregate, optionally scoped to a warehouse
func (s *InventoryQueryService) Stats(ctx context.Context, warehouseID *string) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx, warehouseID, domain.DefaultExpiryAlertDays*24*time.Hour)
	if err != nil {
		s.logger.Error("Failed to compute inventory stats", "error", err)
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return ToStatsDTO(stats), nil
}

// ReorderRecommendations returns the reorder report over active records
func (s *InventoryQueryService) ReorderRecommendations(ctx context.Context, warehouseID *string) ([]ReorderRecommendationDTO, error) {
	active := true
	opts := domain.ListOptions{
		WarehouseID: warehouseID,
		IsActive:    &active,
	}

	recommendations := make([]ReorderRecommendationDTO, 0)
	for {
		records, total, err := s.repo.List(ctx, opts)
		if err != nil {
			s.logger.Error("Failed to list inventory for reorder report", "error", err)
			return nil, fmt.Errorf("failed to list inventory: %w", err)
		}

		for _, record := range records {
			rec := s.policy.CalculateReorderRecommendation(record)
			if !rec.ShouldReorder {
				continue
			}
			recommendations = append(recommendations, ReorderRecommendationDTO{
				InventoryID:       record.ID.Hex(),
				ProductID:         record.ProductID,
				SKU:               record.SKU,
				WarehouseID:       record.WarehouseID,
				AvailableQuantity: record.AvailableQuantity,
				ReorderPoint:      record.ReorderPoint,
				Quantity:          rec.Quantity,
				Reason:            rec.Reason,
			})
		}

		opts.Offset += int64(len(records))
		if len(records) == 0 || opts.Offset >= total {
			break
		}
	}

	return recommendations, nil
}
