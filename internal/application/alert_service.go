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

// AlertService derives and manages inventory alerts. Alerts are signals, not
// sources of truth: the scan creates at most one unresolved alert per type per
// record, and resolution is an operator action only.
type AlertService struct {
	inventory domain.InventoryRepository
	alerts    domain.AlertRepository
	policy    *domain.InventoryService
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(
	inventory domain.InventoryRepository,
	alerts domain.AlertRepository,
	policy *domain.InventoryService,
	m *metrics.Metrics,
	logger *logging.Logger,
) *AlertService {
	return &AlertService{
		inventory: inventory,
		alerts:    alerts,
		policy:    policy,
		metrics:   m,
		logger:    logger,
	}
}

// scanPageSize bounds one repository page during a full scan
const scanPageSize = 500

// Scan walks all active records and derives LOW_STOCK, OUT_OF_STOCK, EXPIRED
// and NEAR_EXPIRY alerts. Returns the number of alerts created.
func (s *AlertService) Scan(ctx context.Context) (int, error) {
	active := true
	opts := domain.ListOptions{IsActive: &active, Limit: scanPageSize}

	created := 0
	for {
		records, total, err := s.inventory.List(ctx, opts)
		if err != nil {
			s.logger.Error("Alert scan failed to list inventory", "error", err)
			return created, fmt.Errorf("failed to list inventory: %w", err)
		}

		for _, record := range records {
			created += s.scanRecord(ctx, record)
		}

		opts.Offset += int64(len(records))
		if len(records) == 0 || opts.Offset >= total {
			break
		}
	}

	s.logger.Info("Alert scan complete", "alertsCreated", created)
	return created, nil
}

func (s *AlertService) scanRecord(ctx context.Context, record *domain.InventoryRecord) int {
	created := 0

	if record.IsOutOfStock() {
		if s.create(ctx, record, domain.AlertOutOfStock,
			fmt.Sprintf("Product %s is out of stock", record.SKU)) {
			created++
		}
	} else if s.policy.ShouldCreateLowStockAlert(record) {
		if s.create(ctx, record, domain.AlertLowStock,
			fmt.Sprintf("Product %s is low on stock (%d available, threshold %d)",
				record.SKU, record.AvailableQuantity, record.LowStockThreshold)) {
			created++
		}
	}

	// Expired and near-expiry co-trigger once the date passes
	if s.policy.IsExpired(record) {
		if s.create(ctx, record, domain.AlertExpired,
			fmt.Sprintf("Product %s has expired", record.SKU)) {
			created++
		}
	}
	if s.policy.ShouldCreateExpiryAlert(record, domain.DefaultExpiryAlertDays) {
		if s.create(ctx, record, domain.AlertNearExpiry,
			fmt.Sprintf("Product %s expires within %d days", record.SKU, domain.DefaultExpiryAlertDays)) {
			created++
		}
	}

	return created
}

func (s *AlertService) create(ctx context.Context, record *domain.InventoryRecord, alertType domain.AlertType, message string) bool {
	exists, err := s.alerts.HasUnresolved(ctx, record.ID, alertType)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to check unresolved alerts", "inventoryId", record.ID.Hex())
		return false
	}
	if exists {
		return false
	}

	alert := domain.NewInventoryAlert(record.ID, alertType, message)
	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.WithError(err).Warn("Failed to create alert", "inventoryId", record.ID.Hex(), "type", alertType)
		return false
	}

	if s.metrics != nil {
		s.metrics.AlertsCreated.WithLabelValues(s.metrics.ServiceName(), string(alertType)).Inc()
	}
	return true
}

// List returns alerts matching the filters
func (s *AlertService) List(ctx context.Context, query AlertQuery) ([]AlertDTO, int64, error) {
	filter := domain.AlertFilter{
		IsResolved: query.IsResolved,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if query.InventoryID != nil {
		inventoryID, err := primitive.ObjectIDFromHex(*query.InventoryID)
		if err != nil {
			return nil, 0, errors.ErrBadRequest("Invalid inventory id")
		}
		filter.InventoryID = &inventoryID
	}
	if query.Type != nil {
		alertType := domain.AlertType(*query.Type)
		filter.Type = &alertType
	}

	alerts, total, err := s.alerts.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list alerts", "error", err)
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	return ToAlertDTOs(alerts), total, nil
}

// Resolve marks an alert resolved
func (s *AlertService) Resolve(ctx context.Context, id string) (*AlertDTO, error) {
	alertID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.ErrBadRequest("Invalid alert id")
	}

	alert, err := s.alerts.FindByID(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	if alert == nil {
		return nil, errors.ErrNotFoundWithID("alert", id)
	}

	if err := alert.Resolve(time.Now().UTC()); err != nil {
		return nil, errors.ErrConflict("Alert is already resolved")
	}

	if err := s.alerts.Update(ctx, alert); err != nil {
		s.logger.Error("Failed to resolve alert", "id", id, "error", err)
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}

	s.logger.Info("Resolved alert", "id", id, "type", alert.Type)
	return ToAlertDTO(alert), nil
}
