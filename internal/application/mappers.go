package application

import (
	"github.com/ecom-platform/inventory-service/internal/domain"
)

// ToInventoryDTO converts a domain InventoryRecord to InventoryDTO
func ToInventoryDTO(record *domain.InventoryRecord) *InventoryDTO {
	if record == nil {
		return nil
	}

	return &InventoryDTO{
		ID:          record.ID.Hex(),
		ProductID:   record.ProductID,
		SKU:         record.SKU,
		WarehouseID: record.WarehouseID,

		TotalQuantity:     record.TotalQuantity,
		AvailableQuantity: record.AvailableQuantity,
		ReservedQuantity:  record.ReservedQuantity,

		UnitCost:    record.UnitCost,
		AverageCost: record.AverageCost,
		StockValue:  record.StockValue(),

		LowStockThreshold: record.LowStockThreshold,
		AllowBackorder:    record.AllowBackorder,
		BackorderLimit:    record.BackorderLimit,
		ReorderPoint:      record.ReorderPoint,
		ReorderQuantity:   record.ReorderQuantity,

		Location:       record.Location,
		Batch:          record.Batch,
		ExpiryDate:     record.ExpiryDate,
		IsActive:       record.IsActive,
		IsLowStock:     record.AvailableQuantity <= record.LowStockThreshold,
		IsOutOfStock:   record.IsOutOfStock(),
		LastStockCheck: record.LastStockCheck,
		Notes:          record.Notes,

		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// ToInventoryDTOs converts a slice of domain records
func ToInventoryDTOs(records []*domain.InventoryRecord) []InventoryDTO {
	dtos := make([]InventoryDTO, 0, len(records))
	for _, record := range records {
		if dto := ToInventoryDTO(record); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToMovementDTO converts a domain MovementEntry to MovementDTO
func ToMovementDTO(entry *domain.MovementEntry) *MovementDTO {
	if entry == nil {
		return nil
	}

	return &MovementDTO{
		ID:            entry.ID.Hex(),
		InventoryID:   entry.InventoryID.Hex(),
		Type:          string(entry.Type),
		Quantity:      entry.Quantity,
		ReferenceID:   entry.ReferenceID,
		ReferenceType: entry.ReferenceType,
		Reason:        entry.Reason,
		UnitCost:      entry.UnitCost,
		TotalCost:     entry.TotalCost,
		UserID:        entry.UserID,
		CreatedAt:     entry.CreatedAt,
	}
}

// ToMovementDTOs converts a slice of ledger entries
func ToMovementDTOs(entries []*domain.MovementEntry) []MovementDTO {
	dtos := make([]MovementDTO, 0, len(entries))
	for _, entry := range entries {
		if dto := ToMovementDTO(entry); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToAlertDTO converts a domain InventoryAlert to AlertDTO
func ToAlertDTO(alert *domain.InventoryAlert) *AlertDTO {
	if alert == nil {
		return nil
	}

	return &AlertDTO{
		ID:          alert.ID.Hex(),
		InventoryID: alert.InventoryID.Hex(),
		Type:        string(alert.Type),
		Message:     alert.Message,
		IsResolved:  alert.IsResolved,
		ResolvedAt:  alert.ResolvedAt,
		CreatedAt:   alert.CreatedAt,
	}
}

// ToAlertDTOs converts a slice of alerts
func ToAlertDTOs(alerts []*domain.InventoryAlert) []AlertDTO {
	dtos := make([]AlertDTO, 0, len(alerts))
	for _, alert := range alerts {
		if dto := ToAlertDTO(alert); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToMovementSummaryDTO converts a domain MovementSummary
func ToMovementSummaryDTO(summary *domain.MovementSummary) *MovementSummaryDTO {
	if summary == nil {
		return nil
	}

	return &MovementSummaryDTO{
		TotalIn:          summary.TotalIn,
		TotalOut:         summary.TotalOut,
		TotalAdjustments: summary.TotalAdjustments,
		TotalValue:       summary.TotalValue,
		MovementCount:    summary.MovementCount,
	}
}

// ToStatsDTO converts domain InventoryStats
func ToStatsDTO(stats *domain.InventoryStats) *StatsDTO {
	if stats == nil {
		return nil
	}

	return &StatsDTO{
		TotalItems:      stats.TotalItems,
		TotalValue:      stats.TotalValue,
		LowStockItems:   stats.LowStockItems,
		OutOfStockItems: stats.OutOfStockItems,
		ExpiredItems:    stats.ExpiredItems,
		ExpiringItems:   stats.ExpiringItems,
	}
}
