package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecom-platform/inventory-service/internal/application"
	"github.com/ecom-platform/inventory-service/pkg/api"
	"github.com/ecom-platform/inventory-service/pkg/errors"
	"github.com/ecom-platform/inventory-service/pkg/logging"
	"github.com/ecom-platform/inventory-service/pkg/middleware"
)

func respondServiceError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}

func createInventoryHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			ProductID         string     `json:"productId" binding:"required"`
			SKU               string     `json:"sku" binding:"required,sku"`
			WarehouseID       string     `json:"warehouseId" binding:"omitempty,warehouse_id"`
			TotalQuantity     int        `json:"totalQuantity" binding:"min=0"`
			UnitCost          float64    `json:"unitCost" binding:"min=0"`
			LowStockThreshold int        `json:"lowStockThreshold" binding:"min=0"`
			AllowBackorder    bool       `json:"allowBackorder"`
			BackorderLimit    *int       `json:"backorderLimit" binding:"omitempty,min=0"`
			ReorderPoint      int        `json:"reorderPoint" binding:"min=0"`
			ReorderQuantity   int        `json:"reorderQuantity" binding:"required,min=1"`
			Location          string     `json:"location"`
			Batch             string     `json:"batch" binding:"omitempty,batch_number"`
			ExpiryDate        *time.Time `json:"expiryDate"`
			Notes             string     `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		cmd := application.CreateInventoryCommand{
			ProductID:         req.ProductID,
			SKU:               req.SKU,
			WarehouseID:       req.WarehouseID,
			TotalQuantity:     req.TotalQuantity,
			UnitCost:          req.UnitCost,
			LowStockThreshold: req.LowStockThreshold,
			AllowBackorder:    req.AllowBackorder,
			BackorderLimit:    req.BackorderLimit,
			ReorderPoint:      req.ReorderPoint,
			ReorderQuantity:   req.ReorderQuantity,
			Location:          req.Location,
			Batch:             req.Batch,
			ExpiryDate:        req.ExpiryDate,
			Notes:             req.Notes,
		}

		record, err := service.Create(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, record)
	}
}

func listInventoryHandler(service *application.InventoryQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)
		sort := api.ParseSort(c, "createdAt")

		query := application.ListInventoryQuery{
			Search:    c.Query("search"),
			Limit:     page.GetLimit(),
			Offset:    page.GetOffset(),
			SortBy:    sort.Field,
			SortOrder: string(sort.Order),
		}
		if warehouseID := c.Query("warehouseId"); warehouseID != "" {
			query.WarehouseID = &warehouseID
		}
		query.LowStock = parseBoolQuery(c, "lowStock")
		query.Expired = parseBoolQuery(c, "expired")
		query.IsActive = parseBoolQuery(c, "isActive")

		records, total, err := service.List(c.Request.Context(), query)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(records, page.Page, page.PageSize, total))
	}
}

func getInventoryHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		record, err := service.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func getByProductHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		record, err := service.GetByProduct(c.Request.Context(), c.Param("productId"), c.Query("warehouseId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func getBySKUHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		record, err := service.GetBySKU(c.Request.Context(), c.Param("sku"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func updateInventoryHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			TotalQuantity     *int       `json:"totalQuantity" binding:"omitempty,min=0"`
			UnitCost          *float64   `json:"unitCost" binding:"omitempty,min=0"`
			LowStockThreshold *int       `json:"lowStockThreshold" binding:"omitempty,min=0"`
			AllowBackorder    *bool      `json:"allowBackorder"`
			BackorderLimit    *int       `json:"backorderLimit" binding:"omitempty,min=0"`
			ReorderPoint      *int       `json:"reorderPoint" binding:"omitempty,min=0"`
			ReorderQuantity   *int       `json:"reorderQuantity" binding:"omitempty,min=1"`
			Location          *string    `json:"location"`
			Batch             *string    `json:"batch" binding:"omitempty,batch_number"`
			ExpiryDate        *time.Time `json:"expiryDate"`
			Notes             *string    `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		cmd := application.UpdateInventoryCommand{
			TotalQuantity:     req.TotalQuantity,
			UnitCost:          req.UnitCost,
			LowStockThreshold: req.LowStockThreshold,
			AllowBackorder:    req.AllowBackorder,
			BackorderLimit:    req.BackorderLimit,
			ReorderPoint:      req.ReorderPoint,
			ReorderQuantity:   req.ReorderQuantity,
			Location:          req.Location,
			Batch:             req.Batch,
			ExpiryDate:        req.ExpiryDate,
			Notes:             req.Notes,
		}

		record, err := service.Update(c.Request.Context(), c.Param("id"), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func deleteInventoryHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondServiceError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func checkAvailabilityHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		productID := c.Query("productId")
		if productID == "" {
			responder.RespondBadRequest("productId is required")
			return
		}
		quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
		if err != nil || quantity <= 0 {
			responder.RespondBadRequest("quantity must be a positive integer")
			return
		}

		availability, err := service.CheckAvailability(c.Request.Context(), productID, c.Query("warehouseId"), quantity)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, availability)
	}
}

func reserveStockHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			ProductID     string `json:"productId" binding:"required"`
			WarehouseID   string `json:"warehouseId" binding:"omitempty,warehouse_id"`
			Quantity      int    `json:"quantity" binding:"required,min=1"`
			ReferenceID   string `json:"referenceId"`
			ReferenceType string `json:"referenceType"`
			UserID        string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		result, err := service.Reserve(c.Request.Context(), application.ReserveStockCommand{
			ProductID:     req.ProductID,
			WarehouseID:   req.WarehouseID,
			Quantity:      req.Quantity,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			UserID:        req.UserID,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		// Policy and concurrency rejections are expected outcomes
		if !result.Success {
			c.JSON(http.StatusConflict, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func releaseStockHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			ProductID     string `json:"productId" binding:"required"`
			WarehouseID   string `json:"warehouseId" binding:"omitempty,warehouse_id"`
			Quantity      int    `json:"quantity" binding:"required,min=1"`
			ReferenceID   string `json:"referenceId"`
			ReferenceType string `json:"referenceType"`
			UserID        string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		result, err := service.Release(c.Request.Context(), application.ReleaseStockCommand{
			ProductID:     req.ProductID,
			WarehouseID:   req.WarehouseID,
			Quantity:      req.Quantity,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			UserID:        req.UserID,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		if !result.Success {
			c.JSON(http.StatusConflict, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func stockInHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Quantity      int      `json:"quantity" binding:"required,min=1"`
			UnitCost      *float64 `json:"unitCost" binding:"omitempty,min=0"`
			Returned      bool     `json:"returned"`
			ReferenceID   string   `json:"referenceId"`
			ReferenceType string   `json:"referenceType"`
			Reason        string   `json:"reason"`
			UserID        string   `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		record, err := service.StockIn(c.Request.Context(), application.StockInCommand{
			InventoryID:   c.Param("id"),
			Quantity:      req.Quantity,
			UnitCost:      req.UnitCost,
			Returned:      req.Returned,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			Reason:        req.Reason,
			UserID:        req.UserID,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func stockOutHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Quantity      int    `json:"quantity" binding:"required,min=1"`
			Damaged       bool   `json:"damaged"`
			ReferenceID   string `json:"referenceId"`
			ReferenceType string `json:"referenceType"`
			Reason        string `json:"reason"`
			UserID        string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		result, err := service.StockOut(c.Request.Context(), application.StockOutCommand{
			InventoryID:   c.Param("id"),
			Quantity:      req.Quantity,
			Damaged:       req.Damaged,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			Reason:        req.Reason,
			UserID:        req.UserID,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		if !result.Success {
			c.JSON(http.StatusConflict, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func adjustStockHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			NewTotal int    `json:"newTotal" binding:"min=0"`
			Reason   string `json:"reason" binding:"required"`
			UserID   string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		record, err := service.Adjust(c.Request.Context(), application.AdjustStockCommand{
			InventoryID: c.Param("id"),
			NewTotal:    req.NewTotal,
			Reason:      req.Reason,
			UserID:      req.UserID,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func transferStockHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			FromInventoryID string `json:"fromInventoryId" binding:"required"`
			ToInventoryID   string `json:"toInventoryId" binding:"required"`
			Quantity        int    `json:"quantity" binding:"required,min=1"`
			Reason          string `json:"reason"`
			UserID          string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		result, err := service.Transfer(c.Request.Context(), application.TransferStockCommand{
			FromInventoryID: req.FromInventoryID,
			ToInventoryID:   req.ToInventoryID,
			Quantity:        req.Quantity,
			Reason:          req.Reason,
			UserID:          req.UserID,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		if !result.Success {
			c.JSON(http.StatusConflict, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func activateHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		record, err := service.Activate(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func deactivateHandler(service *application.InventoryCommandService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		record, err := service.Deactivate(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func listMovementsHandler(service *application.MovementService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)

		query := application.MovementQuery{
			InventoryID: c.Param("id"),
			Limit:       page.GetLimit(),
			Offset:      page.GetOffset(),
		}
		if movementType := c.Query("type"); movementType != "" {
			query.Type = &movementType
		}
		if referenceID := c.Query("referenceId"); referenceID != "" {
			query.ReferenceID = &referenceID
		}
		query.From = parseTimeQuery(c, "from")
		query.To = parseTimeQuery(c, "to")

		movements, total, err := service.List(c.Request.Context(), query)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(movements, page.Page, page.PageSize, total))
	}
}

func movementSummaryHandler(service *application.MovementService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.SummaryQuery{
			From: parseTimeQuery(c, "from"),
			To:   parseTimeQuery(c, "to"),
		}
		if inventoryID := c.Query("inventoryId"); inventoryID != "" {
			query.InventoryID = &inventoryID
		}
		if warehouseID := c.Query("warehouseId"); warehouseID != "" {
			query.WarehouseID = &warehouseID
		}

		summary, err := service.Summary(c.Request.Context(), query)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

func cleanupMovementsHandler(service *application.MovementService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			RetentionDays int `json:"retentionDays" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondValidationError("Invalid request body", middleware.ValidationErrorFormatter(err))
			return
		}

		result, err := service.CleanupRetention(c.Request.Context(), time.Duration(req.RetentionDays)*24*time.Hour)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listAlertsHandler(service *application.AlertService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)

		query := application.AlertQuery{
			Limit:  page.GetLimit(),
			Offset: page.GetOffset(),
		}
		if inventoryID := c.Query("inventoryId"); inventoryID != "" {
			query.InventoryID = &inventoryID
		}
		if alertType := c.Query("type"); alertType != "" {
			query.Type = &alertType
		}
		query.IsResolved = parseBoolQuery(c, "isResolved")

		alerts, total, err := service.List(c.Request.Context(), query)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(alerts, page.Page, page.PageSize, total))
	}
}

func scanAlertsHandler(service *application.AlertService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		created, err := service.Scan(c.Request.Context())
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"alertsCreated": created})
	}
}

func resolveAlertHandler(service *application.AlertService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		alert, err := service.Resolve(c.Request.Context(), c.Param("alertId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, alert)
	}
}

func statsHandler(service *application.InventoryQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var warehouseID *string
		if v := c.Query("warehouseId"); v != "" {
			warehouseID = &v
		}

		stats, err := service.Stats(c.Request.Context(), warehouseID)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func reorderRecommendationsHandler(service *application.InventoryQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var warehouseID *string
		if v := c.Query("warehouseId"); v != "" {
			warehouseID = &v
		}

		recommendations, err := service.ReorderRecommendations(c.Request.Context(), warehouseID)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"recommendations": recommendations,
			"count":           len(recommendations),
		})
	}
}

func parseBoolQuery(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseTimeQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &value
}
