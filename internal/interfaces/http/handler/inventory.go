package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	inventoryapp "github.com/stockwatch/backend/internal/application/inventory"
	"github.com/stockwatch/backend/internal/infrastructure/logger"
	"github.com/stockwatch/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles stock alert and threshold API endpoints
type InventoryHandler struct {
	BaseHandler
	alerts     *inventoryapp.AlertService
	thresholds *inventoryapp.ThresholdService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(alerts *inventoryapp.AlertService, thresholds *inventoryapp.ThresholdService) *InventoryHandler {
	return &InventoryHandler{
		alerts:     alerts,
		thresholds: thresholds,
	}
}

// ListAlerts returns all products currently in a warning or critical state,
// critical entries first, with derived summary counts.
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	result, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		logger.GetGinLogger(c).Warn("alert listing failed", zap.Error(err))
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GetSummary returns only the alert counts
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	result, err := h.alerts.Summary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// SetThreshold updates the low-stock threshold of one product and
// returns the re-aggregated alert list.
func (h *InventoryHandler) SetThreshold(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req inventoryapp.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.thresholds.SetThreshold(c.Request.Context(), productID, *req.Threshold)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// thresholdChangesQuery is the query-string form of the audit listing filter
type thresholdChangesQuery struct {
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListThresholdChanges returns the audit trail of threshold edits
func (h *InventoryHandler) ListThresholdChanges(c *gin.Context) {
	var query thresholdChangesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := inventoryapp.ThresholdChangeListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.ProductID != "" {
		productID, err := uuid.Parse(query.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		filter.ProductID = &productID
	}

	changes, total, err := h.thresholds.ListChanges(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := query.Page, query.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, changes, total, page, pageSize)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/alerts", h.ListAlerts)
		inventory.GET("/alerts/summary", h.GetSummary)
		inventory.PUT("/products/:id/threshold", h.SetThreshold)
		inventory.GET("/thresholds/changes", h.ListThresholdChanges)
	}
}
