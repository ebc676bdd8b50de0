package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles stock level and movement endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/stores/:id", middleware.RequirePermission("inventory:read"), h.ListByStore)
		inventory.GET("/products/:id", middleware.RequirePermission("inventory:read"), h.ListByProduct)
		inventory.GET("/stores/:id/products/:productId", middleware.RequirePermission("inventory:read"), h.GetStockLevel)
		inventory.POST("/adjust", middleware.RequirePermission("inventory:adjust"), h.Adjust)
		inventory.POST("/recount", middleware.RequirePermission("inventory:adjust"), h.Recount)
		inventory.GET("/movements", middleware.RequirePermission("inventory:read"), h.ListMovements)
	}
}

// ListByStore godoc
// @Summary      List stock levels for a store
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /inventory/stores/{id} [get]
func (h *InventoryHandler) ListByStore(c *gin.Context) {
	storeID, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	levels, total, err := h.inventoryService.ListByStore(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, levels, total, page, pageSize)
}

// ListByProduct returns stock positions for a product across all stores
func (h *InventoryHandler) ListByProduct(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	levels, err := h.inventoryService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// GetStockLevel returns a single store-product stock position
func (h *InventoryHandler) GetStockLevel(c *gin.Context) {
	storeID, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	level, err := h.inventoryService.GetStockLevel(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// Adjust godoc
// @Summary      Apply a manual stock adjustment with an audit reason
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	level, err := h.inventoryService.Adjust(c.Request.Context(), &actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// Recount records a physical count and books the difference as an adjustment
func (h *InventoryHandler) Recount(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.RecountStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	level, err := h.inventoryService.Recount(c.Request.Context(), &actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// ListMovements godoc
// @Summary      Query the stock movement ledger
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, movements, total, page, pageSize)
}
