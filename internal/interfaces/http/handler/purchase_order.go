package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	purchasingapp "github.com/pawmart/backend/internal/application/purchasing"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchasingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", middleware.RequirePermission("purchase_orders:create"), h.Create)
		orders.GET("", middleware.RequirePermission("purchase_orders:read"), h.List)
		orders.GET("/number/:orderNumber", middleware.RequirePermission("purchase_orders:read"), h.GetByOrderNumber)
		orders.GET("/:id", middleware.RequirePermission("purchase_orders:read"), h.GetByID)
		orders.PUT("/:id", middleware.RequirePermission("purchase_orders:update"), h.Update)
		orders.DELETE("/:id", middleware.RequirePermission("purchase_orders:delete"), h.Delete)
		orders.POST("/:id/items", middleware.RequirePermission("purchase_orders:update"), h.AddItem)
		orders.PUT("/:id/items/:itemId", middleware.RequirePermission("purchase_orders:update"), h.UpdateItem)
		orders.DELETE("/:id/items/:itemId", middleware.RequirePermission("purchase_orders:update"), h.RemoveItem)
		orders.POST("/:id/confirm", middleware.RequirePermission("purchase_orders:confirm"), h.Confirm)
		orders.POST("/:id/receive", middleware.RequirePermission("purchase_orders:receive"), h.Receive)
		orders.POST("/:id/cancel", middleware.RequirePermission("purchase_orders:cancel"), h.Cancel)
		orders.GET("/:id/actions", middleware.RequirePermission("purchase_orders:read"), h.GetActions)
	}
}

// Create godoc
// @Summary      Create a draft purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req purchasingapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List godoc
// @Summary      List purchase orders with filtering
// @Tags         purchase-orders
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter purchasingapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID returns a purchase order with its lines
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNumber returns a purchase order by its human-readable number
func (h *PurchaseOrderHandler) GetByOrderNumber(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Update changes header fields while the order is still a draft
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req purchasingapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// AddItem appends a line to a draft order
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req purchasingapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem changes quantity or cost on a draft line
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req purchasingapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem deletes a line from a draft order
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Confirm godoc
// @Summary      Confirm a draft purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase Order ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive godoc
// @Summary      Receive goods against a confirmed purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase Order ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req purchasingapp.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.Receive(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel aborts an order that has not received any goods
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req purchasingapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes a draft or cancelled order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetActions returns the order's audit trail
func (h *PurchaseOrderHandler) GetActions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actions, err := h.orderService.GetActions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, actions)
}
