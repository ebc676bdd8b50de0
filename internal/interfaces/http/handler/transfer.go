package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	transferapp "github.com/pawmart/backend/internal/application/transfer"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// TransferHandler handles inter-store transfer endpoints
type TransferHandler struct {
	BaseHandler
	transferService *transferapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *transferapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// RegisterRoutes registers transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfer-requests")
	{
		transfers.POST("", middleware.RequirePermission("transfers:create"), h.Create)
		transfers.GET("", middleware.RequirePermission("transfers:read"), h.List)
		transfers.GET("/number/:transferNumber", middleware.RequirePermission("transfers:read"), h.GetByTransferNumber)
		transfers.GET("/:id", middleware.RequirePermission("transfers:read"), h.GetByID)
		transfers.DELETE("/:id", middleware.RequirePermission("transfers:delete"), h.Delete)
		transfers.POST("/:id/items", middleware.RequirePermission("transfers:update"), h.AddItem)
		transfers.DELETE("/:id/items/:itemId", middleware.RequirePermission("transfers:update"), h.RemoveItem)
		transfers.POST("/:id/approve", middleware.RequirePermission("transfers:approve"), h.Approve)
		transfers.POST("/:id/reject", middleware.RequirePermission("transfers:reject"), h.Reject)
		transfers.POST("/:id/execute", middleware.RequirePermission("transfers:execute"), h.Execute)
		transfers.POST("/:id/cancel", middleware.RequirePermission("transfers:cancel"), h.Cancel)
		transfers.GET("/:id/actions", middleware.RequirePermission("transfers:read"), h.GetActions)
		transfers.GET("/:id/history", middleware.RequirePermission("transfers:read"), h.GetHistory)
	}
}

// Create godoc
// @Summary      Create a transfer request between stores
// @Tags         transfer-requests
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /transfer-requests [post]
func (h *TransferHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req transferapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// List godoc
// @Summary      List transfer requests with filtering
// @Tags         transfer-requests
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /transfer-requests [get]
func (h *TransferHandler) List(c *gin.Context) {
	var filter transferapp.TransferListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, transfers, total, page, pageSize)
}

// GetByID returns a transfer request with its lines
func (h *TransferHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// GetByTransferNumber returns a transfer by its human-readable number
func (h *TransferHandler) GetByTransferNumber(c *gin.Context) {
	transferNumber := c.Param("transferNumber")
	if transferNumber == "" {
		h.BadRequest(c, "Transfer number is required")
		return
	}

	transfer, err := h.transferService.GetByTransferNumber(c.Request.Context(), transferNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// AddItem appends a line while the request is pending
func (h *TransferHandler) AddItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req transferapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// RemoveItem deletes a line while the request is pending
func (h *TransferHandler) RemoveItem(c *gin.Context) {
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

	transfer, err := h.transferService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Approve godoc
// @Summary      Approve a pending transfer, reserving source stock
// @Tags         transfer-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer Request ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /transfer-requests/{id}/approve [post]
func (h *TransferHandler) Approve(c *gin.Context) {
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

	var req transferapp.ApproveTransferRequest
	// Approval body is optional: omitted quantities approve in full
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.Approve(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Reject declines a pending transfer with a reason
func (h *TransferHandler) Reject(c *gin.Context) {
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

	var req transferapp.RejectTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.Reject(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Execute godoc
// @Summary      Execute an approved transfer, moving stock between stores
// @Tags         transfer-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer Request ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /transfer-requests/{id}/execute [post]
func (h *TransferHandler) Execute(c *gin.Context) {
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

	var req transferapp.CompleteTransferRequest
	// Receipt body is optional: omitted lines count as received in full
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.Complete(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Cancel aborts a pending or approved transfer, releasing reservations
func (h *TransferHandler) Cancel(c *gin.Context) {
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

	var req transferapp.CancelTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transferService.Cancel(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Delete removes a rejected or cancelled transfer request
func (h *TransferHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.transferService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetActions returns the transfer's audit trail
func (h *TransferHandler) GetActions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actions, err := h.transferService.GetActions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, actions)
}

// GetHistory returns the transfer's status change history
func (h *TransferHandler) GetHistory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	history, err := h.transferService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}
