package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/pawmart/backend/internal/application/sales"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// SalesHandler handles point-of-sale endpoints
type SalesHandler struct {
	BaseHandler
	salesService *salesapp.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(salesService *salesapp.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// RegisterRoutes registers sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", middleware.RequirePermission("sales:create"), h.Checkout)
		sales.GET("", middleware.RequirePermission("sales:read"), h.List)
		sales.GET("/summary", middleware.RequirePermission("sales:read"), h.GetStoreSummary)
		sales.GET("/invoice/:invoiceNumber", middleware.RequirePermission("sales:read"), h.GetByInvoiceNumber)
		sales.GET("/:id", middleware.RequirePermission("sales:read"), h.GetByID)
		sales.POST("/:id/void", middleware.RequirePermission("sales:void"), h.Void)
		sales.GET("/:id/receipt", middleware.RequirePermission("sales:read"), h.GetReceipt)
		sales.GET("/:id/actions", middleware.RequirePermission("sales:read"), h.GetActions)
	}
}

// Checkout godoc
// @Summary      Record a sale, decrementing stock and assigning an invoice number
// @Tags         sales
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	cashierID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req salesapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	txn, err := h.salesService.Checkout(c.Request.Context(), cashierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, txn)
}

// List godoc
// @Summary      List sales transactions with filtering
// @Tags         sales
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter salesapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	txns, total, err := h.salesService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, txns, total, page, pageSize)
}

// GetByID returns a transaction with its line items
func (h *SalesHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	txn, err := h.salesService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txn)
}

// GetByInvoiceNumber looks a transaction up by its invoice number
func (h *SalesHandler) GetByInvoiceNumber(c *gin.Context) {
	invoiceNumber := c.Param("invoiceNumber")
	if invoiceNumber == "" {
		h.BadRequest(c, "Invoice number is required")
		return
	}

	txn, err := h.salesService.GetByInvoiceNumber(c.Request.Context(), invoiceNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txn)
}

// Void godoc
// @Summary      Void a completed sale, restoring stock and reversing loyalty points
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /sales/{id}/void [post]
func (h *SalesHandler) Void(c *gin.Context) {
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

	var req salesapp.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	txn, err := h.salesService.Void(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txn)
}

// GetReceipt renders the transaction as a printable plain-text receipt
func (h *SalesHandler) GetReceipt(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.salesService.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(receipt))
}

// GetStoreSummary aggregates completed sales for a store over a date range
func (h *SalesHandler) GetStoreSummary(c *gin.Context) {
	storeID, err := uuid.Parse(c.Query("store_id"))
	if err != nil {
		h.BadRequest(c, "Invalid store_id format")
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}

	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.salesService.GetStoreSummary(c.Request.Context(), storeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetActions returns the transaction's audit trail
func (h *SalesHandler) GetActions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	actions, err := h.salesService.GetActions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, actions)
}
