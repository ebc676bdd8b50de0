package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/pawmart/backend/internal/application/partner"
	salesapp "github.com/pawmart/backend/internal/application/sales"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer and loyalty endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	salesService    *salesapp.SalesService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService, salesService *salesapp.SalesService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, salesService: salesService}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", middleware.RequirePermission("customers:create"), h.Create)
		customers.GET("", middleware.RequirePermission("customers:read"), h.List)
		customers.GET("/:id", middleware.RequirePermission("customers:read"), h.GetByID)
		customers.GET("/:id/sales", middleware.RequirePermission("sales:read"), h.ListSales)
		customers.PUT("/:id", middleware.RequirePermission("customers:update"), h.Update)
		customers.DELETE("/:id", middleware.RequirePermission("customers:delete"), h.Delete)
		customers.POST("/:id/points", middleware.RequirePermission("customers:update"), h.AdjustPoints)
		customers.POST("/:id/activate", middleware.RequirePermission("customers:update"), h.Activate)
		customers.POST("/:id/deactivate", middleware.RequirePermission("customers:update"), h.Deactivate)
	}
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// List returns customers with pagination
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, customers, total, page, pageSize)
}

// GetByID returns a customer by ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// ListSales returns the customer's purchase history
func (h *CustomerHandler) ListSales(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var filter salesapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	transactions, total, err := h.salesService.ListByCustomer(c.Request.Context(), id, filter)
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
	h.SuccessWithMeta(c, transactions, total, page, pageSize)
}

// Update changes customer details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// AdjustPoints applies a manual loyalty point correction
func (h *CustomerHandler) AdjustPoints(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req partnerapp.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.AdjustPoints(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Activate re-enables a customer account
func (h *CustomerHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.customerService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate disables a customer account
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.customerService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a customer with no recorded sales
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
