package handler

import (
	"github.com/gin-gonic/gin"
	storeapp "github.com/pawmart/backend/internal/application/store"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// StoreHandler handles store endpoints
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// RegisterRoutes registers store routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores")
	{
		stores.POST("", middleware.RequirePermission("stores:create"), h.Create)
		stores.GET("", middleware.RequirePermission("stores:read"), h.List)
		stores.GET("/:id", middleware.RequirePermission("stores:read"), h.GetByID)
		stores.PUT("/:id", middleware.RequirePermission("stores:update"), h.Update)
		stores.DELETE("/:id", middleware.RequirePermission("stores:delete"), h.Delete)
		stores.POST("/:id/activate", middleware.RequirePermission("stores:update"), h.Activate)
		stores.POST("/:id/deactivate", middleware.RequirePermission("stores:update"), h.Deactivate)
	}
}

// Create godoc
// @Summary      Create a new store or warehouse
// @Tags         stores
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var req storeapp.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, store)
}

// List godoc
// @Summary      List stores
// @Tags         stores
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	var filter storeapp.StoreListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	stores, total, err := h.storeService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, stores, total, page, pageSize)
}

// GetByID returns a store by ID
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	store, err := h.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Update changes store details
func (h *StoreHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req storeapp.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Activate reopens a store
func (h *StoreHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.storeService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate closes a store for new activity
func (h *StoreHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.storeService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a store with no recorded activity
func (h *StoreHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.storeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
