package handler

import (
	"github.com/gin-gonic/gin"
	storeapp "github.com/pawmart/backend/internal/application/store"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// RegionHandler handles region endpoints
type RegionHandler struct {
	BaseHandler
	regionService *storeapp.RegionService
	storeService  *storeapp.StoreService
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(regionService *storeapp.RegionService, storeService *storeapp.StoreService) *RegionHandler {
	return &RegionHandler{regionService: regionService, storeService: storeService}
}

// RegisterRoutes registers region routes
func (h *RegionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	regions := rg.Group("/regions")
	{
		regions.POST("", middleware.RequirePermission("regions:create"), h.Create)
		regions.GET("", middleware.RequirePermission("regions:read"), h.List)
		regions.GET("/:id", middleware.RequirePermission("regions:read"), h.GetByID)
		regions.GET("/:id/stores", middleware.RequirePermission("stores:read"), h.ListStores)
		regions.PUT("/:id", middleware.RequirePermission("regions:update"), h.Update)
		regions.DELETE("/:id", middleware.RequirePermission("regions:delete"), h.Delete)
	}
}

// Create registers a new region
func (h *RegionHandler) Create(c *gin.Context) {
	var req storeapp.CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	region, err := h.regionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, region)
}

// List returns regions with pagination
func (h *RegionHandler) List(c *gin.Context) {
	var filter storeapp.RegionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	regions, total, err := h.regionService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, regions, total, page, pageSize)
}

// GetByID returns a region by ID
func (h *RegionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	region, err := h.regionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, region)
}

// ListStores returns all stores assigned to the region
func (h *RegionHandler) ListStores(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	stores, err := h.storeService.ListByRegion(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stores)
}

// Update changes region details
func (h *RegionHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req storeapp.UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	region, err := h.regionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, region)
}

// Delete removes a region that has no stores
func (h *RegionHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.regionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
