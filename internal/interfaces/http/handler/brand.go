package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pawmart/backend/internal/application/catalog"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// BrandHandler handles brand endpoints
type BrandHandler struct {
	BaseHandler
	brandService *catalogapp.BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService *catalogapp.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// RegisterRoutes registers brand routes
func (h *BrandHandler) RegisterRoutes(rg *gin.RouterGroup) {
	brands := rg.Group("/brands")
	{
		brands.POST("", middleware.RequirePermission("brands:create"), h.Create)
		brands.GET("", middleware.RequirePermission("brands:read"), h.List)
		brands.GET("/:id", middleware.RequirePermission("brands:read"), h.GetByID)
		brands.PUT("/:id", middleware.RequirePermission("brands:update"), h.Update)
		brands.DELETE("/:id", middleware.RequirePermission("brands:delete"), h.Delete)
	}
}

// Create registers a new brand
func (h *BrandHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, brand)
}

// List returns brands with pagination
func (h *BrandHandler) List(c *gin.Context) {
	var filter catalogapp.BrandListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	brands, total, err := h.brandService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, brands, total, page, pageSize)
}

// GetByID returns a brand by ID
func (h *BrandHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, brand)
}

// Update changes brand details
func (h *BrandHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, brand)
}

// Delete removes a brand not referenced by any product
func (h *BrandHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
