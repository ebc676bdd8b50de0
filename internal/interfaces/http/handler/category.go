package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pawmart/backend/internal/application/catalog"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// CategoryHandler handles product category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.POST("", middleware.RequirePermission("categories:create"), h.Create)
		categories.GET("", middleware.RequirePermission("categories:read"), h.List)
		categories.GET("/:id", middleware.RequirePermission("categories:read"), h.GetByID)
		categories.GET("/:id/children", middleware.RequirePermission("categories:read"), h.ListChildren)
		categories.PUT("/:id", middleware.RequirePermission("categories:update"), h.Update)
		categories.DELETE("/:id", middleware.RequirePermission("categories:delete"), h.Delete)
		categories.POST("/:id/activate", middleware.RequirePermission("categories:update"), h.Activate)
		categories.POST("/:id/deactivate", middleware.RequirePermission("categories:update"), h.Deactivate)
	}
}

// Create adds a category, optionally under a parent
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// List returns categories with pagination
func (h *CategoryHandler) List(c *gin.Context) {
	var filter catalogapp.CategoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	categories, total, err := h.categoryService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, categories, total, page, pageSize)
}

// GetByID returns a category by ID
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// ListChildren returns the direct children of a category
func (h *CategoryHandler) ListChildren(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	children, err := h.categoryService.ListChildren(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, children)
}

// Update changes category details
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Activate re-enables a category
func (h *CategoryHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.categoryService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate hides a category from product assignment
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.categoryService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a category with no children or products
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
