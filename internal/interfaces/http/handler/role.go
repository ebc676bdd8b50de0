package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/pawmart/backend/internal/application/identity"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// RoleHandler handles role and permission endpoints
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RegisterRoutes registers role routes
func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")
	{
		roles.POST("", middleware.RequirePermission("roles:create"), h.Create)
		roles.GET("", middleware.RequirePermission("roles:read"), h.List)
		roles.GET("/permission-matrix", middleware.RequirePermission("roles:read"), h.PermissionMatrix)
		roles.GET("/:id", middleware.RequirePermission("roles:read"), h.GetByID)
		roles.PUT("/:id", middleware.RequirePermission("roles:update"), h.Update)
		roles.DELETE("/:id", middleware.RequirePermission("roles:delete"), h.Delete)
		roles.PUT("/:id/permissions", middleware.RequirePermission("roles:update"), h.SetPermissions)
		roles.POST("/:id/enable", middleware.RequirePermission("roles:update"), h.Enable)
		roles.POST("/:id/disable", middleware.RequirePermission("roles:update"), h.Disable)
	}
}

// Create godoc
// @Summary      Create a new role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req identityapp.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// List godoc
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	var filter identityapp.RoleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	roles, total, err := h.roleService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, roles, total, page, pageSize)
}

// PermissionMatrix godoc
// @Summary      Get known modules and actions for permission assignment
// @Tags         roles
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /roles/permission-matrix [get]
func (h *RoleHandler) PermissionMatrix(c *gin.Context) {
	h.Success(c, h.roleService.GetPermissionMatrix(c.Request.Context()))
}

// GetByID returns a role with its permissions
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Update changes a role's name, description, or sort order
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req identityapp.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// SetPermissions replaces the role's permission set
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req identityapp.SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roleService.SetPermissions(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Enable re-enables a disabled role
func (h *RoleHandler) Enable(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.roleService.Enable(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Disable suspends a role; its grants stop applying at next login
func (h *RoleHandler) Disable(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.roleService.Disable(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a custom role that is not assigned to any user
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
