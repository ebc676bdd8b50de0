package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/pawmart/backend/internal/application/identity"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", middleware.RequirePermission("users:create"), h.Create)
		users.GET("", middleware.RequirePermission("users:read"), h.List)
		users.GET("/:id", middleware.RequirePermission("users:read"), h.GetByID)
		users.PUT("/:id", middleware.RequirePermission("users:update"), h.Update)
		users.DELETE("/:id", middleware.RequirePermission("users:delete"), h.Delete)
		users.POST("/:id/activate", middleware.RequirePermission("users:update"), h.Activate)
		users.POST("/:id/deactivate", middleware.RequirePermission("users:update"), h.Deactivate)
		users.POST("/:id/unlock", middleware.RequirePermission("users:update"), h.Unlock)
		users.POST("/:id/reset-password", middleware.RequirePermission("users:update"), h.ResetPassword)
		users.PUT("/:id/roles", middleware.RequirePermission("users:update"), h.AssignRoles)
	}
}

// Create godoc
// @Summary      Create a new user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, users, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Update godoc
// @Summary      Update a user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete godoc
// @Summary      Delete a user
// @Tags         users
// @Param        id path string true "User ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
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

	if err := h.userService.Delete(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate enables a pending or deactivated account
func (h *UserHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.userService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate disables an account; self-deactivation is rejected
func (h *UserHandler) Deactivate(c *gin.Context) {
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

	if err := h.userService.Deactivate(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Unlock clears a login lockout before it expires
func (h *UserHandler) Unlock(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.userService.Unlock(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ResetPassword sets a temporary password and forces a change on next login
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignRoles replaces the user's role set
func (h *UserHandler) AssignRoles(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req identityapp.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.AssignRoles(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
