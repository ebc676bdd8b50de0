package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/pawmart/backend/internal/application/identity"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.POST("/change-password", h.ChangePassword)
	}
}

// Login godoc
// @Summary      Log in with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.IP = c.ClientIP()

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Logout godoc
// @Summary      Revoke the current session's tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      204
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req identityapp.LogoutRequest
	// Body is optional: the access token alone is enough to log out
	_ = c.ShouldBindJSON(&req)

	authHeader := c.GetHeader(middleware.AuthHeaderKey)
	req.AccessToken = strings.TrimPrefix(authHeader, middleware.BearerPrefix)

	if err := h.authService.Logout(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me godoc
// @Summary      Get the authenticated user's profile and permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.authService.GetCurrentUser(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangePassword godoc
// @Summary      Change the authenticated user's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      204
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), actorID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
