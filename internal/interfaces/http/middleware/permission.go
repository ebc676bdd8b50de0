package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawmart/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when permission is denied (optional)
	OnDenied func(c *gin.Context, requiredPerms []string)
}

// RequirePermission creates middleware that requires a single module:action permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that passes when the user holds at
// least one of the listed permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig creates middleware that requires any of the
// specified permissions with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, cfg, permissions, "No authentication claims found")
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			denyPermission(c, cfg, permissions, "User lacks required permission")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Permission check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", permissions),
			)
		}

		c.Next()
	}
}

// RequireRole creates middleware that requires a specific role code
func RequireRole(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasRole(code) {
			denyPermission(c, PermissionConfig{}, []string{code}, "User lacks required role")
			return
		}
		c.Next()
	}
}

func denyPermission(c *gin.Context, cfg PermissionConfig, required []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("path", c.Request.URL.Path),
			zap.Strings("required", required),
			zap.String("reason", reason),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
		dto.ErrCodeForbidden,
		"You do not have permission to perform this action",
	))
}
