package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pawmart/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
)

func setClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(JWTClaimsKey, claims)
		c.Next()
	}
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestRequirePermission_Granted(t *testing.T) {
	claims := &auth.Claims{
		UserID:      "user-1",
		Permissions: []string{"products:create", "products:read"},
	}

	router := gin.New()
	router.Use(setClaims(claims))
	router.POST("/products", RequirePermission("products:create"), okHandler)

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_Denied(t *testing.T) {
	claims := &auth.Claims{
		UserID:      "user-1",
		Permissions: []string{"products:read"},
	}

	router := gin.New()
	router.Use(setClaims(claims))
	router.POST("/products", RequirePermission("products:create"), okHandler)

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
}

func TestRequirePermission_NoClaims(t *testing.T) {
	router := gin.New()
	router.POST("/products", RequirePermission("products:create"), okHandler)

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	claims := &auth.Claims{
		UserID:      "user-1",
		Permissions: []string{"reports:read"},
	}

	router := gin.New()
	router.Use(setClaims(claims))
	router.GET("/reports", RequireAnyPermission("reports:read", "reports:export"), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	claims := &auth.Claims{
		UserID:    "user-1",
		RoleCodes: []string{"STORE_MANAGER"},
	}

	router := gin.New()
	router.Use(setClaims(claims))
	router.GET("/admin", RequireRole("ADMIN"), okHandler)
	router.GET("/store", RequireRole("STORE_MANAGER"), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/store", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
