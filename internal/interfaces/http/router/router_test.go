package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRegistrar struct {
	prefix string
}

func (p pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(p.prefix+"/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterRegister(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(pingRegistrar{prefix: "/stores"}, pingRegistrar{prefix: "/products"})

	assert.Len(t, r.registrars, 2)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	r.Register(pingRegistrar{prefix: "/stores"})
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/stores/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterGroupMiddleware(t *testing.T) {
	engine := gin.New()

	var sawRequest bool
	r := NewRouter(engine, WithGroupMiddleware(func(c *gin.Context) {
		sawRequest = true
		c.Next()
	}))

	r.Register(pingRegistrar{prefix: "/sales"})
	r.Setup()

	// Unversioned routes stay outside the group middleware.
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sawRequest)

	req = httptest.NewRequest("GET", "/api/v1/sales/ping", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sawRequest)
}
