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

func ok(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("partner", "/partner")
	group.GET("/vendors", ok)
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/partner/vendors", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("system", "/system")
	group.GET("/ping", ok)
	r.Register(group)
	r.Setup()

	t.Run("serves under configured version", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v2/system/ping", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("default version path is not registered", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/system/ping", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("admin", "/admin")
	group.GET("/datasource", ok)
	group.PUT("/datasource", ok)
	group.POST("/datasource/test", ok)
	group.DELETE("/datasource", ok)
	r.Register(group)
	r.Setup()

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/v1/admin/datasource", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/admin/datasource/test", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	group := NewDomainGroup("trade", "/trade")
	group.Use(func(c *gin.Context) {
		order = append(order, "middleware")
		c.Next()
	})
	group.GET("/purchase-orders", func(c *gin.Context) {
		order = append(order, "handler")
		c.String(http.StatusOK, "ok")
	})
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/trade/purchase-orders", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"middleware", "handler"}, order)
}

func TestDomainGroupAccessors(t *testing.T) {
	group := NewDomainGroup("catalog", "/catalog")
	assert.Equal(t, "catalog", group.Name())
	assert.Equal(t, "/catalog", group.Prefix())
}
