package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentfold/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
)

// profiledRequest serves one GET request through the profiling middleware
// and returns the pprof labels visible inside the handler.
func profiledRequest(t *testing.T, cfg middleware.ProfilingConfig, route, path string, pre gin.HandlerFunc) map[string]string {
	t.Helper()

	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(middleware.ProfilingWithConfig(cfg))

	seen := map[string]string{}
	r.GET(route, func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			seen[key] = value
			return true
		})
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	return seen
}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := middleware.DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/healthz")
	assert.Contains(t, cfg.SkipPaths, "/ready")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
	assert.Contains(t, cfg.SkipPathPrefixes, "/swagger")
	assert.Contains(t, cfg.SkipPathPrefixes, "/api-docs")
}

func TestProfilingMiddleware(t *testing.T) {
	t.Run("labels the request with method route and controller", func(t *testing.T) {
		seen := profiledRequest(t, middleware.DefaultProfilingConfig(),
			"/api/v1/properties/:id", "/api/v1/properties/prop-1", nil)

		assert.Equal(t, "GET", seen["method"])
		assert.Equal(t, "/api/v1/properties/:id", seen["route"])
		assert.Equal(t, "properties", seen["controller"])
	})

	t.Run("disabled adds no labels", func(t *testing.T) {
		seen := profiledRequest(t, middleware.ProfilingConfig{Enabled: false},
			"/api/v1/properties", "/api/v1/properties", nil)

		assert.NotContains(t, seen, "route")
		assert.NotContains(t, seen, "controller")
	})

	t.Run("skip paths stay unlabeled", func(t *testing.T) {
		for _, path := range []string{"/health", "/metrics"} {
			seen := profiledRequest(t, middleware.DefaultProfilingConfig(), path, path, nil)
			assert.NotContains(t, seen, "route", "path %s must be skipped", path)
		}
	})

	t.Run("skip prefixes stay unlabeled", func(t *testing.T) {
		seen := profiledRequest(t, middleware.DefaultProfilingConfig(),
			"/swagger/index.html", "/swagger/index.html", nil)
		assert.NotContains(t, seen, "route")
	})

	t.Run("subpath of a skip path is still profiled", func(t *testing.T) {
		seen := profiledRequest(t, middleware.DefaultProfilingConfig(),
			"/health/check", "/health/check", nil)
		assert.Equal(t, "/health/check", seen["route"])
	})

	t.Run("custom skip configuration", func(t *testing.T) {
		cfg := middleware.ProfilingConfig{
			Enabled:          true,
			SkipPaths:        []string{"/internal/status"},
			SkipPathPrefixes: []string{"/internal/admin"},
		}

		seen := profiledRequest(t, cfg, "/internal/status", "/internal/status", nil)
		assert.NotContains(t, seen, "route")

		seen = profiledRequest(t, cfg, "/internal/admin/jobs", "/internal/admin/jobs", nil)
		assert.NotContains(t, seen, "route")

		seen = profiledRequest(t, cfg, "/internal/reports", "/internal/reports", nil)
		assert.Equal(t, "/internal/reports", seen["route"])
	})
}

func TestProfilingMiddleware_BusinessLabel(t *testing.T) {
	cfg := middleware.DefaultProfilingConfig()

	t.Run("taken from the JWT claim", func(t *testing.T) {
		seen := profiledRequest(t, cfg, "/api/v1/units", "/api/v1/units", func(c *gin.Context) {
			c.Set(middleware.JWTBusinessIDKey, "biz-jwt")
			c.Next()
		})
		assert.Equal(t, "biz-jwt", seen["business_id"])
	})

	t.Run("falls back to the business scoping key", func(t *testing.T) {
		seen := profiledRequest(t, cfg, "/api/v1/units", "/api/v1/units", func(c *gin.Context) {
			c.Set(middleware.BusinessIDKey, "biz-scoped")
			c.Next()
		})
		assert.Equal(t, "biz-scoped", seen["business_id"])
	})

	t.Run("JWT claim wins when both are set", func(t *testing.T) {
		seen := profiledRequest(t, cfg, "/api/v1/units", "/api/v1/units", func(c *gin.Context) {
			c.Set(middleware.JWTBusinessIDKey, "biz-jwt")
			c.Set(middleware.BusinessIDKey, "biz-scoped")
			c.Next()
		})
		assert.Equal(t, "biz-jwt", seen["business_id"])
	})

	t.Run("absent on unscoped requests", func(t *testing.T) {
		seen := profiledRequest(t, cfg, "/api/v1/system/ping", "/api/v1/system/ping", nil)
		assert.NotContains(t, seen, "business_id")
	})

	t.Run("non-string claim is ignored", func(t *testing.T) {
		seen := profiledRequest(t, cfg, "/api/v1/units", "/api/v1/units", func(c *gin.Context) {
			c.Set(middleware.JWTBusinessIDKey, 12345)
			c.Next()
		})
		assert.NotContains(t, seen, "business_id")
		assert.Equal(t, "units", seen["controller"])
	})
}

func TestProfilingMiddleware_ControllerFromRoute(t *testing.T) {
	tests := []struct {
		route      string
		path       string
		controller string
	}{
		{"/api/v1/properties", "/api/v1/properties", "properties"},
		{"/api/v1/leases/:id/payments", "/api/v1/leases/lease-1/payments", "leases"},
		{"/api/v2/tenants/:id", "/api/v2/tenants/ten-1", "tenants"},
		{"/api/listings", "/api/listings", "listings"},
		{"/v1/applications", "/v1/applications", "applications"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			seen := profiledRequest(t, middleware.DefaultProfilingConfig(), tt.route, tt.path, nil)
			assert.Equal(t, tt.controller, seen["controller"])
		})
	}
}

func TestProfilingMiddleware_PreservesContext(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_scoped", "kept")
		c.Next()
	})
	r.Use(middleware.Profiling())

	order := []string{}
	r.Use(func(c *gin.Context) {
		order = append(order, "inner")
		c.Next()
		order = append(order, "inner_after")
	})

	r.GET("/api/v1/leases", func(c *gin.Context) {
		order = append(order, "handler")
		value, exists := c.Get("request_scoped")
		assert.True(t, exists)
		assert.Equal(t, "kept", value)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"inner", "handler", "inner_after"}, order)
}
