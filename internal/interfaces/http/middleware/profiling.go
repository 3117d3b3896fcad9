// Package middleware provides HTTP middleware for the Rentfold API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentfold/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig controls which requests get profiling labels.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths and SkipPathPrefixes exclude requests that would only add
	// noise to profiles, like health checks and the swagger UI.
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns the standard profiling middleware setup.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// Profiling tags each request's profile samples with controller, route,
// method, and business labels so profiles can be sliced per endpoint and
// per business in the Pyroscope UI. Place it after the auth middleware
// so the business claim is available.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig is Profiling with explicit configuration.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if skipProfiling(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		// FullPath is the matched pattern ("/api/v1/leases/:id"), not the
		// raw URL, which keeps the route label low cardinality.
		route := c.FullPath()
		labels := telemetry.HTTPRequestLabels(
			resourceFromRoute(route),
			route,
			c.Request.Method,
			requestBusinessID(c),
		)

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(cfg ProfilingConfig, path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// resourceFromRoute picks the resource segment out of a route pattern.
// "/api/v1/leases/:id/payments" yields "leases".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment reports whether a path segment looks like an API
// version marker such as "v1" or "V12".
func isVersionSegment(segment string) bool {
	if len(segment) < 2 {
		return false
	}
	if segment[0] != 'v' && segment[0] != 'V' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

// requestBusinessID reads the business ID left on the context by the JWT
// or business-scoping middleware. Empty when the request is unscoped.
func requestBusinessID(c *gin.Context) string {
	if businessID, exists := c.Get(JWTBusinessIDKey); exists {
		if id, ok := businessID.(string); ok && id != "" {
			return id
		}
	}
	if businessID, exists := c.Get(BusinessIDKey); exists {
		if id, ok := businessID.(string); ok && id != "" {
			return id
		}
	}
	return ""
}
