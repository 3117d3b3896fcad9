package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Business context keys
const (
	BusinessIDKey     = "business_id"
	BusinessHeaderKey = "X-Business-ID"
)

// BusinessValidator checks that a business exists and may serve requests.
// Implemented by the identity application service.
type BusinessValidator interface {
	IsBusinessActive(businessID uuid.UUID) (bool, error)
}

// BusinessMiddlewareConfig holds configuration for the business scope middleware
type BusinessMiddlewareConfig struct {
	// HeaderEnabled allows super admins to act on behalf of a business
	// via the X-Business-ID header. Regular tokens always use the claim.
	HeaderEnabled bool
	// SkipPaths are paths that don't require business context
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require business context
	SkipPathPrefixes []string
	// Required determines if business context is mandatory
	Required bool
	// Validator optionally checks the business is active
	Validator BusinessValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultBusinessConfig returns the default business middleware configuration
func DefaultBusinessConfig() BusinessMiddlewareConfig {
	return BusinessMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/metrics",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/businesses/register",
		},
		SkipPathPrefixes: []string{
			"/apply",
			"/webhooks",
			"/super-admin",
		},
		Required: true,
	}
}

// BusinessMiddleware resolves the business scope for the request. The JWT
// claim is authoritative; the header is honored only for super admin
// tokens, which carry no claim of their own.
func BusinessMiddleware() gin.HandlerFunc {
	return BusinessMiddlewareWithConfig(DefaultBusinessConfig())
}

// BusinessMiddlewareWithConfig returns business middleware with custom configuration
func BusinessMiddlewareWithConfig(cfg BusinessMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		businessID := GetJWTBusinessID(c)

		// Super admins may scope a request explicitly
		if businessID == "" && cfg.HeaderEnabled && IsJWTSuperAdmin(c) {
			businessID = c.GetHeader(BusinessHeaderKey)
		}

		if businessID == "" {
			if cfg.Required {
				respondBusinessError(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", "Business context required")
				return
			}
			c.Next()
			return
		}

		parsed, err := uuid.Parse(businessID)
		if err != nil || parsed == uuid.Nil {
			respondBusinessError(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", "Invalid business ID")
			return
		}

		if cfg.Validator != nil {
			active, err := cfg.Validator.IsBusinessActive(parsed)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Business validation failed",
						zap.String("business_id", businessID),
						zap.Error(err))
				}
				respondBusinessError(c, http.StatusInternalServerError, "ERR_INTERNAL", "Failed to validate business")
				return
			}
			if !active {
				respondBusinessError(c, http.StatusForbidden, "ERR_FORBIDDEN", "Business is suspended or cancelled")
				return
			}
		}

		c.Set(BusinessIDKey, businessID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithBusinessID(ctx, log, businessID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetBusinessID retrieves the resolved business ID from gin.Context
func GetBusinessID(c *gin.Context) string {
	if businessID, exists := c.Get(BusinessIDKey); exists {
		if id, ok := businessID.(string); ok {
			return id
		}
	}
	return ""
}

// GetBusinessUUID retrieves and parses the resolved business ID
func GetBusinessUUID(c *gin.Context) (uuid.UUID, bool) {
	id := GetBusinessID(c)
	if id == "" {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

func respondBusinessError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
