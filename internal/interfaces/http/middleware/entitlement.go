package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// FeatureGate checks whether a business's plan grants a feature.
// Implemented by the billing entitlement service.
type FeatureGate interface {
	RequireFeature(ctx context.Context, businessID uuid.UUID, feature billing.FeatureKey) error
}

// EntitlementConfig holds configuration for the entitlement middleware
type EntitlementConfig struct {
	// Gate is required
	Gate FeatureGate
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the plan lacks the feature (optional)
	OnDenied func(c *gin.Context, feature billing.FeatureKey)
}

// RequireEntitlement creates middleware that rejects requests when the
// business's plan does not include the feature. Routes behind it must
// run after the business middleware. Panics on an invalid feature key so
// misconfigured routes fail at startup, not per request.
func RequireEntitlement(gate FeatureGate, feature billing.FeatureKey) gin.HandlerFunc {
	return RequireEntitlementWithConfig(EntitlementConfig{Gate: gate}, feature)
}

// RequireEntitlementWithConfig creates entitlement middleware with custom config
func RequireEntitlementWithConfig(cfg EntitlementConfig, feature billing.FeatureKey) gin.HandlerFunc {
	if !feature.IsValid() {
		panic("entitlement middleware: invalid feature key " + string(feature))
	}
	if cfg.Gate == nil {
		panic("entitlement middleware: gate is required")
	}

	return func(c *gin.Context) {
		businessID, ok := GetBusinessUUID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Business context required",
				},
			})
			return
		}

		if err := cfg.Gate.RequireFeature(c.Request.Context(), businessID, feature); err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("Feature gate denied request",
					zap.String("business_id", businessID.String()),
					zap.String("feature", string(feature)),
					zap.Error(err))
			}
			if cfg.OnDenied != nil {
				cfg.OnDenied(c, feature)
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FEATURE_NOT_AVAILABLE",
					"message": "Your plan does not include this feature",
				},
			})
			return
		}

		c.Next()
	}
}
