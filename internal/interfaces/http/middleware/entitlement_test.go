package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type stubFeatureGate struct {
	err      error
	lastBiz  uuid.UUID
	lastFeat billing.FeatureKey
}

func (g *stubFeatureGate) RequireFeature(_ context.Context, businessID uuid.UUID, feature billing.FeatureKey) error {
	g.lastBiz = businessID
	g.lastFeat = feature
	return g.err
}

func entitlementTestRouter(gate FeatureGate, feature billing.FeatureKey, businessID string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if businessID != "" {
			c.Set(BusinessIDKey, businessID)
		}
		c.Next()
	})
	router.Use(RequireEntitlement(gate, feature))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRequireEntitlement_Granted(t *testing.T) {
	gate := &stubFeatureGate{}
	businessID := uuid.New()
	router := entitlementTestRouter(gate, billing.FeatureListings, businessID.String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, businessID, gate.lastBiz)
	assert.Equal(t, billing.FeatureListings, gate.lastFeat)
}

func TestRequireEntitlement_Denied(t *testing.T) {
	gate := &stubFeatureGate{err: shared.NewDomainError("FEATURE_NOT_AVAILABLE", "upgrade required")}
	router := entitlementTestRouter(gate, billing.FeatureAIAssistant, uuid.New().String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_FEATURE_NOT_AVAILABLE")
}

func TestRequireEntitlement_MissingBusinessScope(t *testing.T) {
	gate := &stubFeatureGate{}
	router := entitlementTestRouter(gate, billing.FeatureListings, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireEntitlement_InvalidFeaturePanics(t *testing.T) {
	assert.Panics(t, func() {
		RequireEntitlement(&stubFeatureGate{}, billing.FeatureKey("no_such_feature"))
	})
	assert.Panics(t, func() {
		RequireEntitlement(nil, billing.FeatureListings)
	})
}

func TestRequireEntitlement_OnDenied(t *testing.T) {
	called := false
	cfg := EntitlementConfig{
		Gate: &stubFeatureGate{err: shared.NewDomainError("FEATURE_NOT_AVAILABLE", "no")},
		OnDenied: func(c *gin.Context, _ billing.FeatureKey) {
			called = true
			c.AbortWithStatus(http.StatusPaymentRequired)
		},
	}

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(BusinessIDKey, uuid.New().String()); c.Next() })
	router.Use(RequireEntitlementWithConfig(cfg, billing.FeatureBudgeting))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}
