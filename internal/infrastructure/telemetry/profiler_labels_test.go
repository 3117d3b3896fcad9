package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/rentfold/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labelsSeenBy runs fn-style label wrappers and reads back what the
// runtime actually attached. Both wrappers put labels on the goroutine
// through pprof, so pprof.Label can observe them.
func labelsSeenBy(t *testing.T, wrap func(context.Context, map[string]string, func(context.Context)), labels map[string]string) map[string]string {
	t.Helper()

	seen := map[string]string{}
	wrap(context.Background(), labels, func(c context.Context) {
		pprof.ForLabels(c, func(key, value string) bool {
			seen[key] = value
			return true
		})
	})
	return seen
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("nil and empty maps still run the function", func(t *testing.T) {
		for _, labels := range []map[string]string{nil, {}} {
			called := false
			telemetry.WithProfilingLabels(context.Background(), labels, func(c context.Context) {
				called = true
			})
			assert.True(t, called)
		}
	})

	t.Run("labels reach the goroutine", func(t *testing.T) {
		seen := labelsSeenBy(t, telemetry.WithProfilingLabels, map[string]string{
			telemetry.ProfilingLabelController: "LeaseHandler",
			telemetry.ProfilingLabelMethod:     "GET",
			telemetry.ProfilingLabelRoute:      "/api/v1/leases",
		})

		assert.Equal(t, "LeaseHandler", seen["controller"])
		assert.Equal(t, "GET", seen["method"])
		assert.Equal(t, "/api/v1/leases", seen["route"])
	})

	t.Run("high cardinality keys are dropped", func(t *testing.T) {
		seen := labelsSeenBy(t, telemetry.WithProfilingLabels, map[string]string{
			"controller": "LeaseHandler",
			"user_id":    "user-123",
			"request_id": "req-abc",
			"lease_id":   "lease-456",
		})

		assert.Equal(t, "LeaseHandler", seen["controller"])
		assert.NotContains(t, seen, "user_id")
		assert.NotContains(t, seen, "request_id")
		assert.NotContains(t, seen, "lease_id")
	})

	t.Run("long values are truncated", func(t *testing.T) {
		seen := labelsSeenBy(t, telemetry.WithProfilingLabels, map[string]string{
			"controller": strings.Repeat("x", telemetry.MaxLabelValueLength+50),
		})

		assert.Len(t, seen["controller"], telemetry.MaxLabelValueLength)
	})

	t.Run("empty keys and values are dropped", func(t *testing.T) {
		seen := labelsSeenBy(t, telemetry.WithProfilingLabels, map[string]string{
			"controller": "LeaseHandler",
			"method":     "",
			"":           "value",
		})

		assert.Equal(t, map[string]string{"controller": "LeaseHandler"}, seen)
	})

	t.Run("keys are normalized to snake_case", func(t *testing.T) {
		seen := labelsSeenBy(t, telemetry.WithProfilingLabels, map[string]string{
			"Tenant Screening": "enabled",
			"billing-cycle":    "monthly",
		})

		assert.Equal(t, "enabled", seen["tenant_screening"])
		assert.Equal(t, "monthly", seen["billing_cycle"])
	})

	t.Run("context values survive the wrapper", func(t *testing.T) {
		type ctxKey string
		key := ctxKey("request-scoped")
		ctx := context.WithValue(context.Background(), key, "kept")

		telemetry.WithProfilingLabels(ctx, map[string]string{"controller": "UnitHandler"}, func(c context.Context) {
			value := c.Value(key)
			require.NotNil(t, value)
			assert.Equal(t, "kept", value)
		})
	})

	t.Run("nested wrappers merge labels", func(t *testing.T) {
		var inner map[string]string
		telemetry.WithProfilingLabels(context.Background(), map[string]string{"controller": "LeaseHandler"}, func(outerCtx context.Context) {
			inner = labelsSeenBy(t, func(_ context.Context, labels map[string]string, fn func(context.Context)) {
				telemetry.WithProfilingLabels(outerCtx, labels, fn)
			}, map[string]string{"region": "db_query"})
		})

		assert.Equal(t, "LeaseHandler", inner["controller"])
		assert.Equal(t, "db_query", inner["region"])
	})
}

func TestWithPprofLabels(t *testing.T) {
	t.Run("nil labels still run the function", func(t *testing.T) {
		called := false
		telemetry.WithPprofLabels(context.Background(), nil, func(c context.Context) {
			called = true
		})
		assert.True(t, called)
	})

	t.Run("labels are visible through the standard API", func(t *testing.T) {
		telemetry.WithPprofLabels(context.Background(), map[string]string{
			"controller": "PaymentHandler",
			"method":     "POST",
		}, func(c context.Context) {
			controller, ok := pprof.Label(c, "controller")
			require.True(t, ok)
			assert.Equal(t, "PaymentHandler", controller)

			method, ok := pprof.Label(c, "method")
			require.True(t, ok)
			assert.Equal(t, "POST", method)
		})
	})
}

func TestHTTPRequestLabels(t *testing.T) {
	t.Run("blank fields are omitted", func(t *testing.T) {
		labels := telemetry.HTTPRequestLabels("LeaseHandler", "/api/v1/leases", "GET", "")

		assert.Equal(t, map[string]string{
			telemetry.ProfilingLabelController: "LeaseHandler",
			telemetry.ProfilingLabelRoute:      "/api/v1/leases",
			telemetry.ProfilingLabelMethod:     "GET",
		}, labels)
	})

	t.Run("all blank yields an empty map", func(t *testing.T) {
		assert.Empty(t, telemetry.HTTPRequestLabels("", "", "", ""))
	})

	t.Run("business id is included when present", func(t *testing.T) {
		labels := telemetry.HTTPRequestLabels("UnitHandler", "/api/v1/units", "POST", "biz-9")
		assert.Equal(t, "biz-9", labels[telemetry.ProfilingLabelBusinessID])
		assert.Len(t, labels, 4)
	})
}

func TestHighCardinalityLabels(t *testing.T) {
	for _, key := range []string{"user_id", "request_id", "lease_id", "trace_id", "span_id", "session_id"} {
		assert.True(t, telemetry.HighCardinalityLabels[key], "key %s must stay blocked", key)
	}
	assert.False(t, telemetry.HighCardinalityLabels["business_id"], "business_id stays allowed")
}

func TestConcurrentProfilingLabels(t *testing.T) {
	const goroutines = 10
	done := make(chan struct{}, goroutines)

	labels := map[string]string{
		"controller": "ReportHandler",
		"operation":  "occupancy_report",
	}

	for range goroutines {
		go func() {
			telemetry.WithProfilingLabels(context.Background(), labels, func(c context.Context) {})
			done <- struct{}{}
		}()
	}
	for range goroutines {
		<-done
	}
}
