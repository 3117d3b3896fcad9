package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordedSpans installs an in-memory span recorder as the global
// tracer provider for the duration of the test.
func recordedSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

// endedSpan finds the finished server span by name.
func endedSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	t.Fatalf("span %q was not recorded", name)
	return nil
}

func spanStringAttr(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func tracedRouter(mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "rentfold-backend"}))
	for _, mw := range mws {
		router.Use(mw)
	}
	return router
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.Equal(t, "rentfold-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}

func TestTracingMiddleware(t *testing.T) {
	t.Run("records a span named after the route pattern", func(t *testing.T) {
		sr := recordedSpans(t)
		router := tracedRouter()
		router.GET("/api/v1/leases/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
		})

		w := serveGet(router, "/api/v1/leases/l-9")
		require.Equal(t, http.StatusOK, w.Code)

		endedSpan(t, sr, "GET /api/v1/leases/:id")
	})

	t.Run("default config produces spans", func(t *testing.T) {
		sr := recordedSpans(t)
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(Tracing())
		router.GET("/api/v1/units", func(c *gin.Context) { c.Status(http.StatusOK) })

		serveGet(router, "/api/v1/units")
		assert.NotEmpty(t, sr.Ended())
	})

	t.Run("disabled config records nothing", func(t *testing.T) {
		sr := recordedSpans(t)
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "rentfold-backend"}))
		router.GET("/api/v1/units", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serveGet(router, "/api/v1/units")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, sr.Ended())
	})
}

func TestTraceAttributes(t *testing.T) {
	t.Run("request id from header", func(t *testing.T) {
		sr := recordedSpans(t)
		router := tracedRouter(RequestID(), TraceAttributes())
		router.GET("/api/v1/properties", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/properties", nil)
		req.Header.Set("X-Request-ID", "req-trace-123")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		span := endedSpan(t, sr, "GET /api/v1/properties")
		got, found := spanStringAttr(span, "request_id")
		require.True(t, found)
		assert.Equal(t, "req-trace-123", got)
	})

	t.Run("user and business ids from JWT claims", func(t *testing.T) {
		sr := recordedSpans(t)
		claims := func(c *gin.Context) {
			c.Set(JWTUserIDKey, "user-77")
			c.Set(JWTBusinessIDKey, "biz-12")
			c.Next()
		}
		router := tracedRouter(claims, TraceAttributes())
		router.GET("/api/v1/payments", func(c *gin.Context) { c.Status(http.StatusOK) })

		serveGet(router, "/api/v1/payments")

		span := endedSpan(t, sr, "GET /api/v1/payments")
		userID, found := spanStringAttr(span, "user_id")
		require.True(t, found)
		assert.Equal(t, "user-77", userID)
		businessID, found := spanStringAttr(span, "business_id")
		require.True(t, found)
		assert.Equal(t, "biz-12", businessID)
	})

	t.Run("business id header accepted when it is a UUID", func(t *testing.T) {
		sr := recordedSpans(t)
		router := tracedRouter(TraceAttributes())
		router.GET("/api/v1/listings", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/listings", nil)
		req.Header.Set("X-Business-ID", "12345678-1234-1234-1234-123456789abc")
		router.ServeHTTP(w, req)

		span := endedSpan(t, sr, "GET /api/v1/listings")
		businessID, found := spanStringAttr(span, "business_id")
		require.True(t, found)
		assert.Equal(t, "12345678-1234-1234-1234-123456789abc", businessID)
	})

	t.Run("malformed business id header dropped", func(t *testing.T) {
		sr := recordedSpans(t)
		router := tracedRouter(TraceAttributes())
		router.GET("/api/v1/listings", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/listings", nil)
		req.Header.Set("X-Business-ID", "<script>alert(1)</script>")
		router.ServeHTTP(w, req)

		span := endedSpan(t, sr, "GET /api/v1/listings")
		_, found := spanStringAttr(span, "business_id")
		assert.False(t, found)
	})

	t.Run("no recording span is a no-op", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		otel.SetTracerProvider(noop.NewTracerProvider())
		router := gin.New()
		router.Use(TraceAttributes())
		router.GET("/api/v1/units", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serveGet(router, "/api/v1/units")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSpanErrorMarker(t *testing.T) {
	errorCases := []struct {
		name        string
		status      int
		description string
	}{
		{"not found", http.StatusNotFound, "Not Found"},
		{"unauthorized", http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", http.StatusForbidden, "Forbidden"},
		{"bad request", http.StatusBadRequest, "Client Error"},
		{"conflict", http.StatusConflict, "Client Error"},
		{"internal error", http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			sr := recordedSpans(t)
			router := tracedRouter(SpanErrorMarker())
			router.GET("/api/v1/leases/:id", func(c *gin.Context) {
				c.JSON(tc.status, gin.H{"error": tc.name})
			})

			w := serveGet(router, "/api/v1/leases/l-1")
			require.Equal(t, tc.status, w.Code)

			span := endedSpan(t, sr, "GET /api/v1/leases/:id")
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tc.description, span.Status().Description)
		})
	}

	t.Run("success leaves status unset", func(t *testing.T) {
		sr := recordedSpans(t)
		router := tracedRouter(SpanErrorMarker())
		router.GET("/api/v1/leases/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
		})

		w := serveGet(router, "/api/v1/leases/l-1")
		require.Equal(t, http.StatusOK, w.Code)

		span := endedSpan(t, sr, "GET /api/v1/leases/:id")
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("no recording span is a no-op", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		otel.SetTracerProvider(noop.NewTracerProvider())
		router := gin.New()
		router.Use(SpanErrorMarker())
		router.GET("/api/v1/units", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		})

		w := serveGet(router, "/api/v1/units")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTraceRequestID(t *testing.T) {
	t.Run("context value wins over header", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "ctx-id")
			c.Next()
		})
		router.GET("/check", func(c *gin.Context) {
			c.String(http.StatusOK, traceRequestID(c))
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/check", nil)
		req.Header.Set("X-Request-ID", "header-id")
		router.ServeHTTP(w, req)

		assert.Equal(t, "ctx-id", w.Body.String())
	})

	t.Run("oversized header is truncated", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/check", func(c *gin.Context) {
			c.String(http.StatusOK, traceRequestID(c))
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/check", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("r", MaxRequestIDLength+50))
		router.ServeHTTP(w, req)

		assert.Len(t, w.Body.String(), MaxRequestIDLength)
	})
}

func TestIsValidBusinessID(t *testing.T) {
	cases := []struct {
		name       string
		businessID string
		valid      bool
	}{
		{"lowercase uuid", "12345678-1234-1234-1234-123456789abc", true},
		{"uppercase uuid", "12345678-1234-1234-1234-123456789ABC", true},
		{"too short", "12345678-1234-1234", false},
		{"no dashes", "12345678123412341234123456789abc", false},
		{"special characters", "12345678-1234-1234-1234-123456789<>!", false},
		{"contains spaces", "12345678-1234 -1234-1234-123456789abc", false},
		{"empty", "", false},
		{"uuid with trailing junk", "12345678-1234-1234-1234-123456789abc" + strings.Repeat("x", 100), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, isValidBusinessID(tc.businessID))
		})
	}
}
