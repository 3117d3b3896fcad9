// Package middleware provides HTTP middleware for the Rentfold API.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxRequestIDLength caps request IDs taken from headers.
	MaxRequestIDLength = 128
	// MaxBusinessIDLength caps business IDs taken from headers.
	MaxBusinessIDLength = 64
)

// Business IDs arriving via header must be UUIDs; anything else is
// dropped rather than written into trace attributes.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "rentfold-backend",
		Enabled:     true,
	}
}

// Tracing returns the OpenTelemetry tracing middleware with defaults.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin server-span middleware. Span
// names follow "METHOD route_pattern", e.g. "GET /api/v1/leases/:id".
// Request-scoped attributes and error status are added by
// TraceAttributes and SpanErrorMarker, which must be registered after
// this middleware so they run inside the span.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TraceAttributes annotates the active span with request_id,
// business_id, and user_id. Register it after the tracing and JWT
// middleware so the claims are already on the context.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetAttributes(requestSpanAttributes(c)...)
		}
		c.Next()
	}
}

// requestSpanAttributes collects the identity attributes present on
// the request. Absent values produce no attribute at all.
func requestSpanAttributes(c *gin.Context) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if requestID := traceRequestID(c); requestID != "" {
		attrs = append(attrs, attribute.String("request_id", requestID))
	}
	if businessID := traceBusinessID(c); businessID != "" {
		attrs = append(attrs, attribute.String("business_id", businessID))
	}
	if userID := traceUserID(c); userID != "" {
		attrs = append(attrs, attribute.String("user_id", userID))
	}
	return attrs
}

// traceRequestID prefers the ID minted by the RequestID middleware and
// falls back to the inbound header, truncated to a sane length.
func traceRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// traceBusinessID prefers the JWT claim. The X-Business-ID header is
// only accepted when it looks like a UUID, since it is caller
// controlled.
func traceBusinessID(c *gin.Context) string {
	if businessID, exists := c.Get(JWTBusinessIDKey); exists {
		if id, ok := businessID.(string); ok && id != "" {
			return id
		}
	}
	if headerID := c.GetHeader("X-Business-ID"); isValidBusinessID(headerID) {
		return headerID
	}
	return ""
}

func isValidBusinessID(businessID string) bool {
	if businessID == "" || len(businessID) > MaxBusinessIDLength {
		return false
	}
	return uuidRegex.MatchString(businessID)
}

func traceUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// SpanErrorMarker sets error status on the active span for 4xx and
// 5xx responses. Register it after the tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, spanErrorMessage(statusCode))
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

func spanErrorMessage(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "Internal Server Error"
	case statusCode == http.StatusUnauthorized:
		return "Unauthorized"
	case statusCode == http.StatusForbidden:
		return "Forbidden"
	case statusCode == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}
