package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey keeps this package's context values from colliding with
// string keys set elsewhere.
type contextKey string

const (
	LoggerKey     contextKey = "logger"
	RequestIDKey  contextKey = "request_id"
	BusinessIDKey contextKey = "business_id"
	UserIDKey     contextKey = "user_id"
)

// WithContext stores the logger in the context.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext returns the stored logger, or a no-op logger so callers
// never need a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// tag stores value under key and returns the context plus a logger that
// carries the same value as a structured field, so the two never drift.
func tag(ctx context.Context, log *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	tagged := log.With(zap.String(string(key), value))
	return WithContext(ctx, tagged), tagged
}

// WithRequestID tags the context and logger with the request ID.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, RequestIDKey, requestID)
}

// WithBusinessID tags the context and logger with the acting business.
// The business middleware calls this once per request; everything
// downstream, including the GORM business scope, reads it back.
func WithBusinessID(ctx context.Context, log *zap.Logger, businessID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, BusinessIDKey, businessID)
}

// WithUserID tags the context and logger with the authenticated user.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, UserIDKey, userID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetRequestID returns the request ID, or "" when the request middleware
// did not run.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetBusinessID returns the acting business ID, or "" outside a
// business-scoped request.
func GetBusinessID(ctx context.Context) string {
	return stringValue(ctx, BusinessIDKey)
}

// GetUserID returns the authenticated user ID, or "" for anonymous
// requests.
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}
