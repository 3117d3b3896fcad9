package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrCodeForbidden, http.StatusForbidden},
		{"conflict", ErrCodeConflict, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"business rule", ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{"limit reached maps to 429", ErrCodeLimitReached, http.StatusTooManyRequests},
		{"feature not available maps to 403", ErrCodeFeatureNotAvailable, http.StatusForbidden},
		{"payment failed", ErrCodePaymentFailed, http.StatusUnprocessableEntity},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"rate limited", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code falls back to 500", "ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"exact mapping", "LIMIT_REACHED", ErrCodeLimitReached},
		{"feature gate", "FEATURE_NOT_AVAILABLE", ErrCodeFeatureNotAvailable},
		{"credentials", "INVALID_CREDENTIALS", ErrCodeUnauthorized},
		{"locked account", "ACCOUNT_LOCKED", ErrCodeUnauthorized},
		{"ai budget", "AI_BUDGET_EXCEEDED", ErrCodeLimitReached},
		{"internal", "INTERNAL_ERROR", ErrCodeInternal},
		{"not found suffix", "LEASE_NOT_FOUND", ErrCodeNotFound},
		{"taken suffix", "EMAIL_TAKEN", ErrCodeAlreadyExists},
		{"exists suffix", "SUBSCRIPTION_EXISTS", ErrCodeAlreadyExists},
		{"invalid prefix", "INVALID_RENT", ErrCodeInvalidInput},
		{"already normalized", ErrCodeNotFound, ErrCodeNotFound},
		{"default business rule", "UNIT_NOT_VACANT", ErrCodeBusinessRule},
		{"inactive defaults to business rule", "TENANT_INACTIVE", ErrCodeBusinessRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "email is required"},
		{Field: "rent_cents", Message: "must be positive"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestListRequestNormalize(t *testing.T) {
	var req ListRequest
	req.Normalize()

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, "created_at", req.OrderBy)
	assert.Equal(t, "desc", req.OrderDir)

	custom := ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc"}
	custom.Normalize()
	assert.Equal(t, 3, custom.Page)
	assert.Equal(t, 50, custom.PageSize)
	assert.Equal(t, "name", custom.OrderBy)
}
