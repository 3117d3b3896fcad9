package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Success(c, gin.H{"name": "Sunset Terrace"})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Sunset Terrace", data["name"])
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
}

func TestBaseHandler_Created(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Created(c, gin.H{"id": "new"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.NoContent(c)

	// A body-less status is only flushed to the recorder by the engine,
	// so read it off the response writer.
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_Error_IncludesRequestID(t *testing.T) {
	c, w := newTestContext(t)
	c.Set(RequestIDKey, "req-123")

	h := &BaseHandler{}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestBaseHandler_StatusHelpers(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		send       func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { h.BadRequest(c, "msg") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"not found", func(c *gin.Context) { h.NotFound(c, "msg") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"unauthorized", func(c *gin.Context) { h.Unauthorized(c, "msg") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"forbidden", func(c *gin.Context) { h.Forbidden(c, "msg") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{"conflict", func(c *gin.Context) { h.Conflict(c, "msg") }, http.StatusConflict, dto.ErrCodeConflict},
		{"internal", func(c *gin.Context) { h.InternalError(c, "msg") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"too many requests", func(c *gin.Context) { h.TooManyRequests(c, "msg") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			tt.send(c)

			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_HandleError_LimitReached(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, billing.NewLimitReachedError(billing.ResourceUnit, 50, 50))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeLimitReached, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unit")
}

func TestBaseHandler_HandleError_WrappedLimitReached(t *testing.T) {
	c, w := newTestContext(t)

	wrapped := errors.Join(errors.New("creating unit"),
		billing.NewLimitReachedError(billing.ResourceProperty, 5, 5))

	h := &BaseHandler{}
	h.HandleError(c, wrapped)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBaseHandler_HandleError_DomainError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found suffix",
			err:        shared.NewDomainError("LEASE_NOT_FOUND", "Lease not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "duplicate suffix",
			err:        shared.NewDomainError("SLUG_TAKEN", "Slug already in use"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:       "invalid prefix",
			err:        shared.NewDomainError("INVALID_RENT", "Rent cannot be negative"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:       "business rule fallback",
			err:        shared.NewDomainError("UNIT_OCCUPIED", "Unit already has an active lease"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeBusinessRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleError_UnknownError(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	// Raw error detail must not leak to clients.
	assert.NotContains(t, resp.Error.Message, "pq:")
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(RequestIDKey, "ctx-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set(RequestIDKey, "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty when absent", func(t *testing.T) {
		c, _ := newTestContext(t)
		assert.Empty(t, getRequestID(c))
	})
}

func TestToSharedFilter(t *testing.T) {
	filter := toSharedFilter(dto.ListRequest{
		Page:     3,
		PageSize: 25,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   "sunset",
	})

	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 25, filter.PageSize)
	assert.Equal(t, "created_at", filter.OrderBy)
	assert.Equal(t, "desc", filter.OrderDir)
	assert.Equal(t, "sunset", filter.Search)
}
