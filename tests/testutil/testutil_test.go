package testutil

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)

	// With nothing queued, ExpectationsWereMet passes.
	mockDB.ExpectationsWereMet(t)
}

func TestTestContext(t *testing.T) {
	t.Run("defaults to a GET request", func(t *testing.T) {
		tc := NewTestContext(t)

		require.NotNil(t, tc.Context)
		require.NotNil(t, tc.Recorder)
		require.NotNil(t, tc.Engine)
		assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
	})

	t.Run("context value setters", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.SetRequestID("req-123")
		tc.SetBusinessID("biz-456")
		tc.SetUserID("user-789")

		val, _ := tc.Context.Get("X-Request-ID")
		assert.Equal(t, "req-123", val)
		val, _ = tc.Context.Get("X-Business-ID")
		assert.Equal(t, "biz-456", val)
		val, _ = tc.Context.Get("X-User-ID")
		assert.Equal(t, "user-789", val)
	})

	t.Run("header setter writes to the request", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.SetHeader("Authorization", "Bearer token")

		assert.Equal(t, "Bearer token", tc.Context.Request.Header.Get("Authorization"))
	})

	t.Run("response accessors mirror the recorder", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusCreated, gin.H{"id": "prop-1"})

		assert.Equal(t, http.StatusCreated, tc.ResponseCode())
		assert.Contains(t, string(tc.ResponseBody()), "prop-1")
	})
}

func TestFixtureUUIDs(t *testing.T) {
	t.Run("same seed yields same id", func(t *testing.T) {
		assert.Equal(t, NewTestUUID("lease-1"), NewTestUUID("lease-1"))
	})

	t.Run("different seeds yield different ids", func(t *testing.T) {
		assert.NotEqual(t, NewTestUUID("lease-1"), NewTestUUID("lease-2"))
	})

	t.Run("standard fixture ids are stable and distinct", func(t *testing.T) {
		assert.Equal(t, TestBusinessID(), TestBusinessID())
		assert.Equal(t, TestUserID(), TestUserID())
		assert.NotEqual(t, TestBusinessID(), TestUserID())
	})
}

func TestContextWithTimeout(t *testing.T) {
	ctx, cancel := ContextWithTimeout(t, 100*time.Millisecond)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.True(t, deadline.After(time.Now()))
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"name": "Maple Court"},
		})
	}

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:           "status and body keys checked",
			Method:         http.MethodGet,
			Path:           "/api/v1/properties/prop-1",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]interface{}{"success": true},
		},
		{
			Name: "validate hook sees the recorded response",
			Validate: func(t *testing.T, tc *TestContext) {
				AssertSuccessResponse(t, tc)
			},
		},
	})
}

func TestRunHTTPTestCase_PostBody(t *testing.T) {
	var receivedContentType string
	handler := func(c *gin.Context) {
		receivedContentType = c.GetHeader("Content-Type")
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusCreated, gin.H{"success": true, "echo": string(body)})
	}

	RunHTTPTestCase(t, handler, HTTPTestCase{
		Name:           "json body and content type",
		Method:         http.MethodPost,
		Path:           "/api/v1/leases",
		Body:           map[string]string{"unit_id": "unit-7"},
		Headers:        map[string]string{"X-Request-ID": "req-42"},
		ExpectedStatus: http.StatusCreated,
		Validate: func(t *testing.T, tc *TestContext) {
			assert.Equal(t, "req-42", tc.Context.Request.Header.Get("X-Request-ID"))
			assert.Contains(t, string(tc.ResponseBody()), "unit-7")
		},
	})
	assert.Equal(t, "application/json", receivedContentType)
}

func TestJSONResponseHelpers(t *testing.T) {
	t.Run("map form", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"status": "vacant"})

		resp := JSONResponse(t, tc)
		assert.Equal(t, "vacant", resp["status"])
	})

	t.Run("typed form", func(t *testing.T) {
		type unitView struct {
			Status string `json:"status"`
		}
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"status": "occupied"})

		resp := JSONResponseAs[unitView](t, tc)
		assert.Equal(t, "occupied", resp.Status)
	})
}

func TestEnvelopeAssertions(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"success": true})

		AssertSuccessResponse(t, tc)
	})

	t.Run("error envelope with code", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_NOT_FOUND", "message": "lease not found"},
		})

		AssertErrorResponse(t, tc, "ERR_NOT_FOUND")
	})
}

func TestToJSONReader(t *testing.T) {
	reader := ToJSONReader(t, map[string]string{"city": "Portland"})

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Portland"}`, string(data))
}
