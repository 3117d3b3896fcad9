package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/leases", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func getWithHeaders(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/leases", nil)
	req.RemoteAddr = "203.0.113.7:40000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within the limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("biz-1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks once tokens run out", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("biz-2"))
		}
		assert.False(t, limiter.Allow("biz-2"))
	})

	t.Run("keys do not share a bucket", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("biz-a"))
		assert.True(t, limiter.Allow("biz-a"))
		assert.False(t, limiter.Allow("biz-a"))

		assert.True(t, limiter.Allow("biz-b"))
		assert.True(t, limiter.Allow("biz-b"))
	})

	t.Run("bucket refills after the window", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("biz-3"))
		assert.True(t, limiter.Allow("biz-3"))
		assert.False(t, limiter.Allow("biz-3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("biz-3"))
	})

	t.Run("remaining counts down and resets", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("fresh"))

		limiter.Allow("fresh")
		limiter.Allow("fresh")

		assert.Equal(t, 3, limiter.Remaining("fresh"))
	})

	t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("passes requests and reports remaining quota", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(3, time.Minute)))

		w := getWithHeaders(router, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("blocked requests get 429 with Retry-After", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(2, time.Minute)))

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, getWithHeaders(router, nil).Code)
		}

		w := getWithHeaders(router, nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("businesses behind one IP get separate quotas", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(1, time.Minute)))

		assert.Equal(t, http.StatusOK,
			getWithHeaders(router, map[string]string{"X-Business-ID": "biz-1"}).Code)
		assert.Equal(t, http.StatusTooManyRequests,
			getWithHeaders(router, map[string]string{"X-Business-ID": "biz-1"}).Code)
		assert.Equal(t, http.StatusOK,
			getWithHeaders(router, map[string]string{"X-Business-ID": "biz-2"}).Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	t.Run("groups by the extracted key", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		router := limitedRouter(RateLimitByKey(limiter, func(c *gin.Context) string {
			return "login:" + c.GetHeader("X-Login-Email")
		}))

		assert.Equal(t, http.StatusOK,
			getWithHeaders(router, map[string]string{"X-Login-Email": "owner@rentfold.com"}).Code)
		assert.Equal(t, http.StatusTooManyRequests,
			getWithHeaders(router, map[string]string{"X-Login-Email": "owner@rentfold.com"}).Code)

		// A different email gets its own bucket.
		assert.Equal(t, http.StatusOK,
			getWithHeaders(router, map[string]string{"X-Login-Email": "manager@rentfold.com"}).Code)
	})

	t.Run("separate limiters do not interfere", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		globalLimiter := NewRateLimiter(100, time.Minute)
		authLimiter := NewRateLimiter(1, time.Minute)

		router := gin.New()
		authGroup := router.Group("/auth")
		authGroup.Use(RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		}))
		authGroup.POST("/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		router.Use(RateLimit(globalLimiter))
		router.GET("/api/leases", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		post := func(path string) int {
			req := httptest.NewRequest("POST", path, nil)
			req.RemoteAddr = "203.0.113.7:40000"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w.Code
		}

		assert.Equal(t, http.StatusOK, post("/auth/login"))
		assert.Equal(t, http.StatusTooManyRequests, post("/auth/login"))

		req := httptest.NewRequest("GET", "/api/leases", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
