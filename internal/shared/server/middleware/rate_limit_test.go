package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(limiter *RateLimiter, rule RateLimitRule, principal string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != "" {
			c.Set("userId", principal)
		}
		c.Next()
	})
	r.Use(RateLimit(limiter, rule))
	r.GET("/api/v1/resumes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimitAllowsBurstThenRejects(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	r := limitedRouter(limiter, RateLimitRule{Rate: 1, Burst: 2}, "user-1")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}
	r := limitedRouter(limiter, rule, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}

	now = now.Add(2 * time.Second)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 after refill, got %d", resp.Code)
	}
}

func TestRateLimitIsPerPrincipal(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	first := limitedRouter(limiter, rule, "user-1")
	second := limitedRouter(limiter, rule, "user-2")

	resp := httptest.NewRecorder()
	first.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("user-1 expected 200, got %d", resp.Code)
	}
	resp = httptest.NewRecorder()
	first.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("user-1 expected 429, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	second.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("user-2 expected 200, got %d", resp.Code)
	}
}
