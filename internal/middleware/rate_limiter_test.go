package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-tracker/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func resetClients() {
	mu.Lock()
	clients = make(map[string]*client)
	mu.Unlock()
}

func TestRateLimiter(t *testing.T) {
	resetClients()

	e := echo.New()
	middleware := RateLimiter()

	handler := middleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Requests within the burst are allowed
	successCount := 0
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(c); err == nil && rec.Code == http.StatusOK {
			successCount++
		}
	}
	assert.Equal(t, 5, successCount, "All initial requests should succeed")

	// Hammering the same IP must eventually hit the limit
	rateLimited := false
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		if err == nil && rec.Code == http.StatusTooManyRequests {
			var errorResponse errors.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errorResponse))
			assert.Equal(t, "SYSTEM_006", errorResponse.Error.Code)
			rateLimited = true
			break
		}
	}

	assert.True(t, rateLimited, "Should be rate limited after many requests")
}

func TestRateLimiterWithConfig(t *testing.T) {
	resetClients()

	e := echo.New()
	middleware := RateLimiterWithConfig(2, 4)

	handler := middleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Burst of 4 is allowed
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.2:12345"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// Fifth request in the same instant exceeds the burst
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.2:12345"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	resetClients()

	e := echo.New()
	middleware := RateLimiterWithConfig(1, 1)

	handler := middleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Exhaust the first client's budget
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	rec := httptest.NewRecorder()
	assert.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	rec = httptest.NewRecorder()
	assert.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	rec = httptest.NewRecorder()
	assert.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIPPrefersForwardedHeaders(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.RemoteAddr = "10.0.0.1:4000"
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "203.0.113.7", clientIP(c))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	req.RemoteAddr = "10.0.0.1:4000"
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "203.0.113.9", clientIP(c))
}
