package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limit, done := RateLimitMiddleware(ctx, 1, 2)
	handler := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 allowed, third rejected.
	assert.Equal(t, http.StatusOK, status("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, status("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, status("10.0.0.1:1234"))

	// Separate IPs get separate buckets.
	assert.Equal(t, http.StatusOK, status("10.0.0.2:1234"))

	cancel()
	<-done
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	called := false
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4321"
	assert.Equal(t, "192.168.1.5", clientIP(req))

	req.RemoteAddr = "noport"
	assert.Equal(t, "noport", clientIP(req))
}
