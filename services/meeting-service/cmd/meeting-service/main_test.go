package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddlewareSelection(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	if mw, rdb := rateLimitMiddleware(logger); mw != nil || rdb != nil {
		t.Fatal("zero limit must disable rate limiting")
	}

	t.Setenv("RATE_LIMIT_PER_MINUTE", "1")
	t.Setenv("REDIS_ADDR", "")
	mw, rdb := rateLimitMiddleware(logger)
	if mw == nil || rdb != nil {
		t.Fatal("expected in-memory limiter without redis")
	}

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/org/users", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/org/users", nil))
	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected statuses %d / %d", first.Code, second.Code)
	}
}
