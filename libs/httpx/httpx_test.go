package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(okHandler(), mark("a"), nil, mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "a,b" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc" || rec.Header().Get(RequestIDHeader) != "abc" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewMemoryLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("third hit should be limited")
	}
	if ok, _ := rl.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatal("other clients have their own budget")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("window should reset")
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimitFailOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	RateLimit(failingLimiter{}, nil, true)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("fail-open should pass through, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RateLimit(failingLimiter{}, nil, false)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("fail-closed should return 503, got %d", rec.Code)
	}
}

func TestRateLimitRejects(t *testing.T) {
	h := RateLimit(NewMemoryLimiter(1, time.Minute), nil, false)(okHandler())
	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
		return r
	}
	h.ServeHTTP(httptest.NewRecorder(), req())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := Chain(okHandler(), WithCORS(CORSPolicy{
		AllowedOrigins: []string{"https://app.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		MaxAge:         time.Minute,
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/signup", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "GET, POST" {
		t.Fatalf("unexpected methods header: %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON(strings.NewReader(`{"name":"a","extra":1}`), &dst); err == nil {
		t.Fatal("expected unknown field error")
	}
	if err := DecodeJSON(strings.NewReader(`{"name":"a"} {}`), &dst); err == nil {
		t.Fatal("expected trailing data error")
	}
	if err := DecodeJSON(strings.NewReader(`{"name":"a"}`), &dst); err != nil || dst.Name != "a" {
		t.Fatalf("unexpected decode result: %v %q", err, dst.Name)
	}
}
