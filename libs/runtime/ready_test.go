package runtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadyzReportsFailures(t *testing.T) {
	mux := NewBaseMuxWithReady(
		ReadyCheck{Name: "redis", Check: func(context.Context) error { return errors.New("down") }},
		ReadyCheck{Name: "kafka", Check: func(context.Context) error { return errors.New("no brokers") }},
		ReadyCheck{Name: "noop"},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "kafka: no brokers") || !strings.Contains(body, "redis: down") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHealthzAlwaysOK(t *testing.T) {
	mux := NewBaseMuxWithReady()
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Fatalf("%s: expected 200 ok, got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}
