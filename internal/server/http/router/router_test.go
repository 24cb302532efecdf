package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polkiloo/tablepay/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSetupRegistersRoutes(t *testing.T) {
	engine := Setup(&test.PosFacadeStub{}, testLogger())

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/ORD-1"},
		{http.MethodPost, "/api/payments/notification"},
		{http.MethodGet, "/api/payments/status/ORD-1"},
		{http.MethodPost, "/api/payments/sync"},
		{http.MethodPost, "/api/payments/cash/confirm"},
		{http.MethodPost, "/api/payments/cash/reject"},
		{http.MethodPost, "/api/payments/expiry/sweep"},
		{http.MethodGet, "/api/payments/expiry/ORD-1"},
		{http.MethodPost, "/api/tables"},
		{http.MethodGet, "/api/tables"},
		{http.MethodDelete, "/api/tables/1"},
		{http.MethodPatch, "/api/tables/1/status"},
		{http.MethodGet, "/metrics"},
		{http.MethodGet, "/healthz"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code == http.StatusNotFound {
			t.Errorf("%s %s is not routed", tc.method, tc.path)
		}
	}
}

func TestHealthzReflectsStorage(t *testing.T) {
	healthy := Setup(&test.PosFacadeStub{}, testLogger())
	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	sick := Setup(&test.PosFacadeStub{HealthFn: func(context.Context) error {
		return errors.New("db down")
	}}, testLogger())
	rec = httptest.NewRecorder()
	sick.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
