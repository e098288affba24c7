// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

func TestRouter_RateLimit(t *testing.T) {
	router := newTestRouter(t, &mockEngine{}, RouterConfig{RateLimitPerMinute: 1})

	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues(apiPrefix))

	first, _ := doRequest(t, router, http.MethodGet, "/api/v1/health/live", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second, env := doRequest(t, router, http.MethodGet, "/api/v1/health/live", "")
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeRateLimited {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeRateLimited)
	}

	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues(apiPrefix)) - before; got != 1 {
		t.Errorf("rate limit hits delta = %v, want 1", got)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  RouterConfig
		path string
		want int
	}{
		{"enabled default path", RouterConfig{MetricsEnabled: true}, "/metrics", http.StatusOK},
		{"enabled custom path", RouterConfig{MetricsEnabled: true, MetricsPath: "/internal/metrics"}, "/internal/metrics", http.StatusOK},
		{"disabled", RouterConfig{}, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			newTestRouter(t, &mockEngine{}, tt.cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	// A nil engine panics inside the status handler.
	router := NewRouter(&Handler{}, RouterConfig{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/status", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestRouter(t, &mockEngine{}, RouterConfig{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
