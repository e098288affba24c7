// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/middleware"
)

// apiPrefix is the mount point of the versioned API.
const apiPrefix = "/api/v1"

// RouterConfig holds router options.
type RouterConfig struct {
	// RateLimitPerMinute is the per-IP request limit for /api/v1. Zero disables
	// rate limiting.
	RateLimitPerMinute int

	// MetricsEnabled mounts the Prometheus handler at MetricsPath.
	MetricsEnabled bool
	MetricsPath    string
}

// NewRouter builds the chi router for the handler.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.RequestLogger)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimitPerMinute))
		r.Use(middleware.PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/user/{userID}", h.GetRecommendations)
			r.Get("/status", h.GetStatus)
		})

		r.Post("/products", h.AddProduct)
	})

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	return r
}

// rateLimit returns a per-IP limiter, or a pass-through when perMinute is
// not positive.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(apiPrefix)
			respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Rate limit exceeded", nil)
		}),
	)
}
