// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeWarm      = "warm"
	OutcomeColdStart = "cold_start"
	OutcomeError     = "error"
)

var (
	// Engine Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"outcome", "result"}, // result: "cache_hit", "computed"
	)

	RecommendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hybridrec_recommend_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"outcome"},
	)

	GeneratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hybridrec_generator_duration_seconds",
			Help:    "Duration of candidate generator calls in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"source"},
	)

	GeneratorCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hybridrec_generator_candidates",
			Help:    "Number of candidates returned per generator call",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"source"},
	)

	GeneratorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_generator_errors_total",
			Help: "Total number of failed or timed out generator calls",
		},
		[]string{"source"},
	)

	RebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_rebuilds_total",
			Help: "Total number of derived structure rebuilds",
		},
		[]string{"component"}, // "snapshot", "content_index", "product"
	)

	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hybridrec_snapshot_version",
			Help: "Version of the snapshot currently served",
		},
	)

	SnapshotEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hybridrec_snapshot_entities",
			Help: "Number of entities in the served snapshot",
		},
		[]string{"kind"}, // "users", "products", "interactions"
	)

	SnapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_snapshot_reloads_total",
			Help: "Total number of dataset reload attempts",
		},
		[]string{"result"}, // "success", "error"
	)

	// Cache Metrics
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hybridrec_cache_entries",
			Help: "Number of entries held by the in-process result cache",
		},
	)

	CacheExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hybridrec_cache_expired_total",
			Help: "Total number of expired result cache entries removed by the sweeper",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

// RecordRecommendRequest records one engine request.
func RecordRecommendRequest(outcome string, cacheHit bool, duration time.Duration) {
	result := "computed"
	if cacheHit {
		result = "cache_hit"
	}
	RecommendRequestsTotal.WithLabelValues(outcome, result).Inc()
	RecommendRequestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordGenerator records one candidate generator call.
func RecordGenerator(source string, candidates int, duration time.Duration, err error) {
	GeneratorDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		GeneratorErrors.WithLabelValues(source).Inc()
		return
	}
	GeneratorCandidates.WithLabelValues(source).Observe(float64(candidates))
}

// RecordRebuild records a rebuild of the named component.
func RecordRebuild(component string) {
	RebuildsTotal.WithLabelValues(component).Inc()
}

// UpdateSnapshot publishes the served snapshot's version and sizes.
func UpdateSnapshot(version int64, users, products, interactions int) {
	SnapshotVersion.Set(float64(version))
	SnapshotEntities.WithLabelValues("users").Set(float64(users))
	SnapshotEntities.WithLabelValues("products").Set(float64(products))
	SnapshotEntities.WithLabelValues("interactions").Set(float64(interactions))
}

// RecordSnapshotReload records a dataset reload attempt.
func RecordSnapshotReload(err error) {
	if err != nil {
		SnapshotReloads.WithLabelValues("error").Inc()
		return
	}
	SnapshotReloads.WithLabelValues("success").Inc()
}

// RecordCacheSweep records one sweep of the in-process result cache.
func RecordCacheSweep(removed, remaining int) {
	CacheExpiredTotal.Add(float64(removed))
	CacheEntries.Set(float64(remaining))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}
