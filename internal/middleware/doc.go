// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    logging context
  - PrometheusMetrics: records request count, latency and in-flight gauge,
    labelled by the chi route pattern
  - RequestLogger: writes one debug entry per request through the
    request-scoped zerolog logger

All middleware has the func(http.Handler) http.Handler shape used by chi:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
