// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package metrics provides Prometheus instrumentation for hybridrec.

Collectors are registered on the default registry at package init and
exposed by the API at the configured metrics path:

	curl http://localhost:8080/metrics

# Available Metrics

Engine:
  - hybridrec_recommend_requests_total: requests by outcome (warm, cold_start, error)
    and result (cache_hit, computed)
  - hybridrec_recommend_request_duration_seconds: request latency by outcome
  - hybridrec_generator_duration_seconds: candidate generator latency by source
  - hybridrec_generator_candidates: candidates returned per call by source
  - hybridrec_generator_errors_total: generator failures by source
  - hybridrec_rebuilds_total: derived structure rebuilds by component
  - hybridrec_snapshot_version: version of the snapshot being served
  - hybridrec_snapshot_entities: users, products and interactions in the snapshot
  - hybridrec_snapshot_reloads_total: dataset reload attempts by result

HTTP:
  - http_requests_total: requests by method, route and status
  - http_request_duration_seconds: latency by method and route
  - http_requests_in_flight: requests being served
  - api_rate_limit_hits_total: requests rejected by the rate limiter

EngineObserver implements recommend.Observer so the engine reports into
these collectors without importing this package.
*/
package metrics
