// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints:

	GET  /api/v1/health/live                        process is up
	GET  /api/v1/health/ready                       a snapshot is loaded
	GET  /api/v1/recommendations/user/{userID}?k=N  ranked products with reasons
	GET  /api/v1/recommendations/status             snapshot summary and counters
	POST /api/v1/products                           add a product to the catalog
	GET  /metrics                                   Prometheus exposition (optional)

Every JSON response uses the APIResponse envelope:

	{
	  "status": "success" | "error",
	  "data": ...,
	  "metadata": {"timestamp": ..., "query_time_ms": ..., "request_id": ...},
	  "error": {"code": ..., "message": ..., "details": {...}}
	}

Engine errors map to HTTP status codes as follows:

  - recommend.ErrUserNotFound: 404 USER_NOT_FOUND
  - malformed path or query parameters: 400 INVALID_USER_ID / VALIDATION_ERROR
  - invalid product bodies: 400 VALIDATION_ERROR
  - duplicate products: 409 PRODUCT_EXISTS
  - anything else: 500 INTERNAL_ERROR
*/
package api
