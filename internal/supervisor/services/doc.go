// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package services provides suture.Service wrappers for hybridrec components.

Each wrapper translates a component's lifecycle into suture's
context-aware Serve(ctx) error and implements fmt.Stringer so supervisor
events name the service.

HTTPServerService:
  - Wraps *http.Server (or any HTTPServer) with graceful shutdown
  - Returns nil on http.ErrServerClosed

SnapshotReloadService:
  - Polls the dataset file's modification time
  - Loads, validates and hands a changed dataset to the engine's Rebuild
  - Keeps serving the previous snapshot when a load or rebuild fails

CacheSweepService:
  - Removes expired entries from the in-process result cache on a ticker
  - Publishes the cache size and expired count to Prometheus
*/
package services
