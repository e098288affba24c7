// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package cache provides the result stores behind recommend.CacheStore.

Two backends are available:

  - MemoryStore: in-process LRU with per-entry TTL and O(1) operations
  - RedisStore: shared store on Redis with JSON values and server-side TTL

Both store the final ranked items with their fused scores and per-source
contributions, plus the sources used. Keys are built by the engine and
embed the snapshot version, so entries from an older snapshot are never
read back even before Clear runs.

Selecting a backend:

	store, closeFn, err := cache.Open(ctx, cache.Config{Backend: "redis", Redis: redisCfg}, logger)

All operations are safe for concurrent use.
*/
package cache
