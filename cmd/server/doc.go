// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package main is the entry point for the hybridrec server.
//
// # Startup Order
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Logging: zerolog global logger
//  3. Dataset: JSON file from DATA_PATH, or the built-in demo catalog
//  4. Result cache (optional): in-process LRU or Redis
//  5. Engine: k-means clustering, user similarity, TF-IDF content index,
//     ALS latent factors, category and cluster signals, rerankers
//  6. Supervisor tree: snapshot reload service and HTTP server
//
// # Configuration
//
// Common environment variables:
//
//	HTTP_ADDR=:8080
//	LOG_LEVEL=info
//	LOG_FORMAT=json
//	DATA_PATH=/var/lib/hybridrec/dataset.json
//	RECOMMEND_DEFAULT_TOP_N=3
//	CACHE_ENABLED=true
//	CACHE_BACKEND=redis
//	REDIS_ADDR=localhost:6379
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for up to server.shutdown_timeout.
package main
