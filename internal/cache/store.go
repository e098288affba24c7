// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Store persists final recommendation results.
type Store interface {
	Set(ctx context.Context, key string, result recommend.CachedResult, ttl time.Duration) error
	Get(ctx context.Context, key string) (recommend.CachedResult, bool, error)
	Clear(ctx context.Context) error
}

// Config selects and sizes a backend.
type Config struct {
	// Backend is memory or redis. Default: memory.
	Backend string

	// MaxEntries bounds the memory backend.
	MaxEntries int

	// Redis is used when Backend is redis.
	Redis RedisConfig
}

// Open creates the configured store. The returned close function releases
// backend connections and is never nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", BackendMemory:
		logger.Info().Int("max_entries", cfg.MaxEntries).Msg("using in-memory result cache")
		return NewMemoryStore(cfg.MaxEntries), noop, nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("using redis result cache")
		return NewRedisStore(client, cfg.Redis.KeyPrefix), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
