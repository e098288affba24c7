// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// ExpiringCache is a result cache that drops expired entries on demand.
// cache.MemoryStore implements it; Redis expires keys itself.
type ExpiringCache interface {
	CleanupExpired() int
	Len() int
}

// CacheSweepService periodically removes expired result cache entries.
type CacheSweepService struct {
	cache    ExpiringCache
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheSweepService creates the service. A non-positive interval
// defaults to 5m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheSweepService(cache ExpiringCache, interval time.Duration, logger zerolog.Logger) *CacheSweepService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheSweepService{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("service", "cache-sweep").Logger(),
		name:     "cache-sweep",
	}
}

// Serve implements suture.Service.
func (s *CacheSweepService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("cache sweep service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache sweep service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes expired entries and returns how many were removed.
func (s *CacheSweepService) sweep() int {
	removed := s.cache.CleanupExpired()
	remaining := s.cache.Len()
	metrics.RecordCacheSweep(removed, remaining)

	if removed > 0 {
		s.logger.Debug().
			Int("removed", removed).
			Int("remaining", remaining).
			Msg("expired cache entries removed")
	}
	return removed
}

// String implements fmt.Stringer for supervisor events.
func (s *CacheSweepService) String() string {
	return s.name
}
