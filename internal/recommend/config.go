// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Source names used by the built-in generators. The engine maps each to a
// source weight.
const (
	SourceLatentFactor  = "latent_factor"
	SourceCollaborative = "collaborative"
	SourceContent       = "content"
	SourceCategory      = "category"
	SourceCluster       = "cluster"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines each source's contribution to the fused score.
	// Weights are applied as-is, without normalization.
	Weights SourceWeights `json:"weights"`

	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Neighbors is the number of similar users considered for
	// explanations. Default: 3.
	Neighbors int `json:"neighbors"`

	// GeneratorTimeout bounds a single generator call.
	// Default: 5s.
	GeneratorTimeout time.Duration `json:"generator_timeout"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// SourceWeights defines the weight of each candidate source.
//
// Category match and cluster popularity are secondary signals and share the
// content weight.
type SourceWeights struct {
	// LatentFactor is the weight for latent-factor predictions.
	LatentFactor float64 `json:"latent_factor"`

	// Collaborative is the weight for user-based collaborative filtering.
	Collaborative float64 `json:"collaborative"`

	// Content is the weight for content similarity, category match and
	// cluster popularity.
	Content float64 `json:"content"`
}

// For returns the weight for a source name. Unknown sources weigh zero.
func (w SourceWeights) For(source string) float64 {
	switch source {
	case SourceLatentFactor:
		return w.LatentFactor
	case SourceCollaborative:
		return w.Collaborative
	case SourceContent, SourceCategory, SourceCluster:
		return w.Content
	default:
		return 0
	}
}

// ToMap returns the per-source weights keyed by source name.
func (w SourceWeights) ToMap() map[string]float64 {
	return map[string]float64{
		SourceLatentFactor:  w.LatentFactor,
		SourceCollaborative: w.Collaborative,
		SourceContent:       w.Content,
		SourceCategory:      w.Content,
		SourceCluster:       w.Content,
	}
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// DefaultTopN is used when a request does not set TopN.
	// Default: 3.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps TopN.
	// Default: 50.
	MaxTopN int `json:"max_top_n"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether final results are cached.
	// Default: false.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 1h.
	TTL time.Duration `json:"ttl"`

	// InvalidateOnRebuild clears the cache after a snapshot swap.
	// Default: true.
	InvalidateOnRebuild bool `json:"invalidate_on_rebuild"`
}

// DefaultConfig returns a Config with the documented fusion weights.
func DefaultConfig() *Config {
	return &Config{
		Weights: SourceWeights{
			LatentFactor:  0.5,
			Collaborative: 0.3,
			Content:       0.15,
		},
		Limits: LimitsConfig{
			DefaultTopN: 3,
			MaxTopN:     50,
		},
		Neighbors:        3,
		GeneratorTimeout: 5 * time.Second,
		Cache: CacheConfig{
			Enabled:             false,
			TTL:                 time.Hour,
			InvalidateOnRebuild: true,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.LatentFactor < 0 {
		return fmt.Errorf("%w: weights.latent_factor must be non-negative, got %f", ErrInvalidConfig, c.Weights.LatentFactor)
	}
	if c.Weights.Collaborative < 0 {
		return fmt.Errorf("%w: weights.collaborative must be non-negative, got %f", ErrInvalidConfig, c.Weights.Collaborative)
	}
	if c.Weights.Content < 0 {
		return fmt.Errorf("%w: weights.content must be non-negative, got %f", ErrInvalidConfig, c.Weights.Content)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("%w: limits.default_top_n must be positive, got %d", ErrInvalidConfig, c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("%w: limits.max_top_n must be >= limits.default_top_n, got %d < %d", ErrInvalidConfig, c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}

	if c.Neighbors < 1 {
		return fmt.Errorf("%w: neighbors must be positive, got %d", ErrInvalidConfig, c.Neighbors)
	}
	if c.GeneratorTimeout <= 0 {
		return fmt.Errorf("%w: generator_timeout must be positive, got %v", ErrInvalidConfig, c.GeneratorTimeout)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache.ttl must be positive when caching is enabled, got %v", ErrInvalidConfig, c.Cache.TTL)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs are value types.
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		GeneratorTimeout string `json:"generator_timeout"`
		Cache            struct {
			Enabled             bool   `json:"enabled"`
			TTL                 string `json:"ttl"`
			InvalidateOnRebuild bool   `json:"invalidate_on_rebuild"`
		} `json:"cache"`
	}{
		Alias:            (*Alias)(c),
		GeneratorTimeout: c.GeneratorTimeout.String(),
		Cache: struct {
			Enabled             bool   `json:"enabled"`
			TTL                 string `json:"ttl"`
			InvalidateOnRebuild bool   `json:"invalidate_on_rebuild"`
		}{
			Enabled:             c.Cache.Enabled,
			TTL:                 c.Cache.TTL.String(),
			InvalidateOnRebuild: c.Cache.InvalidateOnRebuild,
		},
	})
}
