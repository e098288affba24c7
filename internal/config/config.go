// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: :8080
	Addr string `koanf:"addr" validate:"required"`

	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// RateLimitPerMinute is the per-IP request limit for /api/v1.
	// Zero disables rate limiting.
	// Default: 120
	RateLimitPerMinute int `koanf:"rate_limit_per_minute" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format: json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller adds file:line to every entry.
	Caller bool `koanf:"caller"`
}

// DataConfig locates the catalog dataset.
type DataConfig struct {
	// Path is the JSON dataset file. Empty serves the built-in demo catalog.
	Path string `koanf:"path"`

	// ReloadInterval is how often the dataset file is checked for changes.
	// Zero disables reloading.
	// Default: 1m
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`
}

// RecommendConfig holds engine and algorithm settings.
type RecommendConfig struct {
	// DefaultTopN is used when a request does not ask for a size.
	DefaultTopN int `koanf:"default_top_n" validate:"gt=0"`

	// MaxTopN caps the requested size.
	MaxTopN int `koanf:"max_top_n" validate:"gtefield=DefaultTopN"`

	// Neighbors is the number of similar users consulted for explanations.
	Neighbors int `koanf:"neighbors" validate:"gt=0"`

	// ContentPerProduct bounds content neighbours per history product.
	// Zero uses the request size.
	ContentPerProduct int `koanf:"content_per_product" validate:"gte=0"`

	// GeneratorTimeout bounds a single candidate generator call.
	GeneratorTimeout time.Duration `koanf:"generator_timeout" validate:"gt=0"`

	Weights      WeightsConfig      `koanf:"weights"`
	Clustering   ClusteringConfig   `koanf:"clustering"`
	LatentFactor LatentFactorConfig `koanf:"latent_factor"`
	Diversity    DiversityConfig    `koanf:"diversity"`
}

// WeightsConfig holds the fusion weight of each signal. Category match and
// cluster popularity use the content weight.
type WeightsConfig struct {
	LatentFactor  float64 `koanf:"latent_factor" validate:"gte=0"`
	Collaborative float64 `koanf:"collaborative" validate:"gte=0"`
	Content       float64 `koanf:"content" validate:"gte=0"`
}

// ClusteringConfig holds k-means settings.
type ClusteringConfig struct {
	UserClusters    int `koanf:"user_clusters" validate:"gt=0"`
	ProductClusters int `koanf:"product_clusters" validate:"gt=0"`
	MaxIterations   int `koanf:"max_iterations" validate:"gt=0"`
}

// LatentFactorConfig holds ALS settings.
type LatentFactorConfig struct {
	Factors        int     `koanf:"factors" validate:"gt=0"`
	Iterations     int     `koanf:"iterations" validate:"gt=0"`
	Regularization float64 `koanf:"regularization" validate:"gt=0"`
	Alpha          float64 `koanf:"alpha" validate:"gt=0"`
}

// DiversityConfig toggles the category diversity reranker.
type DiversityConfig struct {
	// Enabled applies category diversity before context adjustment.
	// Default: false
	Enabled bool `koanf:"enabled"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	// Enabled turns on read-through caching of final results.
	// Default: false
	Enabled bool `koanf:"enabled"`

	// Backend is memory or redis.
	Backend string `koanf:"backend" validate:"oneof=memory redis"`

	// TTL is the entry lifetime.
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`

	// MaxEntries bounds the memory backend.
	MaxEntries int `koanf:"max_entries" validate:"gt=0"`

	// CleanupInterval is how often the memory backend drops expired
	// entries. Zero disables the sweep.
	// Default: 5m
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"gte=0"`

	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db" validate:"gte=0"`
	KeyPrefix string `koanf:"key_prefix"`
}

// MetricsConfig holds Prometheus export settings.
type MetricsConfig struct {
	// Enabled serves metrics on Path.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// Path is the scrape endpoint.
	// Default: /metrics
	Path string `koanf:"path" validate:"startswith=/"`
}
