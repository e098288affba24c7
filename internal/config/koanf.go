// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hybridrec/config.yaml",
	"/etc/hybridrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    15 * time.Second,
			RateLimitPerMinute: 120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			Path:           "",
			ReloadInterval: time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultTopN:       3,
			MaxTopN:           50,
			Neighbors:         3,
			ContentPerProduct: 0,
			GeneratorTimeout:  5 * time.Second,
			Weights: WeightsConfig{
				LatentFactor:  0.5,
				Collaborative: 0.3,
				Content:       0.15,
			},
			Clustering: ClusteringConfig{
				UserClusters:    3,
				ProductClusters: 3,
				MaxIterations:   100,
			},
			LatentFactor: LatentFactorConfig{
				Factors:        16,
				Iterations:     15,
				Regularization: 0.1,
				Alpha:          40.0,
			},
			Diversity: DiversityConfig{Enabled: false},
		},
		Cache: CacheConfig{
			Enabled:         false,
			Backend:         "memory",
			TTL:             time.Hour,
			MaxEntries:      10000,
			CleanupInterval: 5 * time.Minute,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				DB:        0,
				KeyPrefix: "hybridrec:",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration with koanf:
//
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (if found)
//  3. Environment variables: override any mapped setting
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_ADDR -> server.addr, RECOMMEND_DEFAULT_TOP_N -> recommend.default_top_n
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_addr":             "server.addr",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"rate_limit_per_minute": "server.rate_limit_per_minute",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Data
	"data_path":            "data.path",
	"data_reload_interval": "data.reload_interval",

	// Recommendation engine
	"recommend_default_top_n":         "recommend.default_top_n",
	"recommend_max_top_n":             "recommend.max_top_n",
	"recommend_neighbors":             "recommend.neighbors",
	"recommend_content_per_product":   "recommend.content_per_product",
	"recommend_generator_timeout":     "recommend.generator_timeout",
	"recommend_weight_latent_factor":  "recommend.weights.latent_factor",
	"recommend_weight_collaborative":  "recommend.weights.collaborative",
	"recommend_weight_content":        "recommend.weights.content",
	"recommend_user_clusters":         "recommend.clustering.user_clusters",
	"recommend_product_clusters":      "recommend.clustering.product_clusters",
	"recommend_clustering_iterations": "recommend.clustering.max_iterations",
	"recommend_als_factors":           "recommend.latent_factor.factors",
	"recommend_als_iterations":        "recommend.latent_factor.iterations",
	"recommend_als_regularization":    "recommend.latent_factor.regularization",
	"recommend_als_alpha":             "recommend.latent_factor.alpha",
	"recommend_diversity_enabled":     "recommend.diversity.enabled",

	// Cache
	"cache_enabled":          "cache.enabled",
	"cache_backend":          "cache.backend",
	"cache_ttl":              "cache.ttl",
	"cache_max_entries":      "cache.max_entries",
	"cache_cleanup_interval": "cache.cleanup_interval",
	"redis_addr":             "cache.redis.addr",
	"redis_password":         "cache.redis.password",
	"redis_db":               "cache.redis.db",
	"redis_key_prefix":       "cache.redis.key_prefix",

	// Metrics
	"metrics_enabled": "metrics.enabled",
	"metrics_path":    "metrics.path",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped variables return an empty string and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
