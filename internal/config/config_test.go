// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdirTemp runs the test from an empty directory so no stray config.yaml
// is picked up, and points CONFIG_PATH nowhere.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Recommend.DefaultTopN != 3 || cfg.Recommend.MaxTopN != 50 {
		t.Errorf("top-n = %d/%d, want 3/50", cfg.Recommend.DefaultTopN, cfg.Recommend.MaxTopN)
	}
	w := cfg.Recommend.Weights
	if w.LatentFactor != 0.5 || w.Collaborative != 0.3 || w.Content != 0.15 {
		t.Errorf("weights = %+v, want 0.5/0.3/0.15", w)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if cfg.Cache.CleanupInterval != 5*time.Minute {
		t.Errorf("Cache.CleanupInterval = %v, want 5m", cfg.Cache.CleanupInterval)
	}
	if cfg.Recommend.Diversity.Enabled {
		t.Error("diversity should be disabled by default")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_ADDR", "server.addr"},
		{"LOG_LEVEL", "logging.level"},
		{"DATA_PATH", "data.path"},
		{"RECOMMEND_DEFAULT_TOP_N", "recommend.default_top_n"},
		{"RECOMMEND_WEIGHT_CONTENT", "recommend.weights.content"},
		{"RECOMMEND_ALS_FACTORS", "recommend.latent_factor.factors"},
		{"CACHE_BACKEND", "cache.backend"},
		{"CACHE_CLEANUP_INTERVAL", "cache.cleanup_interval"},
		{"REDIS_ADDR", "cache.redis.addr"},
		{"METRICS_PATH", "metrics.path"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Recommend.Clustering.UserClusters != 3 {
		t.Errorf("UserClusters = %d, want 3", cfg.Recommend.Clustering.UserClusters)
	}
}

func TestLoad_EnvVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_DEFAULT_TOP_N", "5")
	t.Setenv("RECOMMEND_WEIGHT_COLLABORATIVE", "0.4")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("RECOMMEND_DIVERSITY_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.DefaultTopN != 5 {
		t.Errorf("DefaultTopN = %d, want 5", cfg.Recommend.DefaultTopN)
	}
	if cfg.Recommend.Weights.Collaborative != 0.4 {
		t.Errorf("Weights.Collaborative = %v, want 0.4", cfg.Recommend.Weights.Collaborative)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache = %+v, want enabled with 90s ttl", cfg.Cache)
	}
	if !cfg.Recommend.Diversity.Enabled {
		t.Error("Diversity.Enabled = false, want true")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `
server:
  addr: ":7070"
  rate_limit_per_minute: 0
data:
  path: /srv/catalog.json
  reload_interval: 30s
recommend:
  max_top_n: 20
  weights:
    content: 0.25
cache:
  enabled: true
  backend: redis
  redis:
    addr: cache:6379
    db: 2
`
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Server.RateLimitPerMinute != 0 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Data.Path != "/srv/catalog.json" || cfg.Data.ReloadInterval != 30*time.Second {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if cfg.Recommend.MaxTopN != 20 || cfg.Recommend.DefaultTopN != 3 {
		t.Errorf("top-n = %d/%d, want 3/20", cfg.Recommend.DefaultTopN, cfg.Recommend.MaxTopN)
	}
	if cfg.Recommend.Weights.Content != 0.25 || cfg.Recommend.Weights.LatentFactor != 0.5 {
		t.Errorf("Weights = %+v", cfg.Recommend.Weights)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Redis.Addr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want env override 3", cfg.Cache.Redis.DB)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want config.yaml", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "addr"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "format"},
		{"zero default top n", func(c *Config) { c.Recommend.DefaultTopN = 0 }, "default_top_n"},
		{"max below default", func(c *Config) { c.Recommend.MaxTopN = 2 }, "max_top_n"},
		{"negative weight", func(c *Config) { c.Recommend.Weights.Content = -0.1 }, "content"},
		{"all weights zero", func(c *Config) { c.Recommend.Weights = WeightsConfig{} }, "weights"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "backend"},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.Redis.Addr = " "
		}, "cache.redis.addr"},
		{"negative reload", func(c *Config) { c.Data.ReloadInterval = -time.Second }, "reload_interval"},
		{"negative cache cleanup", func(c *Config) { c.Cache.CleanupInterval = -time.Second }, "cleanup_interval"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
