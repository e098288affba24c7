// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/hybridrec/internal/api"
	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/catalog"
	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/supervisor"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Str("data_path", cfg.Data.Path).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting hybridrec")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := catalog.LoadSnapshot(cfg.Data.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Data.Path).Msg("Failed to load dataset")
	}
	if cfg.Data.Path == "" {
		logging.Info().Msg("No data path configured, serving the built-in demo catalog")
	}

	var (
		store        recommend.CacheStore
		expiring     services.ExpiringCache
		cacheBackend string
	)
	if cfg.Cache.Enabled {
		s, closeCache, err := cache.Open(ctx, cache.Config{
			Backend:    cfg.Cache.Backend,
			MaxEntries: cfg.Cache.MaxEntries,
			Redis: cache.RedisConfig{
				Addr:      cfg.Cache.Redis.Addr,
				Password:  cfg.Cache.Redis.Password,
				DB:        cfg.Cache.Redis.DB,
				KeyPrefix: cfg.Cache.Redis.KeyPrefix,
			},
		}, logging.WithComponent("cache"))
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open result cache")
		}
		defer func() {
			if err := closeCache(); err != nil {
				logging.Err(err).Msg("Error closing result cache")
			}
		}()
		store = s
		cacheBackend = cfg.Cache.Backend
		if e, ok := s.(services.ExpiringCache); ok {
			expiring = e
		}
	}

	engine, err := initEngine(ctx, cfg, snap, store, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	logging.Info().Int64("snapshot_version", engine.Status().SnapshotVersion).Msg("Recommendation engine ready")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Data.Path != "" && cfg.Data.ReloadInterval > 0 {
		tree.AddEngineService(services.NewSnapshotReloadService(engine, services.SnapshotReloadConfig{
			Path:     cfg.Data.Path,
			Interval: cfg.Data.ReloadInterval,
		}, logger))
	}

	if expiring != nil && cfg.Cache.CleanupInterval > 0 {
		tree.AddEngineService(services.NewCacheSweepService(expiring, cfg.Cache.CleanupInterval, logger))
		logging.Debug().Dur("interval", cfg.Cache.CleanupInterval).Msg("Result cache sweep enabled")
	}

	handler := api.NewHandler(engine, cacheBackend, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		MetricsEnabled:     cfg.Metrics.Enabled,
		MetricsPath:        cfg.Metrics.Path,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", cfg.Server.Addr).Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
