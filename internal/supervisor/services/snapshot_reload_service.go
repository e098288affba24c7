// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/catalog"
	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// SnapshotEngine is the engine surface the reload service drives.
type SnapshotEngine interface {
	Rebuild(ctx context.Context, snap *recommend.Snapshot) error
	Status() recommend.Status
}

// SnapshotReloadConfig holds reload service settings.
type SnapshotReloadConfig struct {
	// Path is the dataset file to watch. Empty disables reloading.
	Path string

	// Interval is how often the file's modification time is checked.
	// Default: 1m
	Interval time.Duration

	// RebuildTimeout bounds a single load and rebuild.
	// Default: 5m
	RebuildTimeout time.Duration
}

// SnapshotReloadService rebuilds the engine when the dataset file changes.
type SnapshotReloadService struct {
	engine SnapshotEngine
	config SnapshotReloadConfig
	logger zerolog.Logger
	name   string

	load    func(path string) (*recommend.Snapshot, error)
	modTime func(path string) (time.Time, error)

	// lastModTime is the modification time of the last file handed to the
	// engine. Only the Serve goroutine touches it after construction.
	lastModTime time.Time
}

// NewSnapshotReloadService creates the service. The file's current
// modification time is the baseline, since the engine was built from it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotReloadService(engine SnapshotEngine, cfg SnapshotReloadConfig, logger zerolog.Logger) *SnapshotReloadService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 5 * time.Minute
	}

	s := &SnapshotReloadService{
		engine:  engine,
		config:  cfg,
		logger:  logger.With().Str("service", "snapshot-reload").Logger(),
		name:    "snapshot-reload",
		load:    catalog.LoadSnapshot,
		modTime: fileModTime,
	}
	if cfg.Path != "" {
		if mt, err := s.modTime(cfg.Path); err == nil {
			s.lastModTime = mt
		}
	}
	return s
}

// Serve implements suture.Service.
func (s *SnapshotReloadService) Serve(ctx context.Context) error {
	if s.config.Path == "" {
		s.logger.Info().Msg("no data file configured, snapshot reload disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().
		Str("path", s.config.Path).
		Dur("interval", s.config.Interval).
		Msg("snapshot reload service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.checkAndReload(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("snapshot reload failed, keeping current snapshot")
			}
		}
	}
}

// checkAndReload rebuilds the engine if the file changed since the last
// attempt. A failed attempt is not retried until the file changes again.
func (s *SnapshotReloadService) checkAndReload(ctx context.Context) (bool, error) {
	mt, err := s.modTime(s.config.Path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.config.Path, err)
	}
	if mt.Equal(s.lastModTime) {
		return false, nil
	}
	s.lastModTime = mt

	err = s.reload(ctx)
	metrics.RecordSnapshotReload(err)
	if err != nil {
		return false, err
	}

	status := s.engine.Status()
	metrics.UpdateSnapshot(status.SnapshotVersion, status.Users, status.Products, status.Interactions)

	s.logger.Info().
		Int64("version", status.SnapshotVersion).
		Time("modified", mt).
		Msg("snapshot reloaded")
	return true, nil
}

func (s *SnapshotReloadService) reload(ctx context.Context) error {
	snap, err := s.load(s.config.Path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.RebuildTimeout)
	defer cancel()

	if err := s.engine.Rebuild(rebuildCtx, snap); err != nil {
		return fmt.Errorf("rebuild engine: %w", err)
	}
	return nil
}

// String implements fmt.Stringer for supervisor events.
func (s *SnapshotReloadService) String() string {
	return s.name
}

func fileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
