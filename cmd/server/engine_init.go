// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
	"github.com/tomtom215/hybridrec/internal/recommend/reranking"
)

// buildEngineConfig creates the engine configuration from app config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		Weights: recommend.SourceWeights{
			LatentFactor:  cfg.Recommend.Weights.LatentFactor,
			Collaborative: cfg.Recommend.Weights.Collaborative,
			Content:       cfg.Recommend.Weights.Content,
		},
		Limits: recommend.LimitsConfig{
			DefaultTopN: cfg.Recommend.DefaultTopN,
			MaxTopN:     cfg.Recommend.MaxTopN,
		},
		Neighbors:        cfg.Recommend.Neighbors,
		GeneratorTimeout: cfg.Recommend.GeneratorTimeout,
		Cache: recommend.CacheConfig{
			Enabled:             cfg.Cache.Enabled,
			TTL:                 cfg.Cache.TTL,
			InvalidateOnRebuild: true,
		},
	}
}

// buildDependencies wires the generators, rerankers and collaborators.
// Generators are listed in fusion order.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildDependencies(cfg *config.Config, store recommend.CacheStore, now func() time.Time, logger zerolog.Logger) recommend.Dependencies {
	similarity := algorithms.NewUserSimilarity()

	als := algorithms.NewALS(algorithms.ALSConfig{
		NumFactors:     cfg.Recommend.LatentFactor.Factors,
		NumIterations:  cfg.Recommend.LatentFactor.Iterations,
		Regularization: cfg.Recommend.LatentFactor.Regularization,
		Alpha:          cfg.Recommend.LatentFactor.Alpha,
	})

	content := algorithms.NewContentGenerator(algorithms.NewContentIndex(), cfg.Recommend.ContentPerProduct, logger)
	content.OnRebuild(func() {
		metrics.RecordRebuild("content_index")
	})

	rerankers := make([]recommend.Reranker, 0, 2)
	if cfg.Recommend.Diversity.Enabled {
		rerankers = append(rerankers, reranking.NewCategoryDiversity())
	}
	rerankers = append(rerankers, reranking.NewContextAdjuster(now))

	return recommend.Dependencies{
		Generators: []recommend.CandidateGenerator{
			algorithms.NewLatentFactorGenerator(als),
			algorithms.NewCollaborativeGenerator(similarity),
			content,
			algorithms.NewCategoryGenerator(),
			algorithms.NewClusterGenerator(),
		},
		Rerankers: rerankers,
		Peers:     similarity,
		Clusters: algorithms.NewKMeans(algorithms.KMeansConfig{
			UserClusters:    cfg.Recommend.Clustering.UserClusters,
			ProductClusters: cfg.Recommend.Clustering.ProductClusters,
			MaxIterations:   cfg.Recommend.Clustering.MaxIterations,
		}, logger),
		Cache:    store,
		Observer: metrics.NewEngineObserver(),
	}
}

// initEngine builds the engine over the initial snapshot and publishes its
// size to metrics.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(ctx context.Context, cfg *config.Config, snap *recommend.Snapshot, store recommend.CacheStore, logger zerolog.Logger) (*recommend.Engine, error) {
	logger.Info().
		Float64("weight_latent_factor", cfg.Recommend.Weights.LatentFactor).
		Float64("weight_collaborative", cfg.Recommend.Weights.Collaborative).
		Float64("weight_content", cfg.Recommend.Weights.Content).
		Bool("diversity", cfg.Recommend.Diversity.Enabled).
		Bool("cache", store != nil).
		Msg("initializing recommendation engine")

	engine, err := recommend.NewEngine(ctx, buildEngineConfig(cfg), snap, buildDependencies(cfg, store, time.Now, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	status := engine.Status()
	metrics.UpdateSnapshot(status.SnapshotVersion, status.Users, status.Products, status.Interactions)
	return engine, nil
}
