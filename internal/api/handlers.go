// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Recommender is the engine surface the handlers depend on.
// *recommend.Engine implements it.
type Recommender interface {
	RecommendExplained(ctx context.Context, req recommend.Request) (*recommend.ExplainedResponse, error)
	AddProduct(ctx context.Context, p recommend.Product) error
	Status() recommend.Status
	GetMetrics() recommend.Metrics
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine       Recommender
	cacheBackend string
	logger       zerolog.Logger
}

// NewHandler creates a handler over the engine. cacheBackend names the
// result cache in status responses; empty means caching is disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Recommender, cacheBackend string, logger zerolog.Logger) *Handler {
	if cacheBackend == "" {
		cacheBackend = "disabled"
	}
	return &Handler{
		engine:       engine,
		cacheBackend: cacheBackend,
		logger:       logger.With().Str("component", "api").Logger(),
	}
}
