// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// ContentGenerator recommends products whose tags and category resemble
// the products the user interacted with.
//
// For each product in the user's history, in first-interaction order, it
// takes that product's most similar neighbours and appends them. A product
// reached from several history entries keeps its first position.
//
// The index is rebuilt synchronously when it was built from another
// snapshot or a lookup misses. Concurrent requests wait for the rebuild.
// The engine also refreshes it on every snapshot swap.
type ContentGenerator struct {
	index      *ContentIndex
	perProduct int
	logger     zerolog.Logger

	rebuildMu sync.Mutex
	rebuilds  atomic.Int64
	onRebuild func()
}

// NewContentGenerator creates a generator over a content index.
// perProduct bounds the neighbours taken per history product; zero uses
// the request's topN.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewContentGenerator(index *ContentIndex, perProduct int, logger zerolog.Logger) *ContentGenerator {
	return &ContentGenerator{
		index:      index,
		perProduct: perProduct,
		logger:     logger.With().Str("component", "content_generator").Logger(),
	}
}

// OnRebuild registers a callback invoked after every index rebuild.
func (g *ContentGenerator) OnRebuild(fn func()) {
	g.onRebuild = fn
}

// Name returns the source name.
func (g *ContentGenerator) Name() string {
	return recommend.SourceContent
}

// Rebuilds returns how many times the generator rebuilt its index.
func (g *ContentGenerator) Rebuilds() int64 {
	return g.rebuilds.Load()
}

// Refresh rebuilds the index for a new snapshot.
func (g *ContentGenerator) Refresh(ctx context.Context, snap *recommend.Snapshot) error {
	return g.rebuild(ctx, snap, "snapshot swapped")
}

// Generate returns the concatenated neighbour lists of the user's products.
func (g *ContentGenerator) Generate(ctx context.Context, snap *recommend.Snapshot, userID, topN int) ([]int, error) {
	history := snap.History(userID)
	if len(history) == 0 {
		return nil, nil
	}

	if !g.index.Covers(snap) {
		if err := g.rebuild(ctx, snap, "snapshot changed"); err != nil {
			return nil, err
		}
	}

	k := g.perProduct
	if k <= 0 {
		k = topN
	}

	seen := make(map[int]struct{})
	var out []int
	for _, pid := range history {
		neighbors, err := g.similar(ctx, snap, pid, k)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			out = append(out, n.ID)
		}
	}
	return out, nil
}

// similar looks up a product's neighbours, rebuilding the index once if
// the product is missing from it.
func (g *ContentGenerator) similar(ctx context.Context, snap *recommend.Snapshot, productID, k int) ([]recommend.Neighbor, error) {
	neighbors, err := g.index.MostSimilar(productID, k)
	if err == nil {
		return neighbors, nil
	}
	if !errors.Is(err, recommend.ErrProductNotIndexed) {
		return nil, err
	}

	if err := g.rebuild(ctx, snap, "product not indexed"); err != nil {
		return nil, err
	}
	return g.index.MostSimilar(productID, k)
}

// rebuild re-indexes the snapshot's catalog. Callers racing on the same
// snapshot rebuild once.
func (g *ContentGenerator) rebuild(ctx context.Context, snap *recommend.Snapshot, reason string) error {
	g.rebuildMu.Lock()
	defer g.rebuildMu.Unlock()

	if g.index.IsBuilt() && g.index.SnapshotVersion() == snap.Version() {
		return nil
	}

	if err := g.index.Build(ctx, snap); err != nil {
		return fmt.Errorf("rebuild content index: %w", err)
	}
	g.rebuilds.Add(1)
	if g.onRebuild != nil {
		g.onRebuild()
	}

	g.logger.Info().
		Str("reason", reason).
		Int64("snapshot_version", snap.Version()).
		Int("products", g.index.Size()).
		Msg("content index rebuilt")
	return nil
}
