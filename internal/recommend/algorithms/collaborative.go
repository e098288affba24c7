// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// CollaborativeGenerator recommends what the most similar users interacted
// with. Up to topN peers with positive similarity are considered; their
// weights are summed per product and products the user already touched are
// skipped.
type CollaborativeGenerator struct {
	sim *UserSimilarity
}

// NewCollaborativeGenerator creates a generator over a user similarity index.
func NewCollaborativeGenerator(sim *UserSimilarity) *CollaborativeGenerator {
	return &CollaborativeGenerator{sim: sim}
}

// Name returns the source name.
func (g *CollaborativeGenerator) Name() string {
	return recommend.SourceCollaborative
}

// Refresh rebuilds the similarity index for the snapshot.
func (g *CollaborativeGenerator) Refresh(ctx context.Context, snap *recommend.Snapshot) error {
	if err := g.sim.Build(ctx, snap); err != nil {
		return fmt.Errorf("build user similarity: %w", err)
	}
	return nil
}

// Generate returns up to topN products ranked by the peers' summed weight.
// Users without interactions or without positively similar peers get an
// empty list.
func (g *CollaborativeGenerator) Generate(ctx context.Context, snap *recommend.Snapshot, userID, topN int) ([]int, error) {
	own := snap.Interacted(userID)
	if len(own) == 0 {
		return nil, nil
	}

	peers, err := g.sim.Peers(ctx, snap, userID, topN)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return nil, nil
	}

	scores := make(map[int]float64)
	for _, peer := range peers {
		for pid, w := range snap.Weights(peer.ID) {
			if _, seen := own[pid]; seen {
				continue
			}
			scores[pid] += w
		}
	}

	return truncate(rankByScore(scores), topN), nil
}
