// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// UserSimilarity computes cosine similarity between users' rows of the
// user-item weight matrix. Users without interactions have an all-zero row
// and are similar to nobody.
type UserSimilarity struct {
	baseModel

	// known holds every user in the snapshot.
	known map[int]struct{}

	// active holds users with at least one interaction.
	active map[int]struct{}

	// sims holds the positive similarities of each user pair.
	sims map[int]map[int]float64

	// neighbors lists each user's positively similar users, self excluded,
	// by similarity descending and ID ascending.
	neighbors map[int][]recommend.Neighbor
}

// NewUserSimilarity creates an empty user similarity index.
func NewUserSimilarity() *UserSimilarity {
	return &UserSimilarity{
		baseModel: newBaseModel("user_similarity"),
		known:     make(map[int]struct{}),
		active:    make(map[int]struct{}),
		sims:      make(map[int]map[int]float64),
		neighbors: make(map[int][]recommend.Neighbor),
	}
}

// sparseRow is a user's weight row with products in ascending ID order so
// sums are accumulated in a fixed order.
type sparseRow struct {
	ids     []int
	weights map[int]float64
	norm    float64
}

// Build computes all pairwise similarities for the snapshot.
func (s *UserSimilarity) Build(ctx context.Context, snap *recommend.Snapshot) error {
	s.acquireBuildLock()
	defer s.releaseBuildLock()

	users := snap.Users()
	known := make(map[int]struct{}, len(users))
	userIDs := make([]int, 0, len(users))
	rows := make(map[int]sparseRow, len(users))

	for _, u := range users {
		known[u.ID] = struct{}{}
		weights := snap.Weights(u.ID)
		if len(weights) == 0 {
			continue
		}
		row := sparseRow{weights: weights}
		for pid := range weights {
			row.ids = append(row.ids, pid)
		}
		sort.Ints(row.ids)
		var sumSq float64
		for _, pid := range row.ids {
			sumSq += weights[pid] * weights[pid]
		}
		row.norm = math.Sqrt(sumSq)
		rows[u.ID] = row
		userIDs = append(userIDs, u.ID)
	}
	sort.Ints(userIDs)

	sims := make(map[int]map[int]float64, len(userIDs))
	for i, a := range userIDs {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		for _, b := range userIDs[i+1:] {
			sim := rowCosine(rows[a], rows[b])
			if sim <= 0 {
				continue
			}
			if sims[a] == nil {
				sims[a] = make(map[int]float64)
			}
			if sims[b] == nil {
				sims[b] = make(map[int]float64)
			}
			sims[a][b] = sim
			sims[b][a] = sim
		}
	}

	neighbors := make(map[int][]recommend.Neighbor, len(sims))
	for id, row := range sims {
		ns := make([]recommend.Neighbor, 0, len(row))
		for other, sim := range row {
			ns = append(ns, recommend.Neighbor{ID: other, Similarity: sim})
		}
		sortNeighbors(ns)
		neighbors[id] = ns
	}

	active := make(map[int]struct{}, len(userIDs))
	for _, id := range userIDs {
		active[id] = struct{}{}
	}

	s.known = known
	s.active = active
	s.sims = sims
	s.neighbors = neighbors
	s.markBuilt(snap.Version())
	return nil
}

// rowCosine computes the cosine of two sparse rows.
func rowCosine(a, b sparseRow) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}
	if len(b.ids) < len(a.ids) {
		a, b = b, a
	}
	var dot float64
	for _, pid := range a.ids {
		dot += a.weights[pid] * b.weights[pid]
	}
	return dot / (a.norm * b.norm)
}

// Similarity returns the cosine similarity of two users.
func (s *UserSimilarity) Similarity(a, b int) (float64, error) {
	s.acquireLookupLock()
	defer s.releaseLookupLock()

	if err := s.checkKnown(a); err != nil {
		return 0, err
	}
	if err := s.checkKnown(b); err != nil {
		return 0, err
	}
	if a == b {
		if _, ok := s.active[a]; ok {
			return 1, nil
		}
		return 0, nil
	}
	return s.sims[a][b], nil
}

// MostSimilar returns up to k positively similar users, self excluded.
// Non-positive k returns all of them.
func (s *UserSimilarity) MostSimilar(id, k int) ([]recommend.Neighbor, error) {
	s.acquireLookupLock()
	defer s.releaseLookupLock()

	if err := s.checkKnown(id); err != nil {
		return nil, err
	}
	ns := truncate(s.neighbors[id], k)
	return append([]recommend.Neighbor(nil), ns...), nil
}

// Peers returns up to k positively similar users for a snapshot the index
// was built from.
func (s *UserSimilarity) Peers(_ context.Context, snap *recommend.Snapshot, userID, k int) ([]recommend.Neighbor, error) {
	s.acquireLookupLock()
	if err := s.checkSnapshot(snap); err != nil {
		s.releaseLookupLock()
		return nil, err
	}
	s.releaseLookupLock()

	return s.MostSimilar(userID, k)
}

// checkKnown must be called with the lookup lock held.
func (s *UserSimilarity) checkKnown(id int) error {
	if _, ok := s.known[id]; !ok {
		return fmt.Errorf("%w: %d", recommend.ErrUserNotFound, id)
	}
	return nil
}
