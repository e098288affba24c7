// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// baseModel provides snapshot binding and locking for derived structures.
type baseModel struct {
	name    string
	built   bool
	version int64
	builtAt time.Time
	mu      sync.RWMutex
}

// newBaseModel creates a base model with the given name.
func newBaseModel(name string) baseModel {
	return baseModel{name: name}
}

// Name returns the model identifier.
func (b *baseModel) Name() string {
	return b.name
}

// IsBuilt returns whether the model has been built.
func (b *baseModel) IsBuilt() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.built
}

// SnapshotVersion returns the version of the snapshot the model was built from.
func (b *baseModel) SnapshotVersion() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// BuiltAt returns when the model was last built.
func (b *baseModel) BuiltAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.builtAt
}

// markBuilt records the snapshot the model now reflects.
// Must be called while holding the build lock.
func (b *baseModel) markBuilt(version int64) {
	b.built = true
	b.version = version
	b.builtAt = time.Now()
}

// checkSnapshot reports ErrStaleModel unless the model reflects snap.
// Must be called while holding at least the lookup lock.
func (b *baseModel) checkSnapshot(snap *recommend.Snapshot) error {
	if !b.built || b.version != snap.Version() {
		return fmt.Errorf("%s: %w (built %d, requested %d)", b.name, recommend.ErrStaleModel, b.version, snap.Version())
	}
	return nil
}

// acquireBuildLock acquires the exclusive build lock.
func (b *baseModel) acquireBuildLock() {
	b.mu.Lock()
}

// releaseBuildLock releases the exclusive build lock.
func (b *baseModel) releaseBuildLock() {
	b.mu.Unlock()
}

// acquireLookupLock acquires the shared lookup lock.
func (b *baseModel) acquireLookupLock() {
	b.mu.RLock()
}

// releaseLookupLock releases the shared lookup lock.
func (b *baseModel) releaseLookupLock() {
	b.mu.RUnlock()
}

// rankByScore returns IDs ordered by score descending, ties by ascending ID.
func rankByScore(scores map[int]float64) []int {
	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]], scores[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// sortNeighbors orders neighbours by similarity descending, ties by
// ascending ID.
func sortNeighbors(ns []recommend.Neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Similarity != ns[j].Similarity {
			return ns[i].Similarity > ns[j].Similarity
		}
		return ns[i].ID < ns[j].ID
	})
}

// truncate returns at most k leading elements. Non-positive k keeps all.
func truncate[T any](s []T, k int) []T {
	if k > 0 && len(s) > k {
		return s[:k]
	}
	return s
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure generators and collaborators implement their interfaces.
var (
	_ recommend.CandidateGenerator    = (*LatentFactorGenerator)(nil)
	_ recommend.CandidateGenerator    = (*CollaborativeGenerator)(nil)
	_ recommend.CandidateGenerator    = (*ContentGenerator)(nil)
	_ recommend.CandidateGenerator    = (*CategoryGenerator)(nil)
	_ recommend.CandidateGenerator    = (*ClusterGenerator)(nil)
	_ recommend.Refresher             = (*LatentFactorGenerator)(nil)
	_ recommend.Refresher             = (*CollaborativeGenerator)(nil)
	_ recommend.Refresher             = (*ContentGenerator)(nil)
	_ recommend.SimilarityEngine      = (*UserSimilarity)(nil)
	_ recommend.SimilarityEngine      = (*ContentIndex)(nil)
	_ recommend.PeerFinder            = (*UserSimilarity)(nil)
	_ recommend.LatentFactorPredictor = (*ALS)(nil)
	_ recommend.ClusterProvider       = (*KMeans)(nil)
)
