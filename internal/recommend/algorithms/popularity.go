// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// ClusterGenerator recommends the popular products of the user's cluster.
//
// Products are ranked by how many interaction records reference them,
// ties by ascending ID. Products nobody interacted with follow at the tail.
// The list is not truncated to topN.
type ClusterGenerator struct{}

// NewClusterGenerator creates a cluster popularity generator.
func NewClusterGenerator() *ClusterGenerator {
	return &ClusterGenerator{}
}

// Name returns the source name.
func (g *ClusterGenerator) Name() string {
	return recommend.SourceCluster
}

// Generate returns the user's cluster products by popularity.
func (g *ClusterGenerator) Generate(_ context.Context, snap *recommend.Snapshot, userID, _ int) ([]int, error) {
	u, ok := snap.User(userID)
	if !ok || u.Cluster == recommend.NoCluster {
		return nil, nil
	}
	return snap.PopularInCluster(u.Cluster), nil
}

// CategoryGenerator recommends every catalog product whose category the
// user has interacted with, in catalog order. The list is not truncated
// to topN.
type CategoryGenerator struct{}

// NewCategoryGenerator creates a category match generator.
func NewCategoryGenerator() *CategoryGenerator {
	return &CategoryGenerator{}
}

// Name returns the source name.
func (g *CategoryGenerator) Name() string {
	return recommend.SourceCategory
}

// Generate returns the catalog products in the user's categories.
func (g *CategoryGenerator) Generate(_ context.Context, snap *recommend.Snapshot, userID, _ int) ([]int, error) {
	categories := snap.Categories(userID)
	if len(categories) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	var out []int
	for _, p := range snap.Products() {
		if _, ok := wanted[p.Category]; ok {
			out = append(out, p.ID)
		}
	}
	return out, nil
}
