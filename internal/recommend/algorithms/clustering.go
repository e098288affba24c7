// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// KMeansConfig contains configuration for cluster assignment.
type KMeansConfig struct {
	// UserClusters is the number of user clusters. Capped at the number of
	// distinct user vectors.
	UserClusters int

	// ProductClusters is the number of product clusters. Capped at the
	// number of distinct product vectors.
	ProductClusters int

	// MaxIterations bounds the assignment/update loop.
	MaxIterations int
}

// DefaultKMeansConfig returns default clustering configuration.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		UserClusters:    3,
		ProductClusters: 3,
		MaxIterations:   100,
	}
}

// KMeans labels users by their user-item weight rows and products by
// one-hot tag vectors.
//
// Points are taken in ascending ID order. The first k distinct points seed
// the centroids, distance ties go to the lower centroid and labels are
// renumbered by first appearance, so the same snapshot always yields the
// same labels.
type KMeans struct {
	config KMeansConfig
	logger zerolog.Logger
}

// NewKMeans creates a cluster provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewKMeans(cfg KMeansConfig, logger zerolog.Logger) *KMeans {
	defaults := DefaultKMeansConfig()
	if cfg.UserClusters <= 0 {
		cfg.UserClusters = defaults.UserClusters
	}
	if cfg.ProductClusters <= 0 {
		cfg.ProductClusters = defaults.ProductClusters
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaults.MaxIterations
	}
	return &KMeans{
		config: cfg,
		logger: logger.With().Str("component", "clustering").Logger(),
	}
}

// AssignClusters returns a new snapshot with every user and product labelled.
func (k *KMeans) AssignClusters(ctx context.Context, snap *recommend.Snapshot) (*recommend.Snapshot, error) {
	userIDs, userPoints := userVectors(snap)
	userLabels, err := k.fit(ctx, userPoints, k.config.UserClusters)
	if err != nil {
		return nil, fmt.Errorf("cluster users: %w", err)
	}

	productIDs, productPoints := productVectors(snap)
	productLabels, err := k.fit(ctx, productPoints, k.config.ProductClusters)
	if err != nil {
		return nil, fmt.Errorf("cluster products: %w", err)
	}

	users := make(map[int]int, len(userIDs))
	for i, id := range userIDs {
		users[id] = userLabels[i]
	}
	products := make(map[int]int, len(productIDs))
	for i, id := range productIDs {
		products[id] = productLabels[i]
	}

	next, err := snap.WithClusters(users, products)
	if err != nil {
		return nil, err
	}

	k.logger.Info().
		Int64("snapshot_version", next.Version()).
		Int("users", len(userIDs)).
		Int("products", len(productIDs)).
		Msg("clusters assigned")
	return next, nil
}

// userVectors returns users in ascending ID order with their weight rows
// over every interacted product.
func userVectors(snap *recommend.Snapshot) ([]int, [][]float64) {
	users := snap.Users()
	ids := make([]int, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	sort.Ints(ids)

	colSet := make(map[int]struct{})
	for _, id := range ids {
		for pid := range snap.Weights(id) {
			colSet[pid] = struct{}{}
		}
	}
	cols := make([]int, 0, len(colSet))
	for pid := range colSet {
		cols = append(cols, pid)
	}
	sort.Ints(cols)

	points := make([][]float64, len(ids))
	for i, id := range ids {
		row := snap.Weights(id)
		v := make([]float64, len(cols))
		for j, pid := range cols {
			v[j] = row[pid]
		}
		points[i] = v
	}
	return ids, points
}

// productVectors returns products in ascending ID order with one-hot tag
// vectors.
func productVectors(snap *recommend.Snapshot) ([]int, [][]float64) {
	products := snap.Products()
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	tagSet := make(map[string]struct{})
	for i := range products {
		for _, t := range products[i].Tags {
			tagSet[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	col := make(map[string]int, len(tags))
	for i, t := range tags {
		col[t] = i
	}

	ids := make([]int, len(products))
	points := make([][]float64, len(products))
	for i := range products {
		ids[i] = products[i].ID
		v := make([]float64, len(tags))
		for _, t := range products[i].Tags {
			v[col[t]] = 1
		}
		points[i] = v
	}
	return ids, points
}

// fit runs k-means and returns one label per point.
func (k *KMeans) fit(ctx context.Context, points [][]float64, clusters int) ([]int, error) {
	labels := make([]int, len(points))
	centroids := seedCentroids(points, clusters)
	if len(centroids) == 0 {
		return labels, nil
	}

	for i, p := range points {
		labels[i] = nearest(centroids, p)
	}

	for iter := 0; iter < k.config.MaxIterations; iter++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		updateCentroids(centroids, points, labels)

		changed := false
		for i, p := range points {
			if l := nearest(centroids, p); l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return renumber(labels), nil
}

// seedCentroids picks the first k distinct points.
func seedCentroids(points [][]float64, k int) [][]float64 {
	var centroids [][]float64
	for _, p := range points {
		if len(centroids) == k {
			break
		}
		duplicate := false
		for _, c := range centroids {
			if squaredDistance(c, p) == 0 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			centroids = append(centroids, append([]float64(nil), p...))
		}
	}
	return centroids
}

// updateCentroids moves each centroid to the mean of its points. A
// centroid with no points keeps its position.
func updateCentroids(centroids, points [][]float64, labels []int) {
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, len(centroids[c]))
	}
	for i, p := range points {
		l := labels[i]
		counts[l]++
		for f, v := range p {
			sums[l][f] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for f := range centroids[c] {
			centroids[c][f] = sums[c][f] / float64(counts[c])
		}
	}
}

// nearest returns the closest centroid, ties to the lower index.
func nearest(centroids [][]float64, p []float64) int {
	best, bestDist := 0, squaredDistance(centroids[0], p)
	for c := 1; c < len(centroids); c++ {
		if d := squaredDistance(centroids[c], p); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// squaredDistance returns the squared Euclidean distance.
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// renumber relabels clusters in order of first appearance.
func renumber(labels []int) []int {
	mapping := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		m, ok := mapping[l]
		if !ok {
			m = len(mapping)
			mapping[l] = m
		}
		out[i] = m
	}
	return out
}
