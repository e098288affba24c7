// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package algorithms implements the candidate generators and numeric
// collaborators used by the recommendation engine.
//
// # Generators
//
//   - LatentFactorGenerator: top predictions of an ALS model
//   - CollaborativeGenerator: products of the most similar users
//   - ContentGenerator: TF-IDF neighbours of the user's products
//   - CategoryGenerator: catalog products in the user's categories
//   - ClusterGenerator: popular products in the user's cluster
//
// # Collaborators
//
//   - UserSimilarity: cosine similarity over user-item weight rows
//   - ContentIndex: TF-IDF over product tags and category
//   - ALS: implicit-feedback alternating least squares
//   - KMeans: deterministic k-means cluster labelling
//
// # Snapshot Binding
//
// Every derived structure records the snapshot version it was built from.
// UserSimilarity and ALS are rebuilt by the engine's exclusive rebuild step
// and report recommend.ErrStaleModel when asked about another snapshot. The
// content index instead rebuilds itself, blocking, when a lookup misses.
//
// # Thread Safety
//
// All types are safe for concurrent use. Builds acquire an exclusive lock
// while lookups use a shared lock.
package algorithms
