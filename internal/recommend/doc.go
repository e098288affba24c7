// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package recommend implements a multi-signal recommendation engine for
// product catalogs.
//
// # Architecture
//
// The engine blends ranked candidate lists from independent generators into
// a single ordered list:
//
//   - Latent factor: ALS predictions over the user-item weight matrix
//   - Collaborative filtering: aggregated weights of the most similar users
//   - Content: TF-IDF similarity over product tags and category
//   - Category match: products sharing a category the user has touched
//   - Cluster popularity: popular products within the user's cluster
//
// Each list contributes w/(rank+1) per product, where w is the source weight.
// Contributions accumulate additively. Products the user already interacted
// with are removed, the remainder is sorted by score (ties keep first
// appearance order) and truncated to top_n before rerankers run.
//
// # Cold Start
//
// A user with no interactions skips fusion entirely. The engine picks the
// most common user cluster label (smallest label on ties) and returns that
// cluster's products ranked by global interaction frequency.
//
// # Snapshots
//
// All data the engine reads lives in an immutable, versioned Snapshot.
// Cluster assignment and product additions derive a new Snapshot; the
// previous one stays valid for requests already holding it. Swapping the
// engine's snapshot is an exclusive rebuild step.
//
// # Usage
//
//	snap, err := recommend.NewSnapshot(users, products, interactions, rules)
//	engine, err := recommend.NewEngine(ctx, recommend.DefaultConfig(), snap, recommend.Dependencies{
//	    Generators: []recommend.CandidateGenerator{lf, cf, content, category, cluster},
//	    Peers:      userSimilarity,
//	    Clusters:   kmeans,
//	}, logger)
//
//	ids, err := engine.RecommendIDs(ctx, userID, 3)
//	reasons, err := engine.Explain(ctx, userID, ids)
//
// RecommendExplained does both against one snapshot and returns it, for
// callers that also read product details:
//
//	res, err := engine.RecommendExplained(ctx, recommend.Request{UserID: userID})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Requests read the current snapshot
// under a shared lock; Rebuild and AddProduct hold the exclusive lock while
// generators refresh their derived structures.
package recommend
