// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package reranking implements post-processing of fused recommendation lists.
//
// Rerankers run after fusion has truncated the list to top_n:
//
//	Generators -> Fusion -> Truncate -> Rerankers -> Final list
//
// # Available Rerankers
//
// Context adjustment:
//   - Pulls products whose category is "in season" to the front
//   - A category matches when today is one of its peak days or the
//     current season equals its season label
//   - Each match is moved to position 0 in list order, so the last match
//     ends up first
//
// Category diversity:
//   - Accepts products from new categories first, then fills the list
//     from the remaining products in order
//   - Disabled by default
//
// # Interface
//
// All rerankers implement recommend.Reranker:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, snap *Snapshot, userID int, ids []int) []int
//	}
//
// Rerankers only reorder; the output holds the same products as the input.
//
// # Seasons
//
// Months map to seasons as follows:
//
//	December, January, February -> Holiday
//	June, July, August          -> Summer
//	all other months            -> All Year
//
// # Thread Safety
//
// Rerankers hold no per-request state and are safe for concurrent use.
package reranking
