// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package reranking

import (
	"context"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// CategoryDiversity spreads a list across categories.
//
// Walking the list in order, a product is accepted when its category is
// new or fewer than len/2 categories have been accepted so far. Products
// that were passed over fill the remaining slots in their original order.
type CategoryDiversity struct{}

// NewCategoryDiversity creates a category diversity reranker.
func NewCategoryDiversity() *CategoryDiversity {
	return &CategoryDiversity{}
}

// Name returns the reranker identifier.
func (d *CategoryDiversity) Name() string {
	return "category_diversity"
}

// Rerank reorders ids for category diversity.
func (d *CategoryDiversity) Rerank(_ context.Context, snap *recommend.Snapshot, _ int, ids []int) []int {
	n := len(ids)
	if n < 2 {
		return ids
	}

	accepted := make([]int, 0, n)
	taken := make(map[int]struct{}, n)
	categories := make(map[string]struct{})

	for _, id := range ids {
		category := ""
		if p, ok := snap.Product(id); ok {
			category = p.Category
		}
		if _, seen := categories[category]; !seen || len(categories) < n/2 {
			accepted = append(accepted, id)
			taken[id] = struct{}{}
			categories[category] = struct{}{}
		}
	}

	for _, id := range ids {
		if _, ok := taken[id]; !ok {
			accepted = append(accepted, id)
		}
	}
	return accepted
}
