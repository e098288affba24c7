// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package reranking

import (
	"testing"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

func testSnapshot(t *testing.T) *recommend.Snapshot {
	t.Helper()
	products := []recommend.Product{
		{ID: 101, Category: "Electronics"},
		{ID: 102, Category: "Accessories"},
		{ID: 103, Category: "Fitness"},
		{ID: 104, Category: "Personal Care"},
		{ID: 105, Category: "Office Supplies"},
		{ID: 106, Category: "Electronics"},
		{ID: 107, Category: "Books"},
		{ID: 110, Category: "Electronics"},
	}
	rules := []recommend.ContextRule{
		{Category: "Electronics", PeakDays: []string{"Friday", "Saturday"}, Season: "Holiday"},
		{Category: "Fitness", PeakDays: []string{"Monday", "Wednesday"}, Season: "Summer"},
		{Category: "Books", PeakDays: []string{"Saturday", "Sunday"}, Season: "All Year"},
	}
	snap, err := recommend.NewSnapshot([]recommend.User{{ID: 1}}, products, nil, rules)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
