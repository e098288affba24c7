// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

var fixtureBase = time.Date(2023, 10, 1, 10, 0, 0, 0, time.UTC)

func fixtureUsers() []recommend.User {
	return []recommend.User{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Charlie"},
		{ID: 4, Name: "Diana"},
		{ID: 5, Name: "Eve"},
		{ID: 6, Name: "Frank"},
	}
}

func fixtureProducts() []recommend.Product {
	return []recommend.Product{
		{ID: 101, Name: "Wireless Earbuds", Category: "Electronics", Tags: []string{"audio", "wireless", "Bluetooth"}, Rating: 4.5},
		{ID: 102, Name: "Smartphone Case", Category: "Accessories", Tags: []string{"phone", "protection", "case"}, Rating: 4.2},
		{ID: 103, Name: "Yoga Mat", Category: "Fitness", Tags: []string{"exercise", "mat", "yoga"}, Rating: 4.7},
		{ID: 104, Name: "Electric Toothbrush", Category: "Personal Care", Tags: []string{"hygiene", "electric", "toothbrush"}, Rating: 4.3},
		{ID: 105, Name: "Laptop Stand", Category: "Office Supplies", Tags: []string{"work", "laptop", "stand"}, Rating: 4.6},
		{ID: 106, Name: "Gaming Mouse", Category: "Electronics", Tags: []string{"gaming", "mouse", "accessory"}, Rating: 4.8},
		{ID: 107, Name: "Cookbook", Category: "Books", Tags: []string{"cooking", "recipes", "food"}, Rating: 4.9},
		{ID: 108, Name: "Winter Jacket", Category: "Apparel", Tags: []string{"clothing", "winter", "jacket"}, Rating: 4.5},
	}
}

func fixtureInteraction(userID, productID int, kind recommend.EventKind, offset time.Duration) recommend.Interaction {
	return recommend.Interaction{UserID: userID, ProductID: productID, Kind: kind, Timestamp: fixtureBase.Add(offset)}
}

// fixtureInteractions yields these weight rows:
//
//	user 1: 101=1 103=2 104=5
//	user 2: 102=3 106=2 105=5
//	user 3: 104=1 103=5
//	user 4: 105=2 101=5
//	user 5: 107=1
//	user 6: 108=1 106=5
func fixtureInteractions() []recommend.Interaction {
	day := 24 * time.Hour
	return []recommend.Interaction{
		fixtureInteraction(1, 101, recommend.EventView, 0),
		fixtureInteraction(1, 103, recommend.EventClick, 5*time.Minute),
		fixtureInteraction(2, 102, recommend.EventAddToCart, day),
		fixtureInteraction(3, 104, recommend.EventView, 2*day),
		fixtureInteraction(4, 105, recommend.EventClick, 3*day),
		fixtureInteraction(5, 107, recommend.EventView, 4*day),
		fixtureInteraction(6, 108, recommend.EventView, 5*day),
		fixtureInteraction(2, 106, recommend.EventClick, 6*day),
		fixtureInteraction(1, 104, recommend.EventPurchase, 9*day),
		fixtureInteraction(2, 105, recommend.EventPurchase, 11*day),
		fixtureInteraction(3, 103, recommend.EventPurchase, 14*day),
		fixtureInteraction(4, 101, recommend.EventPurchase, 15*day),
		fixtureInteraction(6, 106, recommend.EventPurchase, 16*day),
	}
}

func fixtureSnapshot(t *testing.T) *recommend.Snapshot {
	t.Helper()
	snap, err := recommend.NewSnapshot(fixtureUsers(), fixtureProducts(), fixtureInteractions(), nil)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

// clusteredFixture labels users {1,3,5} and {2,4,6}, products by parity.
func clusteredFixture(t *testing.T) *recommend.Snapshot {
	t.Helper()
	snap, err := fixtureSnapshot(t).WithClusters(
		map[int]int{1: 0, 2: 1, 3: 0, 4: 1, 5: 0, 6: 1},
		map[int]int{101: 1, 102: 0, 103: 1, 104: 0, 105: 1, 106: 0, 107: 1, 108: 0},
	)
	if err != nil {
		t.Fatalf("WithClusters: %v", err)
	}
	return snap
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
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

func neighborIDs(ns []recommend.Neighbor) []int {
	ids := make([]int, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}
