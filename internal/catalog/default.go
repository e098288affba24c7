// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package catalog

import "time"

// demoStart anchors the demo event timestamps.
var demoStart = time.Date(2023, 10, 1, 10, 0, 0, 0, time.UTC)

func at(days int, minutes int) time.Time {
	return demoStart.Add(time.Duration(days)*24*time.Hour + time.Duration(minutes)*time.Minute)
}

// DefaultDataset returns the built-in demo catalog: six users, eight
// products, thirteen interactions and four context rules. User 5 only
// browsed once and user 6 buys electronics, which makes the set useful for
// exercising sparse histories and context boosts.
func DefaultDataset() *Dataset {
	return &Dataset{
		Users: []UserRecord{
			{UserID: 1, Name: "Alice", Location: "New York", Device: "mobile"},
			{UserID: 2, Name: "Bob", Location: "San Francisco", Device: "desktop"},
			{UserID: 3, Name: "Charlie", Location: "Chicago", Device: "tablet"},
			{UserID: 4, Name: "Diana", Location: "Seattle", Device: "mobile"},
			{UserID: 5, Name: "Eve", Location: "Austin", Device: "desktop"},
			{UserID: 6, Name: "Frank", Location: "Boston", Device: "mobile"},
		},
		Products: []ProductRecord{
			{ProductID: 101, Name: "Wireless Earbuds", Category: "Electronics", Tags: []string{"audio", "wireless", "Bluetooth"}, Rating: 4.5},
			{ProductID: 102, Name: "Smartphone Case", Category: "Accessories", Tags: []string{"phone", "protection", "case"}, Rating: 4.2},
			{ProductID: 103, Name: "Yoga Mat", Category: "Fitness", Tags: []string{"exercise", "mat", "yoga"}, Rating: 4.7},
			{ProductID: 104, Name: "Electric Toothbrush", Category: "Personal Care", Tags: []string{"hygiene", "electric", "toothbrush"}, Rating: 4.3},
			{ProductID: 105, Name: "Laptop Stand", Category: "Office Supplies", Tags: []string{"work", "laptop", "stand"}, Rating: 4.6},
			{ProductID: 106, Name: "Gaming Mouse", Category: "Electronics", Tags: []string{"gaming", "mouse", "accessory"}, Rating: 4.8},
			{ProductID: 107, Name: "Cookbook", Category: "Books", Tags: []string{"cooking", "recipes", "food"}, Rating: 4.9},
			{ProductID: 108, Name: "Winter Jacket", Category: "Apparel", Tags: []string{"clothing", "winter", "jacket"}, Rating: 4.5},
		},
		Browsing: []BrowsingRecord{
			{UserID: 1, ProductID: 101, Event: "view", Timestamp: at(0, 0)},
			{UserID: 1, ProductID: 103, Event: "click", Timestamp: at(0, 5)},
			{UserID: 2, ProductID: 102, Event: "add_to_cart", Timestamp: at(1, 0)},
			{UserID: 3, ProductID: 104, Event: "view", Timestamp: at(2, 0)},
			{UserID: 4, ProductID: 105, Event: "click", Timestamp: at(3, 0)},
			{UserID: 5, ProductID: 107, Event: "view", Timestamp: at(4, 0)},
			{UserID: 6, ProductID: 108, Event: "view", Timestamp: at(5, 0)},
			{UserID: 2, ProductID: 106, Event: "click", Timestamp: at(6, 0)},
		},
		Purchases: []PurchaseRecord{
			{UserID: 1, ProductID: 104, Timestamp: at(9, 0)},
			{UserID: 2, ProductID: 105, Timestamp: at(11, 0)},
			{UserID: 3, ProductID: 103, Timestamp: at(14, 0)},
			{UserID: 4, ProductID: 101, Timestamp: at(15, 0)},
			{UserID: 6, ProductID: 106, Timestamp: at(16, 0)},
		},
		ContextRules: []ContextRuleRecord{
			{Category: "Electronics", PeakDays: []string{"Friday", "Saturday"}, Season: "Holiday"},
			{Category: "Fitness", PeakDays: []string{"Monday", "Wednesday"}, Season: "Summer"},
			{Category: "Books", PeakDays: []string{"Saturday", "Sunday"}, Season: "All Year"},
			{Category: "Apparel", PeakDays: []string{"Friday"}, Season: "Holiday"},
		},
	}
}
