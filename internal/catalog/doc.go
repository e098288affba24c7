// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package catalog loads the data tables the recommendation engine serves from.

A dataset is a single JSON document with five tables:

	{
	  "users":         [{"user_id": 1, "name": "Alice", "location": "New York", "device": "mobile"}],
	  "products":      [{"product_id": 101, "name": "Wireless Earbuds", "category": "Electronics",
	                     "tags": ["audio", "wireless"], "rating": 4.5}],
	  "browsing":      [{"user_id": 1, "product_id": 101, "event": "view", "timestamp": "2023-10-01T10:00:00Z"}],
	  "purchases":     [{"user_id": 1, "product_id": 104, "timestamp": "2023-10-10T10:00:00Z"}],
	  "context_rules": [{"category": "Electronics", "peak_days": ["Friday", "Saturday"], "season": "Holiday"}]
	}

Records are validated with struct tags before conversion. Browsing events
become interactions first, in file order, followed by purchases.

DefaultDataset returns the built-in demo catalog used when no data path is
configured.
*/
package catalog
