// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestEventKind_Weight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    EventKind
		want    int
		wantErr bool
	}{
		{EventView, 1, false},
		{EventClick, 2, false},
		{EventAddToCart, 3, false},
		{EventPurchase, 5, false},
		{EventUnknown, 0, true},
		{EventKind(42), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := tt.kind.Weight()
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownEventKind) {
					t.Fatalf("Weight() error = %v, want ErrUnknownEventKind", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Weight() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Weight() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseEventKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    EventKind
		wantErr bool
	}{
		{"view", EventView, false},
		{"click", EventClick, false},
		{"add_to_cart", EventAddToCart, false},
		{"purchase", EventPurchase, false},
		{" Purchase ", EventPurchase, false},
		{"wishlist", EventUnknown, true},
		{"", EventUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEventKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownEventKind) {
				t.Errorf("error = %v, want ErrUnknownEventKind", err)
			}
			if got != tt.want {
				t.Errorf("ParseEventKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEventKind_JSON(t *testing.T) {
	t.Parallel()

	var got struct {
		Kind EventKind `json:"event"`
	}
	if err := json.Unmarshal([]byte(`{"event":"add_to_cart"}`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Kind != EventAddToCart {
		t.Errorf("Kind = %v, want add_to_cart", got.Kind)
	}

	if err := json.Unmarshal([]byte(`{"event":"wishlist"}`), &got); err == nil {
		t.Error("expected error for unknown event kind")
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"event":"add_to_cart"}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestNewInteraction(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 10, 6, 20, 30, 0, 0, time.UTC)
	p := Product{ID: 108, Name: "Winter Jacket", Category: "Apparel"}

	inter, err := NewInteraction(6, p, EventPurchase, ts)
	if err != nil {
		t.Fatalf("NewInteraction: %v", err)
	}
	if inter.Weight != 5 {
		t.Errorf("Weight = %d, want 5", inter.Weight)
	}
	if inter.Category != "Apparel" {
		t.Errorf("Category = %q, want Apparel", inter.Category)
	}
	if inter.Weekday() != "Friday" {
		t.Errorf("Weekday = %q, want Friday", inter.Weekday())
	}
	if inter.Hour() != 20 {
		t.Errorf("Hour = %d, want 20", inter.Hour())
	}

	if _, err := NewInteraction(6, p, EventUnknown, ts); !errors.Is(err, ErrUnknownEventKind) {
		t.Errorf("error = %v, want ErrUnknownEventKind", err)
	}
}

func TestContextRule_Matches(t *testing.T) {
	t.Parallel()

	rule := ContextRule{Category: "Electronics", PeakDays: []string{"Friday", "Saturday"}, Season: "Holiday"}

	tests := []struct {
		name    string
		weekday string
		season  string
		want    bool
	}{
		{"peak day", "Friday", "All Year", true},
		{"season", "Monday", "Holiday", true},
		{"both", "Saturday", "Holiday", true},
		{"neither", "Monday", "Summer", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.Matches(tt.weekday, tt.season); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.weekday, tt.season, got, tt.want)
			}
		})
	}
}

func TestResponse_ProductIDs(t *testing.T) {
	t.Parallel()

	resp := &Response{Items: []ScoredProduct{{ProductID: 3}, {ProductID: 1}, {ProductID: 2}}}
	got := resp.ProductIDs()
	want := []int{3, 1, 2}
	if !equalInts(got, want) {
		t.Errorf("ProductIDs() = %v, want %v", got, want)
	}
}
