// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func equalInts(a, b []int) bool {
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

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func event(userID, productID int, kind EventKind) Interaction {
	return Interaction{UserID: userID, ProductID: productID, Kind: kind}
}

func mustSnapshot(t *testing.T, users []User, products []Product, interactions []Interaction, rules []ContextRule) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(users, products, interactions, rules)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func mustClustered(t *testing.T, snap *Snapshot, users, products map[int]int) *Snapshot {
	t.Helper()
	next, err := snap.WithClusters(users, products)
	if err != nil {
		t.Fatalf("WithClusters: %v", err)
	}
	return next
}

// demoSnapshot is a small clustered catalog:
//
//	user 1: 101 (view), 103 (click), 104 (purchase)
//	user 2: 102 (add_to_cart), 105 (purchase), 106 (click)
//	user 3: 103 (purchase), 104 (view)
//	user 5: no interactions
func demoSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	users := []User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}, {ID: 3, Name: "Charlie"}, {ID: 5, Name: "Eve"}}
	products := []Product{
		{ID: 101, Name: "Wireless Earbuds", Category: "Electronics", Tags: []string{"audio", "wireless"}},
		{ID: 102, Name: "Smartphone Case", Category: "Accessories", Tags: []string{"phone", "case"}},
		{ID: 103, Name: "Yoga Mat", Category: "Fitness", Tags: []string{"exercise", "yoga"}},
		{ID: 104, Name: "Electric Toothbrush", Category: "Personal Care", Tags: []string{"hygiene", "electric"}},
		{ID: 105, Name: "Laptop Stand", Category: "Office Supplies", Tags: []string{"work", "laptop"}},
		{ID: 106, Name: "Gaming Mouse", Category: "Electronics", Tags: []string{"gaming", "wireless"}},
	}
	interactions := []Interaction{
		event(1, 101, EventView),
		event(1, 103, EventClick),
		event(2, 102, EventAddToCart),
		event(3, 104, EventView),
		event(2, 106, EventClick),
		event(1, 104, EventPurchase),
		event(2, 105, EventPurchase),
		event(3, 103, EventPurchase),
	}
	rules := []ContextRule{
		{Category: "Electronics", PeakDays: []string{"Friday", "Saturday"}, Season: "Holiday"},
		{Category: "Fitness", PeakDays: []string{"Monday", "Wednesday"}, Season: "Summer"},
	}
	snap := mustSnapshot(t, users, products, interactions, rules)
	return mustClustered(t, snap,
		map[int]int{1: 0, 2: 1, 3: 0, 5: 0},
		map[int]int{101: 0, 102: 1, 103: 0, 104: 0, 105: 1, 106: 1},
	)
}

// stubGenerator returns a fixed list.
type stubGenerator struct {
	name  string
	ids   []int
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(ctx context.Context, _ *Snapshot, _, _ int) ([]int, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return append([]int(nil), s.ids...), nil
}

// refreshingGenerator records Refresh calls.
type refreshingGenerator struct {
	stubGenerator
	refreshed []int64
	mu        sync.Mutex
	err       error
}

func (r *refreshingGenerator) Refresh(_ context.Context, snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.refreshed = append(r.refreshed, snap.Version())
	return nil
}

// stubClusters labels every user and product with one cluster.
type stubClusters struct {
	calls atomic.Int32
	err   error
}

func (s *stubClusters) AssignClusters(_ context.Context, snap *Snapshot) (*Snapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	users := make(map[int]int)
	for _, u := range snap.Users() {
		users[u.ID] = 0
	}
	products := make(map[int]int)
	for _, p := range snap.Products() {
		products[p.ID] = 0
	}
	return snap.WithClusters(users, products)
}

// stubPeers returns fixed peers.
type stubPeers struct {
	peers []Neighbor
	err   error
}

func (s *stubPeers) Peers(context.Context, *Snapshot, int, int) ([]Neighbor, error) {
	return s.peers, s.err
}

// memoryCache is a map-backed CacheStore.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]CachedResult
	sets    int
	clears  int
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]CachedResult)}
}

func (m *memoryCache) Set(_ context.Context, key string, result CachedResult, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = result.Clone()
	m.sets++
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (CachedResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return CachedResult{}, false, m.getErr
	}
	result, ok := m.entries[key]
	return result, ok, nil
}

func (m *memoryCache) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]CachedResult)
	m.clears++
	return nil
}

// reverseReranker reverses the list.
type reverseReranker struct {
	calls atomic.Int32
}

func (r *reverseReranker) Name() string { return "reverse" }

func (r *reverseReranker) Rerank(_ context.Context, _ *Snapshot, _ int, ids []int) []int {
	r.calls.Add(1)
	out := make([]int, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// countingObserver counts observer events.
type countingObserver struct {
	requests   atomic.Int32
	generators atomic.Int32
	rebuilds   atomic.Int32
	failures   atomic.Int32
}

func (c *countingObserver) ObserveRequest(_, _ bool, _ time.Duration, err error) {
	c.requests.Add(1)
	if err != nil {
		c.failures.Add(1)
	}
}

func (c *countingObserver) ObserveGenerator(string, int, time.Duration, error) {
	c.generators.Add(1)
}

func (c *countingObserver) ObserveRebuild(string) {
	c.rebuilds.Add(1)
}
