// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestMemoryStore(capacity int) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(capacity)
	s.now = clock.Now
	return s, clock
}

// ranked builds a cached result with descending scores.
func ranked(ids ...int) recommend.CachedResult {
	items := make([]recommend.ScoredProduct, len(ids))
	for i, id := range ids {
		score := 0.5 / float64(i+1)
		items[i] = recommend.ScoredProduct{
			ProductID: id,
			Score:     score,
			Sources:   map[string]float64{recommend.SourceLatentFactor: score},
		}
	}
	return recommend.CachedResult{Items: items, Sources: []string{recommend.SourceLatentFactor}}
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

func TestMemoryStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(10)

	if err := s.Set(ctx, "rec:1:1:3", ranked(105, 102, 106), time.Minute); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	got, ok, err := s.Get(ctx, "rec:1:1:3")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", got, ok, err)
	}
	if !equalIDs(got.IDs(), []int{105, 102, 106}) {
		t.Errorf("Get() ids = %v, want [105 102 106]", got.IDs())
	}
	if got.Items[1].Score != 0.25 || got.Items[1].Sources[recommend.SourceLatentFactor] != 0.25 {
		t.Errorf("Get() item = %+v, want score and contribution 0.25", got.Items[1])
	}
	if len(got.Sources) != 1 || got.Sources[0] != recommend.SourceLatentFactor {
		t.Errorf("Get() sources = %v", got.Sources)
	}

	if _, ok, _ := s.Get(ctx, "rec:1:2:3"); ok {
		t.Error("Get(missing) reported a hit")
	}

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(10)

	in := ranked(1, 2, 3)
	_ = s.Set(ctx, "k", in, time.Minute)
	in.Items[0].ProductID = 99
	in.Items[0].Sources[recommend.SourceLatentFactor] = -1

	got, _, _ := s.Get(ctx, "k")
	if got.Items[0].ProductID != 1 || got.Items[0].Sources[recommend.SourceLatentFactor] != 0.5 {
		t.Errorf("stored value aliased caller result: %+v", got.Items[0])
	}
	got.Items[1].Score = 99
	got.Sources[0] = "changed"
	again, _, _ := s.Get(ctx, "k")
	if again.Items[1].Score != 0.25 || again.Sources[0] != recommend.SourceLatentFactor {
		t.Errorf("returned value aliased stored result: %+v", again)
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(3)

	_ = s.Set(ctx, "a", ranked(1), time.Minute)
	_ = s.Set(ctx, "b", ranked(2), time.Minute)
	_ = s.Set(ctx, "c", ranked(3), time.Minute)

	// Touch a so b becomes least recently used.
	_, _, _ = s.Get(ctx, "a")
	_ = s.Set(ctx, "d", ranked(4), time.Minute)

	if _, ok, _ := s.Get(ctx, "b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok, _ := s.Get(ctx, key); !ok {
			t.Errorf("expected %s to be present", key)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, clock := newTestMemoryStore(10)

	_ = s.Set(ctx, "short", ranked(1), time.Second)
	_ = s.Set(ctx, "long", ranked(2), time.Hour)

	clock.Advance(2 * time.Second)

	if _, ok, _ := s.Get(ctx, "short"); ok {
		t.Error("expired entry returned")
	}
	if _, ok, _ := s.Get(ctx, "long"); !ok {
		t.Error("live entry missing")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after lazy expiry", s.Len())
	}
}

func TestMemoryStore_UpdateRefreshesTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, clock := newTestMemoryStore(10)

	_ = s.Set(ctx, "k", ranked(1), time.Second)
	clock.Advance(500 * time.Millisecond)
	_ = s.Set(ctx, "k", ranked(2), time.Second)
	clock.Advance(800 * time.Millisecond)

	got, ok, _ := s.Get(ctx, "k")
	if !ok || !equalIDs(got.IDs(), []int{2}) {
		t.Errorf("Get() = %v, %v, want [2], true", got.IDs(), ok)
	}
}

func TestMemoryStore_NonPositiveTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(10)

	_ = s.Set(ctx, "k", ranked(1), 0)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestMemoryStore_ClearAndCleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, clock := newTestMemoryStore(10)

	for i := 0; i < 5; i++ {
		ttl := time.Minute
		if i%2 == 0 {
			ttl = time.Second
		}
		_ = s.Set(ctx, fmt.Sprintf("k%d", i), ranked(i), ttl)
	}

	clock.Advance(2 * time.Second)
	if removed := s.CleanupExpired(); removed != 3 {
		t.Errorf("CleanupExpired() = %d, want 3", removed)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
	_ = s.Set(ctx, "after", ranked(7), time.Minute)
	if _, ok, _ := s.Get(ctx, "after"); !ok {
		t.Error("store unusable after Clear")
	}
}

func TestMemoryStore_DefaultCapacity(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(0)
	if s.capacity != 10000 {
		t.Errorf("capacity = %d, want 10000", s.capacity)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%80)
				_ = s.Set(ctx, key, ranked(i), time.Minute)
				_, _, _ = s.Get(ctx, key)
				if i%50 == 0 {
					_ = s.Clear(ctx)
				}
			}
		}(g)
	}
	wg.Wait()

	if s.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity", s.Len())
	}
}
