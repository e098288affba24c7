// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// fakeRedis implements RedisClient over a map. Scan returns sorted keys,
// count at a time.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	scanErr error
	scans   int
	dels    int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Scan(_ context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	if f.scanErr != nil {
		return redis.NewScanCmdResult(nil, 0, f.scanErr)
	}

	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	// Clear deletes each page before asking for the next one, so every
	// call pages from the first remaining key.
	if int64(len(keys)) <= count {
		return redis.NewScanCmdResult(keys, 0, nil)
	}
	return redis.NewScanCmdResult(keys[:count], cursor+1, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dels++
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeRedis()
	s := NewRedisStore(fake, "test:")

	if err := s.Set(ctx, "rec:4:1:3", ranked(105, 102), 30*time.Second); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	stored := fake.data["test:rec:4:1:3"]
	for _, want := range []string{`"product_id":105`, `"score":0.25`, `"sources":["latent_factor"]`} {
		if !strings.Contains(stored, want) {
			t.Errorf("stored value = %q, missing %s", stored, want)
		}
	}
	if got := fake.ttls["test:rec:4:1:3"]; got != 30*time.Second {
		t.Errorf("stored ttl = %v, want 30s", got)
	}

	got, ok, err := s.Get(ctx, "rec:4:1:3")
	if err != nil || !ok || !equalIDs(got.IDs(), []int{105, 102}) {
		t.Fatalf("Get() = %v, %v, %v", got.IDs(), ok, err)
	}
	if got.Items[0].Score != 0.5 || got.Items[0].Sources[recommend.SourceLatentFactor] != 0.5 {
		t.Errorf("Get() item = %+v, want score and contribution 0.5", got.Items[0])
	}
}

func TestRedisStore_EmptyList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeRedis()
	s := NewRedisStore(fake, "")

	_ = s.Set(ctx, "k", recommend.CachedResult{}, time.Minute)
	if got := fake.data["hybridrec:k"]; got != `{"items":[],"sources":[]}` {
		t.Errorf("stored value = %q, want empty items and sources", got)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || len(got.Items) != 0 {
		t.Errorf("Get() = %v, %v, %v, want empty hit", got, ok, err)
	}
}

func TestRedisStore_MissAndErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeRedis()
	s := NewRedisStore(fake, "test:")

	got, ok, err := s.Get(ctx, "absent")
	if err != nil || ok || got.Items != nil {
		t.Errorf("Get(absent) = %v, %v, %v, want miss without error", got, ok, err)
	}

	fake.data["test:bad"] = "not-json"
	if _, _, err := s.Get(ctx, "bad"); err == nil {
		t.Error("Get(bad) succeeded, want decode error")
	}

	fake.getErr = errors.New("connection refused")
	if _, _, err := s.Get(ctx, "absent"); err == nil {
		t.Error("Get() succeeded with failing client")
	}
}

func TestRedisStore_NonPositiveTTL(t *testing.T) {
	t.Parallel()
	fake := newFakeRedis()
	s := NewRedisStore(fake, "test:")

	_ = s.Set(context.Background(), "k", ranked(1), 0)
	if len(fake.data) != 0 {
		t.Errorf("stored %d keys, want none", len(fake.data))
	}
}

func TestRedisStore_ClearScansPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeRedis()
	s := NewRedisStore(fake, "test:")

	for i := 0; i < 250; i++ {
		_ = s.Set(ctx, fmt.Sprintf("rec:1:%d:3", i), ranked(i), time.Minute)
	}
	fake.data["other:key"] = "keep"

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	if len(fake.data) != 1 || fake.data["other:key"] != "keep" {
		t.Errorf("remaining keys = %v, want only other:key", fake.data)
	}
	if fake.scans < 3 {
		t.Errorf("scans = %d, want paging over 250 keys", fake.scans)
	}
}

func TestRedisStore_ClearScanError(t *testing.T) {
	t.Parallel()
	fake := newFakeRedis()
	fake.scanErr = errors.New("timeout")
	s := NewRedisStore(fake, "test:")

	if err := s.Clear(context.Background()); err == nil {
		t.Error("Clear() succeeded, want scan error")
	}
}
