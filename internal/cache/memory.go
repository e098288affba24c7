// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// lruEntry is a node of the recency list.
type lruEntry struct {
	key       string
	result    recommend.CachedResult
	prev      *lruEntry
	next      *lruEntry
	expiresAt time.Time
}

// MemoryStore is a thread-safe LRU cache with per-entry TTL.
//
// A hashmap gives O(1) lookup and a doubly-linked list keeps recency order,
// so eviction of the least recently used entry is also O(1). Expired entries
// are removed lazily on access or by CleanupExpired.
type MemoryStore struct {
	mu sync.Mutex

	// capacity is the maximum number of entries
	capacity int

	// items maps keys to list nodes
	items map[string]*lruEntry

	// head.next is the most recently used, tail.prev the least
	head *lruEntry
	tail *lruEntry

	// now is replaceable in tests
	now func() time.Time
}

// NewMemoryStore creates a store holding at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}

	s := &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*lruEntry, capacity),
		head:     &lruEntry{},
		tail:     &lruEntry{},
		now:      time.Now,
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Get returns a copy of the cached result. Found entries become the most
// recently used.
func (s *MemoryStore) Get(_ context.Context, key string) (recommend.CachedResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.items[key]
	if !exists {
		return recommend.CachedResult{}, false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.removeEntry(entry)
		return recommend.CachedResult{}, false, nil
	}

	s.moveToFront(entry)
	return entry.result.Clone(), true, nil
}

// Set stores a copy of result under key. A non-positive ttl stores nothing.
func (s *MemoryStore) Set(_ context.Context, key string, result recommend.CachedResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(ttl)
	stored := result.Clone()

	if entry, exists := s.items[key]; exists {
		entry.result = stored
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		return nil
	}

	entry := &lruEntry{key: key, result: stored, expiresAt: expiresAt}
	s.addToFront(entry)
	s.items[key] = entry

	for len(s.items) > s.capacity {
		s.evictOldest()
	}
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*lruEntry, s.capacity)
	s.head.next = s.tail
	s.tail.prev = s.head
	return nil
}

// Len returns the current number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CleanupExpired removes all expired entries and returns how many were
// removed.
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for entry := s.tail.prev; entry != s.head; {
		prev := entry.prev
		if now.After(entry.expiresAt) {
			s.removeEntry(entry)
			removed++
		}
		entry = prev
	}
	return removed
}

// Internal methods (must be called with lock held)

func (s *MemoryStore) addToFront(entry *lruEntry) {
	entry.prev = s.head
	entry.next = s.head.next
	s.head.next.prev = entry
	s.head.next = entry
}

func (s *MemoryStore) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	s.addToFront(entry)
}

func (s *MemoryStore) removeEntry(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(s.items, entry.key)
}

func (s *MemoryStore) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	s.removeEntry(oldest)
}
