// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// scanBatch is the COUNT hint for SCAN during Clear.
const scanBatch = 100

// RedisClient is the subset of go-redis commands the store issues.
// *redis.Client satisfies it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps results in Redis as JSON documents under a key prefix.
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisClient creates a client and checks the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisStore creates a store over client. Keys are namespaced with
// prefix so Clear only touches this store's entries.
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "hybridrec:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get returns the cached result. A missing key is a miss, not an error.
func (s *RedisStore) Get(ctx context.Context, key string) (recommend.CachedResult, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return recommend.CachedResult{}, false, nil
		}
		return recommend.CachedResult{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var result recommend.CachedResult
	if err := json.Unmarshal(val, &result); err != nil {
		return recommend.CachedResult{}, false, fmt.Errorf("decode cached result for %s: %w", key, err)
	}
	return result.Clone(), true, nil
}

// Set stores result with the given TTL. A non-positive ttl stores nothing.
func (s *RedisStore) Set(ctx context.Context, key string, result recommend.CachedResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(result.Clone())
	if err != nil {
		return fmt.Errorf("encode result for %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the store prefix, walking the keyspace
// with SCAN.
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
