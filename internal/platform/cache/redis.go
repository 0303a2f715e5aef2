// Package cache provides a Redis-backed response cache store for the
// HTTP caching middleware.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect creates a Redis client from a URL and verifies the connection
// with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisCacheStore implements the middleware CacheStore interface on top of a
// Redis client. All entries share a key prefix so Clear can remove them
// without touching other data in the same database.
type RedisCacheStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCacheStore creates a RedisCacheStore with the given key prefix.
func NewRedisCacheStore(client *redis.Client, prefix string) *RedisCacheStore {
	if prefix == "" {
		prefix = "httpcache:"
	}
	return &RedisCacheStore{client: client, prefix: prefix}
}

// Get retrieves a cached value. Redis errors are treated as cache misses so
// a degraded cache never fails a request.
func (s *RedisCacheStore) Get(key string) ([]byte, bool) {
	data, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value with the given TTL. Errors are ignored for the same
// reason as in Get.
func (s *RedisCacheStore) Set(key string, value []byte, ttl time.Duration) {
	s.client.Set(context.Background(), s.prefix+key, value, ttl)
}

// Delete removes a single entry.
func (s *RedisCacheStore) Delete(key string) {
	s.client.Del(context.Background(), s.prefix+key)
}

// Clear removes all entries under the store's prefix using SCAN so large
// keyspaces are not blocked.
func (s *RedisCacheStore) Clear() {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.client.Del(ctx, iter.Val())
	}
}
