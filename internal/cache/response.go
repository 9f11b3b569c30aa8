// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for rendered JSON responses.
// Public read endpoints store their encoded body here so repeat requests
// skip the database. The cache is advisory: every failure is logged and
// treated as a miss.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a response stays cached.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache manages JSON response caching in Valkey. A nil
// *ResponseCache is valid and never hits.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a new response cache backed by the given Valkey
// client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached body. The bool is false on a miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a body under key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if rc == nil {
		return
	}
	if err := rc.client.Set(ctx, responseKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Used after catalog writes, since list, category and detail responses may
// all be affected.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	if rc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}

// ProductKey returns the cache key for a product detail. Absolute media
// URLs depend on the request origin, so it is part of the key.
func ProductKey(origin, slug string) string {
	return "product:" + slug + "@" + origin
}

// RootCategoriesKey returns the cache key for the root category tree.
func RootCategoriesKey(origin string) string {
	return "root-categories@" + origin
}
