// Package cache holds Redis-backed cache adapters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	"github.com/redis/go-redis/v9"
)

// RedisCounterCache caches per-user job counters in Redis with a TTL.
// A missing or expired key is a miss; the caller recomputes and re-sets.
type RedisCounterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCounterCache creates the counter cache with the given TTL.
func NewRedisCounterCache(client *redis.Client, ttl time.Duration) *RedisCounterCache {
	return &RedisCounterCache{client: client, ttl: ttl}
}

var _ platform.CounterCache = (*RedisCounterCache)(nil)

func counterKey(userID string) string {
	return "job_counters:" + userID
}

// GetJobCounters returns cached counters for a user. The second return value
// reports a cache hit.
func (c *RedisCounterCache) GetJobCounters(ctx context.Context, userID string) (*domain.JobCounters, bool, error) {
	val, err := c.client.Get(ctx, counterKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached counters for user %s: %w", userID, err)
	}

	var counters domain.JobCounters
	if err := json.Unmarshal([]byte(val), &counters); err != nil {
		// A corrupt entry behaves like a miss; the caller overwrites it.
		return nil, false, nil
	}
	return &counters, true, nil
}

// SetJobCounters stores counters for a user with the configured TTL.
func (c *RedisCounterCache) SetJobCounters(ctx context.Context, userID string, counters domain.JobCounters) error {
	payload, err := json.Marshal(counters)
	if err != nil {
		return fmt.Errorf("failed to marshal counters for user %s: %w", userID, err)
	}
	if err := c.client.Set(ctx, counterKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache counters for user %s: %w", userID, err)
	}
	return nil
}

// InvalidateJobCounters drops cached counters for the given users.
func (c *RedisCounterCache) InvalidateJobCounters(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = counterKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate counters: %w", err)
	}
	return nil
}
