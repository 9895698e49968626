package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisLocker provides cross-process mutual exclusion via redislock. The lock
// sweep uses it so only one instance runs a sweep at a time.
type RedisLocker struct {
	locker *redislock.Client
}

// NewRedisLocker creates the locker on top of the shared Redis client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{locker: redislock.New(client)}
}

var _ platform.DistributedLocker = (*RedisLocker)(nil)

// Obtain acquires a named lock for ttl. Returns the release function, or
// apperrors.ErrConflict when another holder owns the lock.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("%w: lock %s is held elsewhere", apperrors.ErrConflict, key)
		}
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return lock.Release, nil
}
