// Package cache provides rate limiting, a small key/value cache for public
// catalog listings and a lock for once-a-day jobs. Each concern has a Redis
// implementation for multi-replica deployments and an in-memory one.
package cache

import (
	"context"
	"time"
)

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Store is a byte cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Locker hands out a lock on key that expires after ttl. It reports false
// when someone else holds the lock.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
