package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb    *redis.Client
	prefix string
}

// NewClient connects to Redis at addr; every key is stored under prefix.
func NewClient(addr, prefix string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{rdb: rdb, prefix: prefix}, nil
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

// IsRateLimited counts a hit for key, extending the window, and reports whether
// the count went over limit. Redis errors let the request through.
func (c *Client) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) bool {
	k := c.key("ratelimit:" + key)

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("Rate limit check failed", "error", err)
		return false
	}

	return incr.Val() > int64(limit)
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return b, true
}

func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		slog.Warn("Cache set failed", "key", key, "error", err)
	}
}

func (c *Client) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		slog.Warn("Cache delete failed", "keys", keys, "error", err)
	}
}

// Acquire takes the lock with SETNX.
func (c *Client) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, c.key("lock:"+key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// RedisLimiter allows Max hits per Window for each key.
type RedisLimiter struct {
	Client *Client
	Max    int
	Window time.Duration
}

func (l RedisLimiter) Allow(ctx context.Context, key string) bool {
	return !l.Client.IsRateLimited(ctx, key, l.Max, l.Window)
}
