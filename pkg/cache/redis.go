package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/exp/slog"
)

// Invalidator drops cached list views by key pattern. All operations are
// best-effort: a cache that cannot be reached costs freshness, never
// correctness, so errors are logged and swallowed.
type Invalidator struct {
	client *redis.Client
}

// NewInvalidator connects to redis and returns an Invalidator, or nil
// (disabled) if the connection fails
func NewInvalidator(addr, password string, db int) *Invalidator {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, cache invalidation disabled", "addr", addr, "error", err)
		return nil
	}
	return &Invalidator{client: client}
}

// Invalidate deletes every key matching the pattern
func (i *Invalidator) Invalidate(ctx context.Context, pattern string) {
	if i == nil || i.client == nil {
		return
	}
	iter := i.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Cache scan failed", "pattern", pattern, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := i.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Cache invalidation failed", "pattern", pattern, "keys", len(keys), "error", err)
	}
}

// Close releases the underlying connection
func (i *Invalidator) Close() error {
	if i == nil || i.client == nil {
		return nil
	}
	return i.client.Close()
}
