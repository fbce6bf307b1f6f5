package ttlcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

// Redis stores JSON-encoded values so several API instances share one cache.
// Redis failures are logged and reported as misses.
type Redis[T any] struct {
	client redis.Cmdable
	prefix string
}

func NewRedis[T any](client redis.Cmdable, prefix string) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix}
}

func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool) {
	var out T

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("redis cache get failed", "key", key, "error", err)
		}
		return out, false
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		logger.FromContext(ctx).Warn("redis cache entry undecodable", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return out, true
}

func (r *Redis[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.FromContext(ctx).Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("redis cache set failed", "key", key, "error", err)
	}
}
