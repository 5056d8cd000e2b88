package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts attempts in Redis so the limit holds across instances.
type RedisLimiter struct {
	client   redis.Cmdable
	prefix   string
	limit    int
	interval time.Duration
}

// NewRedisLimiter returns a Limiter storing counters under prefix.
func NewRedisLimiter(client redis.Cmdable, prefix string, limit int, interval time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		limit:    limit,
		interval: interval,
	}
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("%s:%s", l.prefix, k)
}

// Allow increments the counter for key and sets the window expiry in the same transaction.
// EXPIRE NX is sent on every hit, so a counter left without a TTL gets one on the next attempt.
// It requires Redis 7.0 or later.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	var count *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.interval)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return count.Val() <= int64(l.limit), nil
}
