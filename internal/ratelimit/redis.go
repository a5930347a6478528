package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares windows between server instances through Redis.
//
// Each key is an INCR counter whose TTL is the window; the first hit of a
// window sets the TTL.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a limiter storing counters under "ratelimit:<scope>:<key>".
func NewRedisLimiter(client *redis.Client, scope string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: fmt.Sprintf("ratelimit:%s:", scope),
		limit:  limit,
		window: window,
	}
}

// Key returns the Redis key used for a client identifier.
func (l *RedisLimiter) Key(client string) string {
	if client == "" {
		client = UnknownClient
	}
	return l.prefix + client
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	key := l.Key(client)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment %s: %w", key, err)
	}

	if count == 1 {
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set window on %s: %w", key, err)
		}
		return Decision{Allowed: true, Count: 1, Limit: l.limit, RetryAfter: l.window}, nil
	}

	decision := Decision{
		Allowed:    count <= int64(l.limit),
		Count:      int(count),
		Limit:      l.limit,
		RetryAfter: l.window,
	}

	if !decision.Allowed {
		ttl, err := l.client.PTTL(ctx, key).Result()
		if err != nil {
			return decision, nil
		}
		if ttl < 0 {
			// The expiry from the first hit never landed; start one now so the
			// key cannot block a client forever.
			_ = l.client.PExpire(ctx, key, l.window).Err()
			ttl = l.window
		}
		decision.RetryAfter = ttl
	}

	return decision, nil
}
