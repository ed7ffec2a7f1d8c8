package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window limiter backed by a shared Redis
// counter, for deployments running more than one gateway instance. INCR is
// atomic on the server, so concurrent instances see a single counter.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: "ratelimit"}
}

// Allow reports whether the identifier may proceed in the current window.
func (l *RedisRateLimiter) Allow(ctx context.Context, identifier string, maxRequests int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("%s:%s", l.prefix, identifier)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		// First hit in the window owns the expiry.
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(maxRequests), nil
}
