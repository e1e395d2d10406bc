package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// LimitResult describes the state of one fixed window after a hit.
type LimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter counts hits per key in fixed windows using INCR and PEXPIRE.
type RateLimiter struct {
	client redis.Cmdable
}

func NewRateLimiter(client redis.Cmdable) *RateLimiter {
	return &RateLimiter{client: client}
}

func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (LimitResult, error) {
	fullKey := rateLimitKeyPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	ttl := pipe.PTTL(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return LimitResult{}, fmt.Errorf("failed to count hit for %s: %w", key, err)
	}

	count := incr.Val()
	resetIn := ttl.Val()
	// A fresh key, or one that lost its expiry, starts a new window.
	if count == 1 || resetIn < 0 {
		if err := l.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return LimitResult{}, fmt.Errorf("failed to set window for %s: %w", key, err)
		}
		resetIn = window
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return LimitResult{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
