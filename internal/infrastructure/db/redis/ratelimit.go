package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campussutras/campus-api/internal/core/ports"
)

// RateLimiter is a fixed-window request counter backed by Redis, shared by
// every process that talks to the same instance.
// Key format: ratelimit:<key>:<window_start_unix>
type RateLimiter struct {
	client redis.Cmdable
	max    int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows max requests per key in each window.
func NewRateLimiter(client redis.Cmdable, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window, now: time.Now}
}

// Allow increments the counter for key and reports whether the request fits
// in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	start := l.now().Truncate(l.window)
	reset := start.Add(l.window)
	k := fmt.Sprintf("ratelimit:%s:%d", key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{Allowed: true, Limit: l.max, Remaining: l.max, ResetAt: reset},
			fmt.Errorf("rate limit: %w", err)
	}

	count := int(incr.Val())
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateDecision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   reset,
	}, nil
}
