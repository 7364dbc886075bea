package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of one rate-limit check.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts requests per key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
