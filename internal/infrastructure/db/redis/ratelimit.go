package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/legaltech/case-management/internal/core/ports"
)

var _ ports.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: ratelimit:<subject>:<window start unix>
type RateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	nowFn  func() time.Time
}

// NewRateLimiter allows limit requests per subject in every window.
func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: limit, window: window, nowFn: time.Now}
}

// Allow counts one request for subject and reports whether it fits in the
// current window.
func (l *RateLimiter) Allow(ctx context.Context, subject string) (ports.RateDecision, error) {
	now := l.nowFn()
	start := now.Truncate(l.window)
	key := l.key(subject, start)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit check: %w", err)
	}

	return l.decide(int(incr.Val()), start, now), nil
}

func (l *RateLimiter) decide(count int, windowStart, now time.Time) ports.RateDecision {
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	reset := windowStart.Add(l.window)
	return ports.RateDecision{
		Allowed:    count <= l.limit,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAt:    reset,
		RetryAfter: reset.Sub(now),
	}
}

func (l *RateLimiter) key(subject string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", subject, windowStart.Unix())
}
