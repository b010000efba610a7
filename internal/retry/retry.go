// Package retry implements exponential backoff with jitter via
// cenkalti/backoff/v5, and an idempotency-key store with a gocron-driven
// background sweeper for TTL cleanup.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy configures WithRetry's backoff shape.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultPolicy mirrors a typical conservative client retry shape: five
// attempts, starting at 200ms, capped at 5s.
var DefaultPolicy = Policy{
	MaxAttempts:     5,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	Multiplier:      2.0,
}

func (p Policy) backoffPolicy() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxInterval = p.MaxInterval
	eb.Multiplier = p.Multiplier
	return eb
}

// CalculateDelay returns the backoff delay for the given attempt number
// (0-indexed) under policy, ignoring jitter, for callers that want a
// deterministic preview of the schedule.
func CalculateDelay(p Policy, attempt int) time.Duration {
	delay := p.InitialInterval
	for i := 0; i < attempt; i++ {
		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxInterval {
			return p.MaxInterval
		}
	}
	return delay
}

// WithRetry runs op until it succeeds, returns a non-retryable error, or
// the policy's attempt budget is exhausted.
func WithRetry(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op(ctx)
	}, backoff.WithBackOff(p.backoffPolicy()), backoff.WithMaxTries(uint(p.MaxAttempts)))
	return err
}

// Permanent wraps err so WithRetry stops retrying immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
