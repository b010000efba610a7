package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/retry"
)

func TestWithRetrySucceedsEventually(t *testing.T) {
	attempts := 0
	policy := retry.Policy{MaxAttempts: 5, InitialInterval: time.Millisecond, MaxInterval: 10 * time.Millisecond, Multiplier: 2}
	err := retry.WithRetry(context.Background(), policy, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnPermanent(t *testing.T) {
	attempts := 0
	sentinel := errors.New("fatal")
	policy := retry.Policy{MaxAttempts: 5, InitialInterval: time.Millisecond, MaxInterval: 10 * time.Millisecond, Multiplier: 2}
	err := retry.WithRetry(context.Background(), policy, func(ctx context.Context) error {
		attempts++
		return retry.Permanent(sentinel)
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestCalculateDelayGrowsAndCaps(t *testing.T) {
	p := retry.Policy{InitialInterval: 100 * time.Millisecond, MaxInterval: 300 * time.Millisecond, Multiplier: 2}
	require.Equal(t, 100*time.Millisecond, retry.CalculateDelay(p, 0))
	require.Equal(t, 200*time.Millisecond, retry.CalculateDelay(p, 1))
	require.Equal(t, 300*time.Millisecond, retry.CalculateDelay(p, 2))
	require.Equal(t, 300*time.Millisecond, retry.CalculateDelay(p, 5))
}

func TestIdempotencyStorePutGetExpires(t *testing.T) {
	store := retry.NewIdempotencyStore(10*time.Millisecond, nil)
	store.Put("key-1", "result", nil)

	result, err, ok := store.Get("key-1")
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, "result", result)

	time.Sleep(20 * time.Millisecond)
	_, _, ok = store.Get("key-1")
	require.False(t, ok)
}

func TestIdempotencyStoreSweeper(t *testing.T) {
	store := retry.NewIdempotencyStore(5*time.Millisecond, nil)
	store.Put("key-1", "result", nil)
	require.NoError(t, store.StartSweeper(10*time.Millisecond))
	defer store.StopSweeper(context.Background())

	time.Sleep(60 * time.Millisecond)
	count, running := store.Status()
	require.True(t, running)
	require.Equal(t, 0, count)
}
