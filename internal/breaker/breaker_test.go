package breaker_test

import (
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/breaker"
)

func fastSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	}
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	r := breaker.NewRegistry(fastSettings)

	for i := 0; i < 2; i++ {
		done, err := r.Allow("downstream")
		require.NoError(t, err)
		done(false)
	}

	_, err := r.Allow("downstream")
	require.ErrorIs(t, err, breaker.ErrOpen)
}

func TestCircuitRecoversAfterTimeout(t *testing.T) {
	r := breaker.NewRegistry(fastSettings)
	for i := 0; i < 2; i++ {
		done, err := r.Allow("downstream")
		require.NoError(t, err)
		done(false)
	}
	_, err := r.Allow("downstream")
	require.ErrorIs(t, err, breaker.ErrOpen)

	time.Sleep(20 * time.Millisecond)
	done, err := r.Allow("downstream")
	require.NoError(t, err)
	done(true)

	done, err = r.Allow("downstream")
	require.NoError(t, err)
	done(true)
}

func TestResetClearsCircuitState(t *testing.T) {
	r := breaker.NewRegistry(fastSettings)
	for i := 0; i < 2; i++ {
		done, _ := r.Allow("downstream")
		done(false)
	}
	_, err := r.Allow("downstream")
	require.ErrorIs(t, err, breaker.ErrOpen)

	r.Reset("downstream")
	_, err = r.Allow("downstream")
	require.NoError(t, err)
}

func TestStatusAllReportsKnownCircuits(t *testing.T) {
	r := breaker.NewRegistry(nil)
	done, err := r.Allow("svc-a")
	require.NoError(t, err)
	done(true)

	statuses := r.StatusAll()
	require.Len(t, statuses, 1)
	require.Equal(t, "svc-a", statuses[0].Name)
}
