package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/ratelimit"
)

func tightLimits() map[ratelimit.Category]ratelimit.Limits {
	return map[ratelimit.Category]ratelimit.Limits{
		ratelimit.CategoryGeneral:   {Window: time.Second, MaxInWindow: 3, BurstSize: 2, BurstReset: 500 * time.Millisecond},
		ratelimit.CategoryBroadcast: {Window: time.Second, MaxInWindow: 2, BurstSize: 1, BurstReset: 500 * time.Millisecond},
	}
}

func TestCheckAndRecordEnforcesBurst(t *testing.T) {
	tr := ratelimit.NewRateTracker(tightLimits())
	now := time.Now()

	require.True(t, tr.CheckAndRecord(ratelimit.CategoryGeneral, now))
	require.True(t, tr.CheckAndRecord(ratelimit.CategoryGeneral, now))
	require.False(t, tr.CheckAndRecord(ratelimit.CategoryGeneral, now)) // burst exhausted
}

func TestCheckAndRecordWindowSlides(t *testing.T) {
	tr := ratelimit.NewRateTracker(tightLimits())
	base := time.Now()

	require.True(t, tr.CheckAndRecord(ratelimit.CategoryBroadcast, base))
	require.False(t, tr.CheckAndRecord(ratelimit.CategoryBroadcast, base.Add(10*time.Millisecond)))

	// After the window fully elapses, the same agent can post again.
	require.True(t, tr.CheckAndRecord(ratelimit.CategoryBroadcast, base.Add(2*time.Second)))
}

func TestCategoriesAreIndependent(t *testing.T) {
	tr := ratelimit.NewRateTracker(tightLimits())
	now := time.Now()
	require.True(t, tr.CheckAndRecord(ratelimit.CategoryGeneral, now))
	require.True(t, tr.CheckAndRecord(ratelimit.CategoryBroadcast, now))
}

func TestRegistryTracksPerAgent(t *testing.T) {
	reg := ratelimit.NewRegistry(tightLimits())
	now := time.Now()

	require.True(t, reg.CheckAndRecord("agent-a", ratelimit.CategoryGeneral, now))
	require.True(t, reg.CheckAndRecord("agent-a", ratelimit.CategoryGeneral, now))
	require.False(t, reg.CheckAndRecord("agent-a", ratelimit.CategoryGeneral, now))

	// A different agent has its own independent budget.
	require.True(t, reg.CheckAndRecord("agent-b", ratelimit.CategoryGeneral, now))
}
