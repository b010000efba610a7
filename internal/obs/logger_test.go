package obs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/obs"
)

func TestBuildLoggerAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := obs.BuildLogger(level, false)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestBuildLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := obs.BuildLogger("bogus", false)
	require.Error(t, err)
}
