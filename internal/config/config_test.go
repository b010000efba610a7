package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/config"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Room.Name)
	require.Equal(t, "stdio", cfg.Server.Transport)
	require.Equal(t, 120, cfg.RateLimit.GeneralPerMinute)
	require.False(t, cfg.Auth.Enabled)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load("/nonexistent/masc.yaml")
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Room.Name)
}
