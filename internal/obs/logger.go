// Package obs builds the process's zap.Logger: a development (console)
// config below info, and a production (JSON) config at info and above or
// whenever JSON output is requested.
package obs

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger constructs a *zap.Logger for levelName ("debug", "info",
// "warn", "error"). json forces the production JSON encoder regardless of
// level; otherwise debug uses the human-readable development encoder.
func BuildLogger(levelName string, jsonOutput bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("obs: invalid log level %q: %w", levelName, err)
	}

	var cfg zap.Config
	if jsonOutput || level >= zapcore.InfoLevel {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("obs: building logger: %w", err)
	}
	return logger, nil
}
