// Package config loads MASC-MCP's runtime configuration through viper:
// built-in defaults, an optional yaml/json/toml file, and MASC_-prefixed
// environment variables. Keys are dotted ("room.name", "auth.enabled");
// the matching environment variable replaces the dots with underscores
// (MASC_ROOM_NAME, MASC_AUTH_ENABLED). No command-line flag is bound here.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Room struct {
		Name        string `mapstructure:"name"`
		StorageDir  string `mapstructure:"storage_dir"`
	} `mapstructure:"room"`

	Server struct {
		Transport string `mapstructure:"transport"` // "stdio" or "websocket"; mascd serves stdio whatever the value
		Addr      string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Auth struct {
		Enabled    bool          `mapstructure:"enabled"`
		DefaultTTL time.Duration `mapstructure:"default_ttl"`
	} `mapstructure:"auth"`

	Crypto struct {
		Enabled bool   `mapstructure:"enabled"`
		KeyHex  string `mapstructure:"key_hex"`
	} `mapstructure:"crypto"`

	RateLimit struct {
		GeneralPerMinute   int `mapstructure:"general_per_minute"`
		BroadcastPerMinute int `mapstructure:"broadcast_per_minute"`
		TaskOpsPerMinute   int `mapstructure:"task_ops_per_minute"`
	} `mapstructure:"rate_limit"`

	Retry struct {
		MaxAttempts       int           `mapstructure:"max_attempts"`
		IdempotencyTTL    time.Duration `mapstructure:"idempotency_ttl"`
		SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	} `mapstructure:"retry"`

	Log struct {
		Level string `mapstructure:"level"` // debug, info, warn, error
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"log"`

	Admin struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"admin"`
}

// Load builds a Config from (in ascending priority) defaults, an optional
// config file at path, and MASC_-prefixed environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("masc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("room.name", "default")
	v.SetDefault("room.storage_dir", "./data")
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.addr", ":8765")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.default_ttl", 24*time.Hour)
	v.SetDefault("crypto.enabled", false)
	v.SetDefault("rate_limit.general_per_minute", 120)
	v.SetDefault("rate_limit.broadcast_per_minute", 30)
	v.SetDefault("rate_limit.task_ops_per_minute", 60)
	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.idempotency_ttl", 10*time.Minute)
	v.SetDefault("retry.sweep_interval", time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)
	v.SetDefault("admin.enabled", false)
	v.SetDefault("admin.addr", ":9090")
}
