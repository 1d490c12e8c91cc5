package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	Environment string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string        `env:"LOG_LEVEL" envDefault:"info"`
	WorldFile   string        `env:"WORLD_FILE"` // empty uses the embedded Ashborne content
	Storage     string        `env:"STORAGE" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	MaxHealth   int           `env:"MAX_HEALTH" envDefault:"100"`
	RNGSeed     int64         `env:"RNG_SEED" envDefault:"0"` // 0 seeds each session from crypto/rand

	LogLevel slog.Level
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	cfg.Storage = strings.ToLower(cfg.Storage)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("invalid STORAGE %q: must be %q or %q", c.Storage, StorageMemory, StorageRedis)
	}
	if c.MaxHealth <= 0 {
		return fmt.Errorf("invalid MAX_HEALTH %d: must be positive", c.MaxHealth)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("invalid SESSION_TTL %s: must not be negative", c.SessionTTL)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
