package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from the environment
type Config struct {
	Host string `env:"HOST" envDefault:""`
	Port int    `env:"PORT" envDefault:"8080"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`

	RedisURL          string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`

	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from a .env file (if present) and the
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	// Missing .env is fine, the environment alone is enough
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.StorageType {
	case "memory", "redis":
	default:
		return errors.New("STORAGE_TYPE must be 'memory' or 'redis'")
	}
	if c.StorageType == "redis" && c.RedisURL == "" {
		return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
	}
	return nil
}
