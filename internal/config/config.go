package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration for the gateway.
type Config struct {
	// Server
	Port            int           `env:"PORT" envDefault:"5000" validate:"min=1,max=65535"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760" validate:"gt=0"` // 10MB in bytes
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	CORSAllowOrigin string        `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`

	// Logging
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile       string `env:"LOG_FILE"` // empty means stdout only
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100" validate:"gt=0"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3" validate:"gte=0"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28" validate:"gte=0"`

	// Cache memoizes labels for repeated inputs. Entries expire after CacheTTL and
	// are never read back as a record of past predictions.
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none" validate:"oneof=none memory redis"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"300" validate:"gt=0"` // seconds
	CacheSize     int    `env:"CACHE_SIZE" envDefault:"1024" validate:"gt=0"`
	RedisAddr     string `env:"REDIS_ADDR" validate:"required_if=CacheProvider redis"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate reports the first set of constraint violations in cfg.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CacheTTLDuration converts CacheTTL to a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}
