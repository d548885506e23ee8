package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "MAX_BODY_BYTES", "SHUTDOWN_TIMEOUT", "CORS_ALLOW_ORIGIN",
	"LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
	"CACHE_PROVIDER", "CACHE_TTL", "CACHE_SIZE", "REDIS_ADDR", "REDIS_PASSWORD",
}

// clearEnv unsets every variable the config reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 5000},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"MaxBodyBytes", cfg.MaxBodyBytes, int64(10 << 20)},
		{"ShutdownTimeout", cfg.ShutdownTimeout, 10 * time.Second},
		{"CORSAllowOrigin", cfg.CORSAllowOrigin, "*"},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"CacheTTL", cfg.CacheTTL, 300},
		{"CacheSize", cfg.CacheSize, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_PROVIDER", "memory")
	t.Setenv("CACHE_TTL", "30")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.CacheProvider)
	assert.Equal(t, 30*time.Second, cfg.CacheTTLDuration())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"unknown cache provider", func(c *Config) { c.CacheProvider = "memcached" }, true},
		{"redis without address", func(c *Config) { c.CacheProvider = "redis" }, true},
		{"redis with address", func(c *Config) {
			c.CacheProvider = "redis"
			c.RedisAddr = "localhost:6379"
		}, false},
		{"zero body limit", func(c *Config) { c.MaxBodyBytes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := Load()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
