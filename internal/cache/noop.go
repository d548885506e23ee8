package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when caching is disabled or Redis is unavailable - all operations succeed
// but no actual caching occurs (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetLabels always returns nil (cache miss)
func (c *NoOpCache) GetLabels(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}

// SetLabels does nothing and always succeeds
func (c *NoOpCache) SetLabels(ctx context.Context, key string, labels []string, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
