package cache

import (
	"context"
	"time"
)

// Cache memoizes label predictions keyed by model and input. It is a memo, not
// a store: entries expire, a miss just reruns the predictor, and nothing reads
// it back as a history of predictions.
type Cache interface {
	// GetLabels retrieves cached labels by key.
	// Returns nil if not found.
	GetLabels(ctx context.Context, key string) ([]string, error)

	// SetLabels stores labels with TTL.
	SetLabels(ctx context.Context, key string, labels []string, ttl time.Duration) error

	// Close releases the cache's resources.
	Close() error
}
