package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"elephant-gateway/internal/retry"
)

const (
	// Key prefix for cached predictions
	cacheKeyPrefix = "prediction:"

	// Used when a caller passes no TTL; Redis would otherwise keep the key forever.
	defaultTTL = 5 * time.Minute
)

// RedisCache shares the label memo across gateway replicas. Every key is
// written with a TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client, pinging it up to three times.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := retry.Do(ctx, 3, 200*time.Millisecond, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
	}, nil
}

// GetLabels retrieves cached labels by key
func (c *RedisCache) GetLabels(ctx context.Context, key string) ([]string, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// SetLabels stores labels with TTL
func (c *RedisCache) SetLabels(ctx context.Context, key string, labels []string, ttl time.Duration) error {
	data, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, ttl).Err()
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
