package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process LRU with a single TTL for all entries.
type MemoryCache struct {
	lru *expirable.LRU[string, []string]
}

// NewMemoryCache creates an LRU holding at most size entries, each living ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, []string](size, nil, ttl)}
}

// GetLabels returns a copy of the cached labels, or nil on miss.
func (c *MemoryCache) GetLabels(_ context.Context, key string) ([]string, error) {
	labels, ok := c.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return append([]string(nil), labels...), nil
}

// SetLabels stores a copy of labels. The per-call ttl is ignored; the LRU was
// built with a fixed TTL.
func (c *MemoryCache) SetLabels(_ context.Context, key string, labels []string, _ time.Duration) error {
	c.lru.Add(key, append([]string(nil), labels...))
	return nil
}

// Close purges all entries.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
