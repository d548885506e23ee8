package inference

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"elephant-gateway/internal/cache"
	"elephant-gateway/internal/model"
)

// Classifier validates payloads, runs the predictor and decodes labels.
// It holds no mutable state of its own and is safe for concurrent use.
type Classifier struct {
	predictor model.Predictor
	modelID   string
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *slog.Logger
}

// Option customises a Classifier.
type Option func(*Classifier)

// WithCache memoizes label lists in c for ttl, namespaced by modelID.
func WithCache(c cache.Cache, modelID string, ttl time.Duration) Option {
	return func(cl *Classifier) {
		cl.cache = c
		cl.modelID = modelID
		cl.cacheTTL = ttl
	}
}

// NewClassifier wraps p. A nil predictor yields a Classifier that rejects
// every request with ErrModelNotLoaded.
func NewClassifier(p model.Predictor, log *slog.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		predictor: p,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ready reports ErrModelNotLoaded when no predictor is bound.
func (c *Classifier) Ready() error {
	if c.predictor == nil {
		return ErrModelNotLoaded
	}
	return nil
}

// Classify returns one label per input row, in input order. Every failure is an *Error.
func (c *Classifier) Classify(ctx context.Context, payload any) ([]string, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	rows, err := Normalize(payload)
	if err != nil {
		return nil, err
	}

	var key string
	if c.cache != nil {
		key = cache.GenerateCacheKey(c.modelID, rows)
		if cached, err := c.cache.GetLabels(ctx, key); err != nil {
			c.log.Warn("cache read failed", "err", err)
		} else if len(cached) == len(rows) {
			c.log.Debug("cache hit", "rows", len(rows))
			return cached, nil
		}
	}

	classes, err := c.predictor.Predict(rows)
	if err != nil {
		return nil, badInput(StepPredict, err.Error(), err)
	}
	if len(classes) != len(rows) {
		return nil, badInput(StepPredict, fmt.Sprintf("predictor returned %d classes for %d samples", len(classes), len(rows)), nil)
	}

	labels := make([]string, len(classes))
	for i, class := range classes {
		labels[i] = string(model.LabelFor(class))
	}

	if c.cache != nil {
		if err := c.cache.SetLabels(ctx, key, labels, c.cacheTTL); err != nil {
			// Log cache write failure but don't fail the request
			c.log.Warn("failed to cache prediction", "err", err)
		}
	}
	return labels, nil
}
