package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"elephant-gateway/internal/cache"
	"elephant-gateway/internal/config"
	"elephant-gateway/internal/logger"
	"elephant-gateway/internal/model"
)

// Deps bundles common runtime dependencies for the gateway.
//
// Predictor is nil when the model artifact failed to load; LoadErr then holds
// the reason. Both are written once by Build and only read afterwards.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Predictor model.Predictor
	ModelInfo *model.Info
	LoadErr   error
	Cache     cache.Cache

	closers []io.Closer
}

// Build loads env, config, the model artifact at model.ArtifactPath and the cache.
// A model that fails to load is not an error: the gateway still serves, and
// every prediction fails with "Model not loaded".
func Build(ctx context.Context) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return Deps{}, err
	}

	out, logCloser := logger.Output(logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	log := logger.NewWithWriter(cfg.LogLevel, out)

	deps := Deps{
		Config:  cfg,
		Log:     log,
		closers: []io.Closer{logCloser},
	}
	deps.loadModel(model.ArtifactPath)

	c, err := buildCache(ctx, cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	deps.Cache = c
	deps.closers = append([]io.Closer{c}, deps.closers...)
	return deps, nil
}

// loadModel binds the predictor or records why it could not.
func (d *Deps) loadModel(path string) {
	ens, err := model.Load(path)
	if err != nil {
		d.LoadErr = err
		d.Log.Error("error loading model", "path", path, "err", err)
		return
	}
	info := ens.Info()
	d.Predictor = ens
	d.ModelInfo = &info
	d.Log.Info("model loaded successfully",
		"path", path,
		"model_id", info.ID,
		"trees", info.Trees,
		"num_features", info.NumFeatures,
		"num_classes", info.NumClasses,
	)
}

// Close releases the cache and the log file, in that order.
func (d Deps) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "", "none":
		return cache.NewNoOpCache(), nil
	case "memory":
		log.Info("using in-memory prediction cache", "size", cfg.CacheSize, "ttl", cfg.CacheTTLDuration())
		return cache.NewMemoryCache(cfg.CacheSize, cfg.CacheTTLDuration()), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, prediction cache disabled", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis prediction cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTLDuration())
		return rc, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, memory, redis)", cfg.CacheProvider)
	}
}
