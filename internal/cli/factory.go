package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/blend"
	"github.com/aretw0/blend/internal/config"
	"github.com/aretw0/blend/internal/logging"
	"github.com/aretw0/blend/pkg/adapters/file"
	"github.com/aretw0/blend/pkg/adapters/memory"
	"github.com/aretw0/blend/pkg/adapters/redis"
	"github.com/prometheus/client_golang/prometheus"
)

const lockTTL = 30 * time.Second

// CreateLogger configures the application logger. Debug overrides the configured level.
func CreateLogger(debug bool, level string) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// NewApp builds an App from configuration: store driver, registry file,
// session and suggestion settings.
func NewApp(cfg config.Config, logger *slog.Logger) (*blend.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []blend.Option{
		blend.WithLogger(logger),
		blend.WithMetrics(prometheus.NewRegistry()),
		blend.WithBlurGrace(cfg.Session.BlurGrace),
		blend.WithSuggestionLimit(cfg.Suggest.Limit),
		blend.WithExcludeUsed(cfg.Session.ExcludeUsed),
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		opts = append(opts, blend.WithStore(memory.NewStore()))
	case config.DriverFile:
		opts = append(opts, blend.WithStore(file.New(cfg.Store.Path)))
	case config.DriverRedis:
		rc := cfg.Store.Redis
		storeOpts := []redis.Option{redis.WithTTL(rc.TTL)}
		if rc.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(rc.Prefix))
		}
		store := redis.New(rc.Addr, rc.Password, rc.DB, storeOpts...)
		opts = append(opts,
			blend.WithStore(store),
			blend.WithLocker(redis.NewLocker(store.Client(), lockPrefix(rc.Prefix)), lockTTL),
			blend.WithCloser(store),
		)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Registry.Path != "" {
		opts = append(opts, blend.WithRegistry(file.NewRegistry(cfg.Registry.Path)))
	}

	logger.Debug("App configured",
		"store", cfg.Store.Driver,
		"registry", cfg.Registry.Path,
		"blur_grace", cfg.Session.BlurGrace,
	)
	return blend.New(opts...), nil
}

// lockPrefix keeps lock keys next to the store keys.
func lockPrefix(storePrefix string) string {
	if storePrefix == "" {
		storePrefix = redis.DefaultPrefix
	}
	return storePrefix
}
