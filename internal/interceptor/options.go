package interceptor

import (
	"io"
	"log/slog"
	"time"
)

const (
	DefaultRefreshThreshold = 10 * time.Second
	DefaultRefreshTimeout   = 15 * time.Second
)

type interceptorConfig struct {
	Paths            Paths
	RefreshThreshold time.Duration
	RefreshTimeout   time.Duration
	Logger           *slog.Logger
	Metrics          *Metrics
	Now              func() time.Time
}

type interceptorOption func(cfg *interceptorConfig)

func defaultConfig() interceptorConfig {
	return interceptorConfig{
		Paths:            DefaultPaths(),
		RefreshThreshold: DefaultRefreshThreshold,
		RefreshTimeout:   DefaultRefreshTimeout,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:              time.Now,
	}
}

func WithPaths(paths Paths) interceptorOption {
	return func(cfg *interceptorConfig) {
		cfg.Paths = paths
	}
}

// WithRefreshThreshold sets the minimum remaining lifetime at which an access token is still trusted.
func WithRefreshThreshold(threshold time.Duration) interceptorOption {
	return func(cfg *interceptorConfig) {
		cfg.RefreshThreshold = threshold
	}
}

// WithRefreshTimeout bounds a single refresh exchange.
func WithRefreshTimeout(timeout time.Duration) interceptorOption {
	return func(cfg *interceptorConfig) {
		cfg.RefreshTimeout = timeout
	}
}

func WithLogger(logger *slog.Logger) interceptorOption {
	return func(cfg *interceptorConfig) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

func WithMetrics(metrics *Metrics) interceptorOption {
	return func(cfg *interceptorConfig) {
		cfg.Metrics = metrics
	}
}

func WithClock(now func() time.Time) interceptorOption {
	return func(cfg *interceptorConfig) {
		if now != nil {
			cfg.Now = now
		}
	}
}
