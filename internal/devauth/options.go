package devauth

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type serverConfig struct {
	accessTTL    time.Duration
	refreshTTL   time.Duration
	passwordCost int
	logger       *slog.Logger
	now          func() time.Time
}

type serverOption func(cfg *serverConfig)

func defaultServerConfig() serverConfig {
	return serverConfig{
		accessTTL:    5 * time.Minute,
		refreshTTL:   24 * time.Hour,
		passwordCost: bcrypt.DefaultCost,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}
}

func WithTokenTTL(access, refresh time.Duration) serverOption {
	return func(cfg *serverConfig) {
		if access > 0 {
			cfg.accessTTL = access
		}
		if refresh > 0 {
			cfg.refreshTTL = refresh
		}
	}
}

// WithPasswordCost sets the bcrypt cost used for new accounts.
func WithPasswordCost(cost int) serverOption {
	return func(cfg *serverConfig) {
		cfg.passwordCost = cost
	}
}

func WithLogger(logger *slog.Logger) serverOption {
	return func(cfg *serverConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func WithClock(now func() time.Time) serverOption {
	return func(cfg *serverConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}
