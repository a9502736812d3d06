package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vitistack/authproxy/internal/utils/timesutil"
	"github.com/vitistack/authproxy/pkg/loaders"
)

// ConfigFileEnv names the environment variable pointing at an optional JSON config file.
const ConfigFileEnv = "AUTHPROXY_CONFIG"

type Config struct {
	server   Server
	upstream Upstream
	session  Session
}

func (c *Config) Server() *Server {
	return &c.server
}

func (c *Config) Upstream() *Upstream {
	return &c.upstream
}

func (c *Config) Session() *Session {
	return &c.session
}

// Server configuration
type Server struct {
	Env              string             `env:"SRV_ENV" json:"env"`
	Addr             string             `env:"SRV_ADDR" json:"addr"`
	DevBackendAddr   string             `env:"SRV_DEV_BACKEND_ADDR" json:"dev_backend_addr"`
	DevBackendSecret string             `env:"SRV_DEV_BACKEND_SECRET" json:"-"`
	DevAccessTTL     timesutil.Duration `env:"SRV_DEV_ACCESS_TTL" json:"dev_access_ttl"`
	DevRefreshTTL    timesutil.Duration `env:"SRV_DEV_REFRESH_TTL" json:"dev_refresh_ttl"`
}

// Upstream configuration, the two backend hosts and which paths belong to the auth host
type Upstream struct {
	AuthURL     string   `env:"UPSTREAM_AUTH_URL" json:"auth_url"`
	DataURL     string   `env:"UPSTREAM_DATA_URL" json:"data_url"`
	AuthPaths   []string `env:"UPSTREAM_AUTH_PATHS" json:"auth_paths"`
	LoginPath   string   `env:"UPSTREAM_LOGIN_PATH" json:"login_path"`
	LogoutPath  string   `env:"UPSTREAM_LOGOUT_PATH" json:"logout_path"`
	RefreshPath string   `env:"UPSTREAM_REFRESH_PATH" json:"refresh_path"`
}

// Session configuration, token refresh scheduling and network bounds
type Session struct {
	RefreshThreshold timesutil.Duration `env:"SESSION_REFRESH_THRESHOLD" json:"refresh_threshold"`
	RefreshTimeout   timesutil.Duration `env:"SESSION_REFRESH_TIMEOUT" json:"refresh_timeout"`
	HTTPTimeout      timesutil.Duration `env:"SESSION_HTTP_TIMEOUT" json:"http_timeout"`
}

type fileDocument struct {
	Server   *Server   `json:"server"`
	Upstream *Upstream `json:"upstream"`
	Session  *Session  `json:"session"`
}

func defaults() *Config {
	return &Config{
		server: Server{
			Env:           "prod",
			Addr:          "127.0.0.1:8080",
			DevAccessTTL:  timesutil.FromDuration(5 * time.Minute),
			DevRefreshTTL: timesutil.FromDuration(24 * time.Hour),
		},
		upstream: Upstream{
			AuthURL:     "http://localhost:3000",
			DataURL:     "http://localhost:4000",
			AuthPaths:   []string{"/login", "/logout", "/refresh", "/register"},
			LoginPath:   "/login",
			LogoutPath:  "/logout",
			RefreshPath: "/refresh",
		},
		session: Session{
			RefreshThreshold: timesutil.FromDuration(10 * time.Second),
			RefreshTimeout:   timesutil.FromDuration(15 * time.Second),
			HTTPTimeout:      timesutil.FromDuration(30 * time.Second),
		},
	}
}

// Load builds the configuration from defaults, the environment, a .env file and
// the JSON file named by AUTHPROXY_CONFIG, in that order. The last one wins.
func Load() (*Config, error) {
	cfg := defaults()

	loader := loaders.NewChainLoader(
		loaders.NewEnvloader(),
		loaders.NewFileLoader(".env"),
	)

	sections := []any{
		&cfg.server,
		&cfg.upstream,
		&cfg.session,
	}

	for _, section := range sections {
		if err := loader.Load(section); err != nil {
			return nil, err
		}
	}

	doc := &fileDocument{
		Server:   &cfg.server,
		Upstream: &cfg.upstream,
		Session:  &cfg.session,
	}
	if err := loaders.NewFileLoader(os.Getenv(ConfigFileEnv)).Load(doc); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var (
	ErrMissingUpstream = errors.New("upstream url is required")
	ErrInvalidDuration = errors.New("duration must be positive")
)

func (c *Config) Validate() error {
	if c.upstream.AuthURL == "" || c.upstream.DataURL == "" {
		return ErrMissingUpstream
	}

	durations := map[string]timesutil.Duration{
		"refresh_threshold": c.session.RefreshThreshold,
		"refresh_timeout":   c.session.RefreshTimeout,
		"http_timeout":      c.session.HTTPTimeout,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDuration, name)
		}
	}

	return nil
}

// IsDev reports whether the server runs in a development environment.
func (s *Server) IsDev() bool {
	switch s.Env {
	case "development", "dev", "DEV":
		return true
	}
	return false
}
