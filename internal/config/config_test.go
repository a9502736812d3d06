package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env around
	t.Setenv(ConfigFileEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Server().Env)
	assert.Equal(t, 10*time.Second, cfg.Session().RefreshThreshold.Std())
	assert.Equal(t, "/login", cfg.Upstream().LoginPath)
	assert.Contains(t, cfg.Upstream().AuthPaths, "/register")
	assert.Equal(t, 5*time.Minute, cfg.Server().DevAccessTTL.Std())
	assert.False(t, cfg.Server().IsDev())
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UPSTREAM_DATA_URL=http://data.internal:4000\n"), 0o600))

	jsonFile := filepath.Join(dir, "authproxy.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"session": {"refresh_timeout": "3s"}, "server": {"env": "dev"}}`), 0o600))

	t.Setenv(ConfigFileEnv, jsonFile)
	t.Setenv("UPSTREAM_AUTH_URL", "http://auth.internal:3000")
	t.Setenv("SESSION_REFRESH_THRESHOLD", "20s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://auth.internal:3000", cfg.Upstream().AuthURL)
	assert.Equal(t, "http://data.internal:4000", cfg.Upstream().DataURL)
	assert.Equal(t, 20*time.Second, cfg.Session().RefreshThreshold.Std())
	assert.Equal(t, 3*time.Second, cfg.Session().RefreshTimeout.Std())
	assert.True(t, cfg.Server().IsDev())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "defaults-valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing-auth-url",
			mutate:  func(c *Config) { c.upstream.AuthURL = "" },
			wantErr: ErrMissingUpstream,
		},
		{
			name:    "zero-threshold",
			mutate:  func(c *Config) { c.session.RefreshThreshold = 0 },
			wantErr: ErrInvalidDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
