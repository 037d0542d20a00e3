package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/usage.db
tracker:
  idle_timeout: 2m
  backend: x11
  flush_on_shutdown: false
web:
  port: 9123
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/usage.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Minute, cfg.Tracker.IdleTimeout)
	assert.Equal(t, BackendX11, cfg.Tracker.Backend)
	assert.False(t, cfg.Tracker.FlushOnShutdown)
	assert.Equal(t, 9123, cfg.Web.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// untouched keys keep their defaults
	assert.Equal(t, 5*time.Second, cfg.Tracker.X11IdlePoll)
	assert.Equal(t, "localhost", cfg.Web.Host)
	assert.Equal(t, time.Second, cfg.Tracker.MinIdleTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tracker:\n  idle_timeout: 2m\n")
	t.Setenv("APPUSAGE_IDLE_TIMEOUT", "45")
	t.Setenv("APPUSAGE_DB_PATH", "/var/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Tracker.IdleTimeout)
	assert.Equal(t, "/var/tmp/other.db", cfg.Database.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Tracker.IdleTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"idle too short", func(c *Config) { c.Tracker.IdleTimeout = 10 * time.Millisecond }, true},
		{"idle too long", func(c *Config) { c.Tracker.IdleTimeout = 48 * time.Hour }, true},
		{"unknown backend", func(c *Config) { c.Tracker.Backend = "mir" }, true},
		{"zero x11 poll", func(c *Config) { c.Tracker.X11IdlePoll = 0 }, true},
		{"bad period", func(c *Config) { c.Report.DefaultPeriod = "year" }, true},
		{"bad zone", func(c *Config) { c.Report.TimeZone = "Nowhere/Special" }, true},
		{"utc zone", func(c *Config) { c.Report.TimeZone = "UTC" }, false},
		{"bad port", func(c *Config) { c.Web.Port = 70000 }, true},
		{"empty host", func(c *Config) { c.Web.Host = "" }, true},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromEnvIgnoresOutOfRangeIdleTimeout(t *testing.T) {
	t.Setenv("APPUSAGE_IDLE_TIMEOUT", "999999")

	cfg := New()
	assert.Equal(t, 30*time.Second, cfg.Tracker.IdleTimeout)
}
