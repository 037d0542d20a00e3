package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const appDir = "wayland-appusage"

// Backend names accepted by Tracker.Backend.
const (
	BackendAuto    = "auto"
	BackendWayland = "wayland"
	BackendX11     = "x11"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Tracker configuration
	Tracker TrackerConfig `mapstructure:"tracker"`

	// Daemon configuration
	Daemon DaemonConfig `mapstructure:"daemon"`

	// Report configuration
	Report ReportConfig `mapstructure:"report"`

	// Web server configuration
	Web WebConfig `mapstructure:"web"`

	// Logging configuration
	Log LogConfig `mapstructure:"log"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // Path to SQLite database file
}

// TrackerConfig holds tracking behavior configuration
type TrackerConfig struct {
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`      // Inactivity before the compositor reports idle
	MinIdleTimeout  time.Duration `mapstructure:"-"`                 // Minimum allowed idle timeout
	MaxIdleTimeout  time.Duration `mapstructure:"-"`                 // Maximum allowed idle timeout
	Backend         string        `mapstructure:"backend"`           // auto, wayland or x11
	FlushOnShutdown bool          `mapstructure:"flush_on_shutdown"` // Record open sessions on graceful exit
	X11IdlePoll     time.Duration `mapstructure:"x11_idle_poll"`     // How often the X11 backend samples the idle counter
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `mapstructure:"pid_file"` // Path to PID file for daemon management
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	DefaultPeriod string `mapstructure:"default_period"`
	TimeZone      string `mapstructure:"timezone"`
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string `mapstructure:"host"` // Host to bind web server to
	Port int    `mapstructure:"port"` // Port for web server
}

// LogConfig holds logging configuration. An empty File or "-" logs to stderr.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means $XDG_DATA_HOME/wayland-appusage/app_usage.db
		},
		Tracker: TrackerConfig{
			IdleTimeout:     30 * time.Second,
			MinIdleTimeout:  time.Second,
			MaxIdleTimeout:  24 * time.Hour,
			Backend:         BackendAuto,
			FlushOnShutdown: true,
			X11IdlePoll:     5 * time.Second,
		},
		Daemon: DaemonConfig{
			PIDFile: filepath.Join(xdg.RuntimeDir, "appusage.pid"),
		},
		Report: ReportConfig{
			DefaultPeriod: "day",
			TimeZone:      "Local",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(), // Default port based on user ID
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/wayland-appusage/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.yaml")
}

// DefaultLogPath returns $XDG_STATE_HOME/wayland-appusage/appusage.log, used
// when the tracker runs detached.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appDir, "appusage.log")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate tracker settings
	if c.Tracker.IdleTimeout < c.Tracker.MinIdleTimeout {
		return fmt.Errorf("idle timeout (%v) cannot be less than minimum (%v)",
			c.Tracker.IdleTimeout, c.Tracker.MinIdleTimeout)
	}

	if c.Tracker.IdleTimeout > c.Tracker.MaxIdleTimeout {
		return fmt.Errorf("idle timeout (%v) cannot be greater than maximum (%v)",
			c.Tracker.IdleTimeout, c.Tracker.MaxIdleTimeout)
	}

	switch c.Tracker.Backend {
	case BackendAuto, BackendWayland, BackendX11:
	default:
		return fmt.Errorf("unknown backend %q (want auto, wayland or x11)", c.Tracker.Backend)
	}

	if c.Tracker.X11IdlePoll <= 0 {
		return fmt.Errorf("x11 idle poll interval must be positive")
	}

	// Validate report config
	switch c.Report.DefaultPeriod {
	case "day", "week", "month", "all":
	default:
		return fmt.Errorf("unknown default report period %q", c.Report.DefaultPeriod)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// SetIdleTimeout sets the idle timeout with validation
func (c *Config) SetIdleTimeout(timeout time.Duration) error {
	if timeout < c.Tracker.MinIdleTimeout {
		return fmt.Errorf("idle timeout cannot be less than %v", c.Tracker.MinIdleTimeout)
	}
	if timeout > c.Tracker.MaxIdleTimeout {
		return fmt.Errorf("idle timeout cannot be greater than %v", c.Tracker.MaxIdleTimeout)
	}
	c.Tracker.IdleTimeout = timeout
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// IdleTimeoutMillis returns the idle timeout in the unit the idle protocol expects.
func (c *Config) IdleTimeoutMillis() uint32 {
	return uint32(c.Tracker.IdleTimeout.Milliseconds())
}

// Location resolves Report.TimeZone.
func (c *Config) Location() (*time.Location, error) {
	if c.Report.TimeZone == "" || c.Report.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Report.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Report.TimeZone, err)
	}
	return loc, nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Tracker:
    Idle Timeout: %v
    Backend: %s
    Flush On Shutdown: %v
    X11 Idle Poll: %v
  Daemon:
    PID File: %s
  Report:
    Default Period: %s
    Time Zone: %s
  Web:
    Host: %s
    Port: %d
  Log:
    Level: %s
    Format: %s
    File: %s`,
		c.Database.Path,
		c.Tracker.IdleTimeout,
		c.Tracker.Backend,
		c.Tracker.FlushOnShutdown,
		c.Tracker.X11IdlePoll,
		c.Daemon.PIDFile,
		c.Report.DefaultPeriod,
		c.Report.TimeZone,
		c.Web.Host,
		c.Web.Port,
		c.Log.Level,
		c.Log.Format,
		c.Log.File,
	)
}
