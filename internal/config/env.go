package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("APPUSAGE_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Tracker configuration
	if idleTimeout := os.Getenv("APPUSAGE_IDLE_TIMEOUT"); idleTimeout != "" {
		if seconds, err := strconv.Atoi(idleTimeout); err == nil && seconds > 0 {
			timeout := time.Duration(seconds) * time.Second
			if timeout >= cfg.Tracker.MinIdleTimeout && timeout <= cfg.Tracker.MaxIdleTimeout {
				cfg.Tracker.IdleTimeout = timeout
			}
		}
	}

	if backend := os.Getenv("APPUSAGE_BACKEND"); backend != "" {
		cfg.Tracker.Backend = backend
	}

	if flush := os.Getenv("APPUSAGE_FLUSH_ON_SHUTDOWN"); flush != "" {
		if val, err := strconv.ParseBool(flush); err == nil {
			cfg.Tracker.FlushOnShutdown = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("APPUSAGE_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Report configuration
	if timeZone := os.Getenv("APPUSAGE_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	// Web configuration
	if webHost := os.Getenv("APPUSAGE_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("APPUSAGE_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	// Log configuration
	if level := os.Getenv("APPUSAGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if format := os.Getenv("APPUSAGE_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}

	if file := os.Getenv("APPUSAGE_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
