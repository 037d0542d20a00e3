package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Load builds the effective configuration: defaults, then the YAML file at
// path (or the default config path when path is empty), then environment
// variables. A missing default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}

	LoadFromEnv(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("database.path", c.Database.Path)
	v.SetDefault("tracker.idle_timeout", c.Tracker.IdleTimeout)
	v.SetDefault("tracker.backend", c.Tracker.Backend)
	v.SetDefault("tracker.flush_on_shutdown", c.Tracker.FlushOnShutdown)
	v.SetDefault("tracker.x11_idle_poll", c.Tracker.X11IdlePoll)
	v.SetDefault("daemon.pid_file", c.Daemon.PIDFile)
	v.SetDefault("report.default_period", c.Report.DefaultPeriod)
	v.SetDefault("report.timezone", c.Report.TimeZone)
	v.SetDefault("web.host", c.Web.Host)
	v.SetDefault("web.port", c.Web.Port)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.file", c.Log.File)
	v.SetDefault("log.max_size_mb", c.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("log.max_age_days", c.Log.MaxAgeDays)
}
