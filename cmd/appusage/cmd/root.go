// Package cmd holds the appusage command tree.
package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/database"
	"github.com/appusage/appusage/internal/logging"
)

// Set by the linker.
var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

// daemonChildEnv marks the detached child started by "appusage start".
const daemonChildEnv = "APPUSAGE_DAEMON_CHILD"

var (
	configPath string
	logLevel   string
	logFile    string

	cfg       *config.Config
	logOutput io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "appusage",
	Short: "appusage - per-application focus time tracker",
	Long: `appusage records how long each application holds keyboard focus on a
Wayland (wlroots) or X11 desktop, excluding time the seat is idle, and
reports the totals.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logOutput != nil {
			_ = logOutput.Close()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wayland-appusage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", `log file, "-" for stderr`)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if logFile != "" {
		loaded.Log.File = logFile
	}
	if os.Getenv(daemonChildEnv) == "1" && loaded.Log.File == "" {
		loaded.Log.File = config.DefaultLogPath()
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	out, err := logging.Output(logging.FileOptions{
		Path:       loaded.Log.File,
		MaxSizeMB:  loaded.Log.MaxSizeMB,
		MaxBackups: loaded.Log.MaxBackups,
		MaxAgeDays: loaded.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	logging.Init(loaded.Log.Format, loaded.Log.Level, out)

	cfg = loaded
	logOutput = out
	return nil
}

// openRepository connects to the configured database and migrates it.
func openRepository() (*database.Repository, func(), error) {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return database.NewRepository(db), func() { db.Close() }, nil
}

// databasePath resolves the configured path, falling back to the XDG default.
func databasePath() (string, error) {
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	return database.GetDefaultDBPath()
}
