package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/daemon"
	"github.com/appusage/appusage/pkg/detector"
	"github.com/appusage/appusage/pkg/integrations/wayland"
	"github.com/appusage/appusage/pkg/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracker status and the last recorded session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		running, pid, err := daemon.New(cfg.Daemon.PIDFile).IsRunning()
		if err != nil {
			return fmt.Errorf("failed to check tracker status: %w", err)
		}

		if running {
			fmt.Printf("Status: Running (PID: %d)\n", pid)
		} else {
			fmt.Println("Status: Not running")
		}

		backend := cfg.Tracker.Backend
		detected := detector.DetectDisplayServer()
		fmt.Printf("Backend: %s (detected: %s)\n", backend, detected)
		if detected == "wayland" {
			if compositor := wayland.Compositor(); compositor != "unknown" {
				fmt.Printf("Compositor: %s\n", compositor)
			}
		}
		fmt.Printf("Idle Timeout: %v\n", cfg.Tracker.IdleTimeout)

		dbPath, err := databasePath()
		if err != nil {
			return err
		}
		fmt.Printf("Database: %s\n", dbPath)

		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		latest, err := repo.GetLatest()
		if err != nil {
			return err
		}
		if latest != nil {
			fmt.Printf("\nLast Session:\n")
			fmt.Printf("  App: %s\n", latest.AppName)
			fmt.Printf("  Ended: %s\n", latest.End().Format(time.DateTime))
			fmt.Printf("  Duration: %s\n", utils.FormatMillis(latest.Duration))
		}

		return nil
	},
}
