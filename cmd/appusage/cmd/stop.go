package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/daemon"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background tracker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dm := daemon.New(cfg.Daemon.PIDFile)

		_, pid, _ := dm.IsRunning()
		if err := dm.Stop(); err != nil {
			if errors.Is(err, daemon.ErrNotRunning) {
				fmt.Println("Tracker is not running")
				return nil
			}
			return err
		}

		fmt.Printf("Sent stop signal to tracker (PID: %d)\n", pid)
		return nil
	},
}
