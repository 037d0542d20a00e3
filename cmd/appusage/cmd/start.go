package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/daemon"
)

var startWeb bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracker in the background",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv(daemonChildEnv) == "1" {
			return runTracker(cmd.Context(), startWeb)
		}

		running, pid, err := daemon.New(cfg.Daemon.PIDFile).IsRunning()
		if err != nil {
			return err
		}
		if running {
			return fmt.Errorf("%w (pid %d)", daemon.ErrAlreadyRunning, pid)
		}

		return daemonize()
	},
}

func init() {
	startCmd.Flags().BoolVar(&startWeb, "web", false, "also serve the HTTP API")
}

// daemonize re-executes the current command line detached from the
// terminal, in a new session.
func daemonize() error {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	procAttr := &os.ProcAttr{
		Env:   append(os.Environ(), daemonChildEnv+"=1"),
		Files: []*os.File{nil, nil, nil},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(exe, os.Args, procAttr)
	if err != nil {
		return fmt.Errorf("failed to start tracker process: %w", err)
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	fmt.Printf("Tracker started (PID: %d)\n", process.Pid)
	if startWeb {
		fmt.Printf("Web API: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", logPath)
	return process.Release()
}
