package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/daemon"
	"github.com/appusage/appusage/internal/logging"
	"github.com/appusage/appusage/internal/tracker"
	"github.com/appusage/appusage/internal/web"
	"github.com/appusage/appusage/pkg/detector"
)

var runWeb bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tracker in the foreground",
	Long:  "Tracks focus until interrupted. SIGINT or SIGTERM records open sessions and exits.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTracker(cmd.Context(), runWeb)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runWeb, "web", false, "also serve the HTTP API")
}

func runTracker(parent context.Context, withWeb bool) error {
	log := logging.L("main")

	dm := daemon.New(cfg.Daemon.PIDFile)
	if err := dm.Acquire(); err != nil {
		return err
	}
	defer func() { _ = dm.RemovePID() }()

	repo, closeDB, err := openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	source, err := detector.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize event source: %w", err)
	}
	defer source.Close()

	svc := tracker.NewService(cfg, repo, source)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var server *web.Server
	if withWeb {
		server = web.NewServer(cfg, repo, svc.Status)
		go func() {
			if err := server.Start(); err != nil {
				log.Error("web server failed", logging.KeyError, err)
			}
		}()
	}

	log.Debug(cfg.String())

	err = svc.Start(ctx)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("web server shutdown", logging.KeyError, err)
		}
	}

	if errors.Is(err, context.Canceled) {
		log.Info("tracker stopped", "pid", os.Getpid())
		return nil
	}
	return err
}
