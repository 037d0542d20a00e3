package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appusage/appusage/internal/logging"
)

// Run shows the dashboard until the user quits or ctx is canceled. dbPath
// is watched for writes; if watching fails the dashboard falls back to
// periodic refresh.
func Run(ctx context.Context, q Querier, dbPath string) error {
	log := logging.L("dashboard")

	watcher, err := newDBWatcher(dbPath)
	if err != nil {
		log.Warn("database watch unavailable, using periodic refresh", logging.KeyError, err)
	} else {
		defer watcher.Close()
	}

	p := tea.NewProgram(New(q, watcher), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

