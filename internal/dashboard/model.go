// Package dashboard is the interactive terminal view over recorded usage.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const refreshInterval = 30 * time.Second

type tickMsg time.Time

type dbChangedMsg struct{}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	querier Querier
	watcher *dbWatcher
	now     func() time.Time

	rng    timeRange
	cursor int
	snap   snapshot
	detail detail
	err    error

	width  int
	height int
	help   help.Model
}

// New returns a dashboard reading from q. watcher may be nil, in which case
// only the periodic refresh applies.
func New(q Querier, watcher *dbWatcher) *Model {
	return &Model{
		querier: q,
		watcher: watcher,
		now:     time.Now,
		help:    help.New(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick(), m.waitForChange())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.changes
	done := m.watcher.done
	return func() tea.Msg {
		select {
		case <-changes:
			return dbChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) load() tea.Cmd {
	q, rng, now := m.querier, m.rng, m.now()
	return func() tea.Msg {
		snap, err := loadSnapshot(q, rng, now)
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg{snap}
	}
}

func (m *Model) loadDetail() tea.Cmd {
	app, ok := m.selected()
	if !ok {
		return nil
	}
	q, now := m.querier, m.now()
	return func() tea.Msg {
		d, err := loadDetail(q, app, now)
		if err != nil {
			return errMsg{err}
		}
		return detailMsg{d}
	}
}

func (m *Model) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.apps) {
		return "", false
	}
	return m.snap.apps[m.cursor].AppName, true
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.load(), tick())

	case dbChangedMsg:
		return m, tea.Batch(m.load(), m.waitForChange())

	case snapshotMsg:
		// a reply for a range the user already left
		if msg.rng != m.rng {
			return m, nil
		}
		prev, _ := m.selected()
		m.snap = msg.snapshot
		m.err = nil
		m.cursor = m.indexOf(prev)
		return m, m.loadDetail()

	case detailMsg:
		if app, ok := m.selected(); ok && app == msg.app {
			m.detail = msg.detail
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// indexOf keeps the selection on the same app across reloads.
func (m *Model) indexOf(app string) int {
	for i, a := range m.snap.apps {
		if a.AppName == app {
			return i
		}
	}
	if m.cursor >= len(m.snap.apps) {
		return max(len(m.snap.apps)-1, 0)
	}
	return m.cursor
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.quit):
		return m, tea.Quit

	case key.Matches(msg, defaultKeymap.nextRange):
		m.rng = m.rng.next()
		return m, m.load()

	case key.Matches(msg, defaultKeymap.prevRange):
		m.rng = m.rng.prev()
		return m, m.load()

	case key.Matches(msg, defaultKeymap.refresh):
		return m, m.load()

	case key.Matches(msg, defaultKeymap.up):
		return m, m.moveTo(m.cursor - 1)

	case key.Matches(msg, defaultKeymap.down):
		return m, m.moveTo(m.cursor + 1)

	case key.Matches(msg, defaultKeymap.top):
		return m, m.moveTo(0)

	case key.Matches(msg, defaultKeymap.bottom):
		return m, m.moveTo(len(m.snap.apps) - 1)
	}

	return m, nil
}

func (m *Model) moveTo(i int) tea.Cmd {
	if len(m.snap.apps) == 0 {
		return nil
	}
	i = min(max(i, 0), len(m.snap.apps)-1)
	if i == m.cursor {
		return nil
	}
	m.cursor = i
	return m.loadDetail()
}
