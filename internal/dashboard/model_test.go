package dashboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appusage/appusage/internal/models"
)

var now = time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC)

type fakeQuerier struct {
	apps    []models.AppSummary
	windows []*models.TimeRange
	totals  map[string]int64
	err     error
}

func (f *fakeQuerier) ListApps(window *models.TimeRange) ([]models.AppSummary, error) {
	f.windows = append(f.windows, window)
	return f.apps, f.err
}

func (f *fakeQuerier) AppTotal(app string, window models.TimeRange) (int64, error) {
	return f.totals[app] / 2, nil
}

func (f *fakeQuerier) AppTotalAllTime(app string) (int64, error) {
	return f.totals[app], nil
}

func (f *fakeQuerier) DailyTotals(days int, now time.Time) ([]models.DayTotal, error) {
	out := make([]models.DayTotal, days)
	for i := range out {
		out[i] = models.DayTotal{Day: startOfDay(now).AddDate(0, 0, i-days+1), TotalMs: int64(i) * 60_000}
	}
	return out, nil
}

func newTestModel(q *fakeQuerier) *Model {
	m := New(q, nil)
	m.now = func() time.Time { return now }
	return m
}

// drive runs cmd and feeds its message back into the model, following any
// command chain the model returns.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, k tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(k)
	drive(t, m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleApps() []models.AppSummary {
	return []models.AppSummary{
		{AppName: "firefox", TotalMs: 3_600_000},
		{AppName: "kitty", TotalMs: 1_200_000},
		{AppName: "slack", TotalMs: 60_000},
	}
}

func TestRangeWindows(t *testing.T) {
	endOfToday := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		rng  timeRange
		want *models.TimeRange
	}{
		{rangeToday, &models.TimeRange{Start: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), End: endOfToday}},
		{rangeLastWeek, &models.TimeRange{Start: time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), End: endOfToday}},
		{rangeLastMonth, &models.TimeRange{Start: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), End: endOfToday}},
		{rangeAllTime, nil},
	}

	for _, tt := range tests {
		t.Run(tt.rng.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.rng.window(now)); diff != "" {
				t.Errorf("window mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRangeCycling(t *testing.T) {
	assert.Equal(t, rangeLastWeek, rangeToday.next())
	assert.Equal(t, rangeToday, rangeAllTime.next())
	assert.Equal(t, rangeAllTime, rangeToday.prev())
}

func TestSwitchRangeReloads(t *testing.T) {
	q := &fakeQuerier{apps: sampleApps()}
	m := newTestModel(q)

	drive(t, m, m.load())
	require.Len(t, q.windows, 1)

	press(t, m, runes("l"))
	assert.Equal(t, rangeLastWeek, m.rng)
	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, rangeLastMonth, m.rng)
	press(t, m, runes("h"))
	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, rangeAllTime, m.rng)

	require.Len(t, q.windows, 6)
	assert.Nil(t, q.windows[5])
	assert.Equal(t, rangeLastWeek.window(now), q.windows[1])
}

func TestStaleSnapshotIgnored(t *testing.T) {
	q := &fakeQuerier{apps: sampleApps()}
	m := newTestModel(q)

	m.Update(snapshotMsg{snapshot{rng: rangeAllTime, apps: q.apps}})
	assert.Empty(t, m.snap.apps)
}

func TestNavigation(t *testing.T) {
	q := &fakeQuerier{apps: sampleApps(), totals: map[string]int64{"kitty": 7_200_000, "slack": 60_000}}
	m := newTestModel(q)
	drive(t, m, m.load())

	press(t, m, runes("j"))
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, detail{app: "kitty", today: 3_600_000, week: 3_600_000, allTime: 7_200_000}, m.detail)

	press(t, m, runes("G"))
	assert.Equal(t, 2, m.cursor)
	press(t, m, runes("j"))
	assert.Equal(t, 2, m.cursor)

	press(t, m, runes("g"))
	assert.Equal(t, 0, m.cursor)
	press(t, m, runes("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestReloadKeepsSelection(t *testing.T) {
	q := &fakeQuerier{apps: sampleApps()}
	m := newTestModel(q)
	drive(t, m, m.load())
	press(t, m, runes("j"))

	q.apps = []models.AppSummary{
		{AppName: "kitty", TotalMs: 9_000_000},
		{AppName: "firefox", TotalMs: 3_600_000},
	}
	drive(t, m, m.load())
	assert.Equal(t, 0, m.cursor)

	q.apps = []models.AppSummary{{AppName: "firefox"}}
	drive(t, m, m.load())
	assert.Equal(t, 0, m.cursor)
}

func TestLoadError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("database is locked")}
	m := newTestModel(q)
	drive(t, m, m.load())

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "database is locked")
}

func TestQuit(t *testing.T) {
	m := newTestModel(&fakeQuerier{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	q := &fakeQuerier{apps: sampleApps(), totals: map[string]int64{"firefox": 7_200_000}}
	m := newTestModel(q)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drive(t, m, m.load())

	view := m.View()
	for _, want := range []string{"Today", "Last Week", "Last Month", "All Time", "firefox", "kitty", "1h", "Past week", "This week", "All time", "2h"} {
		assert.Contains(t, view, want)
	}
}

func TestViewEmpty(t *testing.T) {
	m := newTestModel(&fakeQuerier{})
	drive(t, m, m.load())
	assert.Contains(t, m.View(), "No activity recorded")
}

func TestWatcherReportsWALWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "usage.db")
	require.NoError(t, os.WriteFile(dbPath, nil, 0o644))

	w, err := newDBWatcher(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("x"), 0o644))

	select {
	case <-w.changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for WAL write")
	}
}

func TestWatcherRelevant(t *testing.T) {
	w := &dbWatcher{base: "usage.db"}
	assert.True(t, w.relevant("/tmp/x/usage.db"))
	assert.True(t, w.relevant("/tmp/x/usage.db-wal"))
	assert.False(t, w.relevant("/tmp/x/usage.db-shm"))
	assert.False(t, w.relevant("/tmp/x/other.db"))
}
