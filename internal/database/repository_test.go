package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/appusage/appusage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Connect(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize())

	return NewRepository(db)
}

var base = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

func appendAt(t *testing.T, repo *Repository, app string, end time.Time, d time.Duration) {
	t.Helper()
	require.NoError(t, repo.AppendInterval(models.NewAppUsage(app, end, d)))
}

func TestAppendIntervalStoresMilliseconds(t *testing.T) {
	repo := newTestRepository(t)
	appendAt(t, repo, "firefox", base.Add(time.Minute), time.Minute)

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)

	assert.Equal(t, "firefox", latest.AppName)
	assert.Equal(t, base.UnixMilli(), latest.StartTime)
	assert.Equal(t, base.Add(time.Minute).UnixMilli(), latest.EndTime)
	assert.Equal(t, int64(60_000), latest.Duration)
}

func TestAppendIntervalKeepsAppNameCase(t *testing.T) {
	repo := newTestRepository(t)
	appendAt(t, repo, "org.gnome.Nautilus", base.Add(time.Second), time.Second)

	apps, err := repo.ListApps(nil)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "org.gnome.Nautilus", apps[0].AppName)
}

func TestListAppsSortedByTotalDescending(t *testing.T) {
	repo := newTestRepository(t)
	appendAt(t, repo, "kitty", base.Add(10*time.Minute), 10*time.Minute)
	appendAt(t, repo, "firefox", base.Add(30*time.Minute), 15*time.Minute)
	appendAt(t, repo, "firefox", base.Add(50*time.Minute), 15*time.Minute)
	appendAt(t, repo, "slack", base.Add(60*time.Minute), time.Minute)

	apps, err := repo.ListApps(nil)
	require.NoError(t, err)
	require.Len(t, apps, 3)

	assert.Equal(t, "firefox", apps[0].AppName)
	assert.Equal(t, int64(30*60*1000), apps[0].TotalMs)
	assert.Equal(t, int64(30*60), apps[0].TotalSeconds)
	assert.Equal(t, 2, apps[0].IntervalCount)
	assert.Equal(t, "kitty", apps[1].AppName)
	assert.Equal(t, "slack", apps[2].AppName)
}

func TestListAppsFiltersOnStartTimeHalfOpen(t *testing.T) {
	repo := newTestRepository(t)
	window := models.TimeRange{Start: base, End: base.Add(time.Hour)}

	// starts exactly at the lower bound: included
	appendAt(t, repo, "inside", base.Add(time.Minute), time.Minute)
	// starts exactly at the upper bound: excluded
	appendAt(t, repo, "at-end", base.Add(time.Hour+time.Minute), time.Minute)
	// starts before the window even though it ends inside it: excluded
	appendAt(t, repo, "before", base.Add(time.Minute), 2*time.Minute)

	apps, err := repo.ListApps(&window)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "inside", apps[0].AppName)
}

func TestAppTotalMatchesSumOfRecordedIntervals(t *testing.T) {
	repo := newTestRepository(t)
	window := models.TimeRange{Start: base, End: base.Add(2 * time.Hour)}

	durations := []time.Duration{7 * time.Second, 3 * time.Minute, 1500 * time.Millisecond}
	var want int64
	end := base
	for _, d := range durations {
		end = end.Add(d + time.Minute)
		appendAt(t, repo, "editor", end, d)
		want += d.Milliseconds()
	}
	appendAt(t, repo, "other", base.Add(time.Hour), time.Hour)
	appendAt(t, repo, "editor", base.Add(3*time.Hour), time.Minute)

	got, err := repo.AppTotal("editor", window)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	apps, err := repo.ListApps(&window)
	require.NoError(t, err)
	for _, a := range apps {
		if a.AppName == "editor" {
			assert.Equal(t, got, a.TotalMs)
		}
	}
}

func TestAppTotalUnknownAppIsZero(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.AppTotal("nothing", models.TimeRange{Start: base, End: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Zero(t, got)

	all, err := repo.AppTotalAllTime("nothing")
	require.NoError(t, err)
	assert.Zero(t, all)
}

func TestDailyTotals(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)

	appendAt(t, repo, "a", time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC), time.Hour)
	appendAt(t, repo, "b", time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), 30*time.Minute)
	appendAt(t, repo, "c", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), 30*time.Minute)

	days, err := repo.DailyTotals(3, now)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), days[0].Day)
	assert.Equal(t, int64(30*60*1000), days[0].TotalMs)
	assert.Zero(t, days[1].TotalMs)
	assert.Equal(t, int64(60*60*1000), days[2].TotalMs)
}

func TestGetIntervalsLimitKeepsMostRecent(t *testing.T) {
	repo := newTestRepository(t)
	for i := 1; i <= 5; i++ {
		appendAt(t, repo, "app", base.Add(time.Duration(i)*time.Hour), time.Minute)
	}

	got, err := repo.GetIntervals(nil, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Less(t, got[0].StartTime, got[1].StartTime)
	assert.Equal(t, base.Add(5*time.Hour).UnixMilli(), got[1].EndTime)
}

func TestDeleteBeforeAndClear(t *testing.T) {
	repo := newTestRepository(t)
	appendAt(t, repo, "old", base, time.Minute)
	appendAt(t, repo, "new", base.Add(48*time.Hour), time.Minute)

	n, err := repo.DeleteBefore(base.Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	apps, err := repo.ListApps(nil)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "new", apps[0].AppName)

	require.NoError(t, repo.Clear())
	latest, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestCreateErrorLog(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.CreateErrorLog(&models.ErrorLog{
		Timestamp: base,
		Component: "wayland",
		ErrorMsg:  "connection reset",
	})
	assert.NoError(t, err)
}
