package dashboard

import (
	"fmt"
	"time"

	"github.com/appusage/appusage/internal/models"
)

// Querier is the read side of the usage store.
type Querier interface {
	ListApps(window *models.TimeRange) ([]models.AppSummary, error)
	AppTotal(appName string, window models.TimeRange) (int64, error)
	AppTotalAllTime(appName string) (int64, error)
	DailyTotals(days int, now time.Time) ([]models.DayTotal, error)
}

const chartDays = 7

type snapshot struct {
	rng    timeRange
	apps   []models.AppSummary
	days   []models.DayTotal
	loaded time.Time
}

type detail struct {
	app     string
	today   int64
	week    int64
	allTime int64
}

type snapshotMsg struct{ snapshot }

type detailMsg struct{ detail }

type errMsg struct{ err error }

func loadSnapshot(q Querier, rng timeRange, now time.Time) (snapshot, error) {
	apps, err := q.ListApps(rng.window(now))
	if err != nil {
		return snapshot{}, fmt.Errorf("list apps: %w", err)
	}
	days, err := q.DailyTotals(chartDays, now)
	if err != nil {
		return snapshot{}, fmt.Errorf("daily totals: %w", err)
	}
	return snapshot{rng: rng, apps: apps, days: days, loaded: now}, nil
}

func loadDetail(q Querier, app string, now time.Time) (detail, error) {
	d := detail{app: app}
	var err error

	if d.today, err = q.AppTotal(app, *rangeToday.window(now)); err != nil {
		return d, fmt.Errorf("app total: %w", err)
	}
	if d.week, err = q.AppTotal(app, *rangeLastWeek.window(now)); err != nil {
		return d, fmt.Errorf("app total: %w", err)
	}
	if d.allTime, err = q.AppTotalAllTime(app); err != nil {
		return d, fmt.Errorf("app total: %w", err)
	}
	return d, nil
}
