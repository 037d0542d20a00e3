package dashboard

import (
	"time"

	"github.com/appusage/appusage/internal/models"
)

// timeRange is one of the selectable dashboard windows. All but AllTime end
// at the close of the current day.
type timeRange int

const (
	rangeToday timeRange = iota
	rangeLastWeek
	rangeLastMonth
	rangeAllTime
	rangeCount
)

func (r timeRange) String() string {
	switch r {
	case rangeToday:
		return "Today"
	case rangeLastWeek:
		return "Last Week"
	case rangeLastMonth:
		return "Last Month"
	case rangeAllTime:
		return "All Time"
	}
	return "?"
}

func (r timeRange) next() timeRange {
	return (r + 1) % rangeCount
}

func (r timeRange) prev() timeRange {
	return (r + rangeCount - 1) % rangeCount
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

// window returns the query window for r, or nil for all time.
func (r timeRange) window(now time.Time) *models.TimeRange {
	end := endOfDay(now)
	switch r {
	case rangeToday:
		return &models.TimeRange{Start: startOfDay(now), End: end}
	case rangeLastWeek:
		return &models.TimeRange{Start: end.AddDate(0, 0, -7), End: end}
	case rangeLastMonth:
		return &models.TimeRange{Start: end.AddDate(0, 0, -28), End: end}
	}
	return nil
}
