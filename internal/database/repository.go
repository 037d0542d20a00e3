package database

import (
	"time"

	"github.com/appusage/appusage/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for usage intervals
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// AppendInterval inserts one closed focus session. It is the only write path
// the tracker uses.
func (r *Repository) AppendInterval(usage *models.AppUsage) error {
	result := r.db.Create(usage)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert usage interval")
	}
	return nil
}

// ListApps returns the total focused time per app, largest first. A nil
// window means all recorded history.
func (r *Repository) ListApps(window *models.TimeRange) ([]models.AppSummary, error) {
	var summaries []models.AppSummary

	query := r.db.Model(&models.AppUsage{}).
		Select("app_name, SUM(duration) AS total_ms, COUNT(*) AS interval_count")
	if window != nil {
		query = query.Where("start_time >= ? AND start_time < ?", window.StartMs(), window.EndMs())
	}

	result := query.
		Group("app_name").
		Order("total_ms DESC, app_name ASC").
		Scan(&summaries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app totals")
	}

	for i := range summaries {
		summaries[i].TotalSeconds = summaries[i].TotalMs / 1000
	}

	return summaries, nil
}

// AppTotal returns the focused milliseconds for one app within window.
func (r *Repository) AppTotal(appName string, window models.TimeRange) (int64, error) {
	total, err := r.sum(r.db.Model(&models.AppUsage{}).
		Where("app_name = ? AND start_time >= ? AND start_time < ?", appName, window.StartMs(), window.EndMs()))
	if err != nil {
		return 0, errors.Wrap(err, "failed to query app total")
	}
	return total, nil
}

// AppTotalAllTime returns the focused milliseconds ever recorded for one app.
func (r *Repository) AppTotalAllTime(appName string) (int64, error) {
	total, err := r.sum(r.db.Model(&models.AppUsage{}).Where("app_name = ?", appName))
	if err != nil {
		return 0, errors.Wrap(err, "failed to query app total")
	}
	return total, nil
}

// TotalForRange returns the focused milliseconds across all apps within window.
func (r *Repository) TotalForRange(window models.TimeRange) (int64, error) {
	total, err := r.sum(r.db.Model(&models.AppUsage{}).
		Where("start_time >= ? AND start_time < ?", window.StartMs(), window.EndMs()))
	if err != nil {
		return 0, errors.Wrap(err, "failed to query range total")
	}
	return total, nil
}

// DailyTotals returns one total per calendar day for the days days ending
// with the day containing now, oldest first.
func (r *Repository) DailyTotals(days int, now time.Time) ([]models.DayTotal, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totals := make([]models.DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		total, err := r.TotalForRange(models.TimeRange{Start: day, End: day.AddDate(0, 0, 1)})
		if err != nil {
			return nil, err
		}
		totals = append(totals, models.DayTotal{Day: day, TotalMs: total})
	}

	return totals, nil
}

func (r *Repository) sum(query *gorm.DB) (int64, error) {
	var total int64
	if err := query.Select("COALESCE(SUM(duration), 0)").Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetIntervals returns intervals that started within window, oldest first.
// A limit above zero keeps only the most recent limit rows.
func (r *Repository) GetIntervals(window *models.TimeRange, limit int) ([]*models.AppUsage, error) {
	var intervals []*models.AppUsage

	query := r.db.Model(&models.AppUsage{})
	if window != nil {
		query = query.Where("start_time >= ? AND start_time < ?", window.StartMs(), window.EndMs())
	}
	if limit > 0 {
		query = query.Order("start_time DESC").Limit(limit)
	} else {
		query = query.Order("start_time ASC")
	}

	if result := query.Find(&intervals); result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query usage intervals")
	}

	if limit > 0 {
		for i, j := 0, len(intervals)-1; i < j; i, j = i+1, j-1 {
			intervals[i], intervals[j] = intervals[j], intervals[i]
		}
	}

	return intervals, nil
}

// GetLatest retrieves the most recently closed interval
func (r *Repository) GetLatest() (*models.AppUsage, error) {
	var usage models.AppUsage
	result := r.db.Order("end_time DESC").First(&usage)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest interval")
	}
	return &usage, nil
}

// DeleteBefore removes intervals that ended before t
func (r *Repository) DeleteBefore(t time.Time) (int64, error) {
	result := r.db.Where("end_time < ?", t.UnixMilli()).Delete(&models.AppUsage{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old intervals")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// Clear removes all usage intervals from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM app_usage")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear usage intervals")
	}
	return nil
}
