package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/database"
	"github.com/appusage/appusage/internal/models"
)

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	repo   *database.Repository
	now    func() time.Time
}

// New creates a new reporter
func New(cfg *config.Config, repo *database.Repository) *Reporter {
	return &Reporter{
		config: cfg,
		repo:   repo,
		now:    time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.Period(periodType)
	if err != nil {
		return nil, err
	}

	// SQL does the SUM; derived fields are computed here
	summaries, err := r.repo.ListApps(period.Range())
	if err != nil {
		return nil, fmt.Errorf("failed to get app summary: %w", err)
	}

	var totalMs int64
	for i := range summaries {
		summaries[i].TotalMinutes = float64(summaries[i].TotalMs) / 60_000.0
		summaries[i].TotalHours = float64(summaries[i].TotalMs) / 3_600_000.0
		totalMs += summaries[i].TotalMs
	}

	// Calculate percentages
	if totalMs > 0 {
		for i := range summaries {
			summaries[i].Percentage = (float64(summaries[i].TotalMs) / float64(totalMs)) * 100.0
		}
	}

	if summaries == nil {
		summaries = []models.AppSummary{}
	}

	report := &models.Report{
		Period:       *period,
		Apps:         summaries,
		TotalSeconds: totalMs / 1000,
		TotalMinutes: float64(totalMs) / 60_000.0,
		TotalHours:   float64(totalMs) / 3_600_000.0,
		GeneratedAt:  r.now(),
	}

	return report, nil
}

// AppDetail returns the usage of one app within the period and overall.
func (r *Reporter) AppDetail(appName, periodType string) (*models.AppDetail, error) {
	period, err := r.Period(periodType)
	if err != nil {
		return nil, err
	}

	allTime, err := r.repo.AppTotalAllTime(appName)
	if err != nil {
		return nil, fmt.Errorf("failed to get app total: %w", err)
	}

	total := allTime
	if window := period.Range(); window != nil {
		if total, err = r.repo.AppTotal(appName, *window); err != nil {
			return nil, fmt.Errorf("failed to get app total: %w", err)
		}
	}

	return &models.AppDetail{
		AppName:      appName,
		Period:       *period,
		TotalMs:      total,
		TotalSeconds: total / 1000,
		AllTimeMs:    allTime,
	}, nil
}

// DailyTotals returns per-day totals for the last days days, oldest first.
func (r *Reporter) DailyTotals(days int) ([]models.DayTotal, error) {
	now, err := r.localNow()
	if err != nil {
		return nil, err
	}
	totals, err := r.repo.DailyTotals(days, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}
	return totals, nil
}

func (r *Reporter) localNow() (time.Time, error) {
	loc, err := r.config.Location()
	if err != nil {
		return time.Time{}, err
	}
	return r.now().In(loc), nil
}

// Period calculates the time range for a report. An empty type selects the
// configured default.
func (r *Reporter) Period(periodType string) (*models.ReportPeriod, error) {
	if periodType == "" {
		periodType = r.config.Report.DefaultPeriod
	}

	now, err := r.localNow()
	if err != nil {
		return nil, err
	}

	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	case "all":
		// unbounded

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month, all)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
