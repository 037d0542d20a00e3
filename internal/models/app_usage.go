package models

import "time"

// AppUsage is one closed focus session. Rows are append-only; all times are
// milliseconds since the Unix epoch and Duration == EndTime - StartTime.
type AppUsage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AppName   string `gorm:"not null;index" json:"app_name"`
	StartTime int64  `gorm:"not null;index" json:"start_time"`
	EndTime   int64  `gorm:"not null" json:"end_time"`
	Duration  int64  `gorm:"not null" json:"duration"`
}

func (AppUsage) TableName() string {
	return "app_usage"
}

// NewAppUsage builds a row for a session that ended at end after running for
// duration. The start is derived, not sampled.
func NewAppUsage(appName string, end time.Time, duration time.Duration) *AppUsage {
	endMs := end.UnixMilli()
	durMs := duration.Milliseconds()
	return &AppUsage{
		AppName:   appName,
		StartTime: endMs - durMs,
		EndTime:   endMs,
		Duration:  durMs,
	}
}

// Start returns the start as wall-clock time.
func (u *AppUsage) Start() time.Time {
	return time.UnixMilli(u.StartTime)
}

// End returns the end as wall-clock time.
func (u *AppUsage) End() time.Time {
	return time.UnixMilli(u.EndTime)
}

// TimeRange is a half-open [Start, End) window over session start times.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// StartMs returns the inclusive lower bound in epoch milliseconds.
func (r TimeRange) StartMs() int64 {
	return r.Start.UnixMilli()
}

// EndMs returns the exclusive upper bound in epoch milliseconds.
func (r TimeRange) EndMs() int64 {
	return r.End.UnixMilli()
}

type AppSummary struct {
	AppName       string  `json:"app_name"`
	TotalMs       int64   `json:"total_ms"`
	TotalSeconds  int64   `json:"total_seconds"`
	TotalMinutes  float64 `json:"total_minutes"`
	TotalHours    float64 `json:"total_hours"`
	IntervalCount int     `json:"interval_count"`
	Percentage    float64 `json:"percentage,omitempty"`
}

// DayTotal is the focused time recorded on one calendar day.
type DayTotal struct {
	Day     time.Time `json:"day"`
	TotalMs int64     `json:"total_ms"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month", "all"
}

// Range returns the period as a query window, or nil for an unbounded period.
func (p ReportPeriod) Range() *TimeRange {
	if p.Start.IsZero() && p.End.IsZero() {
		return nil
	}
	return &TimeRange{Start: p.Start, End: p.End}
}

type Report struct {
	Period       ReportPeriod `json:"period"`
	Apps         []AppSummary `json:"apps"`
	TotalSeconds int64        `json:"total_seconds"`
	TotalMinutes float64      `json:"total_minutes"`
	TotalHours   float64      `json:"total_hours"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// AppDetail is the usage of one app within a period, plus its all-time total.
type AppDetail struct {
	AppName      string       `json:"app_name"`
	Period       ReportPeriod `json:"period"`
	TotalMs      int64        `json:"total_ms"`
	TotalSeconds int64        `json:"total_seconds"`
	AllTimeMs    int64        `json:"all_time_ms"`
}
