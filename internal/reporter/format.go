package reporter

import (
	"fmt"
	"strings"

	"github.com/appusage/appusage/internal/models"
	"github.com/appusage/appusage/pkg/utils"

	"github.com/pterm/pterm"
)

// FormatReportText formats the report as a human-readable table
func (r *Reporter) FormatReportText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Activity Report - %s\n", report.Period.Type)
	if report.Period.Range() != nil {
		fmt.Fprintf(&b, "Period: %s to %s\n",
			report.Period.Start.Format("2006-01-02 15:04"),
			report.Period.End.Format("2006-01-02 15:04"))
	} else {
		b.WriteString("Period: all recorded history\n")
	}
	fmt.Fprintf(&b, "Total Time: %s\n\n", utils.FormatMillis(report.TotalSeconds*1000))

	if len(report.Apps) == 0 {
		b.WriteString("No activity recorded for this period.\n")
		return b.String()
	}

	data := [][]string{{"Application", "Time", "Sessions", "Percent"}}
	for _, app := range report.Apps {
		data = append(data, []string{
			truncate(app.AppName, 40),
			utils.FormatMillis(app.TotalMs),
			fmt.Sprintf("%d", app.IntervalCount),
			fmt.Sprintf("%.1f%%", app.Percentage),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		for _, row := range data {
			fmt.Fprintf(&b, "%-40s %12s %9s %8s\n", row[0], row[1], row[2], row[3])
		}
		return b.String()
	}

	b.WriteString(table)
	b.WriteString("\n")
	return b.String()
}

// FormatDailyChart renders per-day totals as a horizontal bar chart in
// minutes.
func (r *Reporter) FormatDailyChart(days []models.DayTotal) string {
	bars := make(pterm.Bars, 0, len(days))
	for _, d := range days {
		bars = append(bars, pterm.Bar{
			Label: d.Day.Format("Mon 02"),
			Value: int(d.TotalMs / 60_000),
		})
	}

	chart, err := pterm.DefaultBarChart.
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		var b strings.Builder
		for _, d := range days {
			fmt.Fprintf(&b, "%s  %s\n", d.Day.Format("Mon 02"), utils.FormatMillis(d.TotalMs))
		}
		return b.String()
	}

	return "Past week (minutes)\n" + chart
}
