package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/appusage/appusage/pkg/utils"
)

const (
	barWidth  = 30
	nameWidth = 32
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTab     = tabStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	paneStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("App usage"))
	s.WriteString("\n\n")
	s.WriteString(m.tabsView())
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("error: " + m.err.Error()))
		s.WriteString("\n\n")
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.chartView(), m.detailView())
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), "  ", right))

	s.WriteString("\n\n")
	s.WriteString(m.help.ShortHelpView(defaultKeymap.shortHelp()))

	return s.String()
}

func (m *Model) tabsView() string {
	tabs := make([]string, 0, rangeCount)
	for r := rangeToday; r < rangeCount; r++ {
		if r == m.rng {
			tabs = append(tabs, activeTab.Render(r.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(r.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) listView() string {
	var s strings.Builder

	if len(m.snap.apps) == 0 {
		s.WriteString(hintStyle.Render("No activity recorded"))
		return paneStyle.Width(nameWidth + 14).Render(s.String())
	}

	var total int64
	for _, app := range m.snap.apps {
		total += app.TotalMs
	}

	for i, app := range m.snap.apps {
		line := fmt.Sprintf("%-*s %10s", nameWidth, truncate(app.AppName, nameWidth), utils.FormatMillis(app.TotalMs))
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("> " + line))
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}
	s.WriteString(hintStyle.Render(fmt.Sprintf("\n  %d apps, %s total", len(m.snap.apps), utils.FormatMillis(total))))

	return paneStyle.Render(s.String())
}

func (m *Model) chartView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Past week"))
	s.WriteString("\n")

	var peak int64
	for _, d := range m.snap.days {
		peak = max(peak, d.TotalMs)
	}

	for _, d := range m.snap.days {
		n := 0
		if peak > 0 {
			n = int(d.TotalMs * barWidth / peak)
		}
		fmt.Fprintf(&s, "%s %s%s %s\n",
			d.Day.Format("Mon"),
			barStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", barWidth-n),
			utils.FormatMillis(d.TotalMs))
	}

	return paneStyle.Render(strings.TrimRight(s.String(), "\n"))
}

func (m *Model) detailView() string {
	app, ok := m.selected()
	if !ok {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(truncate(app, barWidth+10)))
	s.WriteString("\n")
	if m.detail.app != app {
		s.WriteString(hintStyle.Render("loading..."))
		return paneStyle.Render(s.String())
	}

	fmt.Fprintf(&s, "%-10s %s\n", "Today", utils.FormatMillis(m.detail.today))
	fmt.Fprintf(&s, "%-10s %s\n", "This week", utils.FormatMillis(m.detail.week))
	fmt.Fprintf(&s, "%-10s %s", "All time", utils.FormatMillis(m.detail.allTime))

	return paneStyle.Render(s.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
