package web

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/appusage/appusage/internal/models"
	"github.com/appusage/appusage/pkg/utils"
)

func (h *Handler) respondSummaryHTML(w http.ResponseWriter, report *models.Report) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if len(report.Apps) == 0 {
		_, _ = w.Write([]byte(`<div class="empty">No activity recorded</div>`))
		return
	}

	var b strings.Builder
	b.WriteString(`<ul class="apps">`)
	for _, app := range report.Apps {
		fmt.Fprintf(&b, `<li style="--share: %.1f%%"><span class="name">%s</span><span class="time">%s</span><span class="pct">%.1f%%</span></li>`,
			app.Percentage, html.EscapeString(app.AppName), utils.FormatRoundedUnit(app.TotalMs/1000), app.Percentage)
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<div class="total">Total: %s</div>`, utils.FormatRoundedUnit(report.TotalSeconds))

	_, _ = w.Write([]byte(b.String()))
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>appusage</title>
<script src="https://unpkg.com/htmx.org@1.9.10"></script>
<style>
body { font-family: system-ui, sans-serif; background: #1e1e2e; color: #cdd6f4; margin: 0; padding: 24px; }
h1 { font-size: 1.6rem; margin: 0 0 24px; }
.grid { display: flex; gap: 16px; flex-wrap: wrap; }
.card { flex: 1; min-width: 280px; background: #313244; border-radius: 8px; padding: 16px 20px; }
.card h2 { font-size: 1.1rem; color: #89b4fa; margin: 0 0 12px; }
.apps { list-style: none; margin: 0; padding: 0; max-height: 60vh; overflow-y: auto; }
.apps li { display: flex; gap: 8px; padding: 6px 4px; position: relative; }
.apps li::before { content: ''; position: absolute; inset: 0 auto 0 0; width: var(--share); background: #89b4fa; opacity: .15; border-radius: 4px; }
.name { flex: 1; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.time { color: #a6adc8; }
.pct { min-width: 4.5em; text-align: right; color: #89b4fa; }
.total { margin-top: 12px; font-weight: 600; }
.empty { color: #a6adc8; font-style: italic; }
</style>
</head>
<body>
<h1>App usage</h1>
<div class="grid">
  <div class="card"><h2>Today</h2><div hx-get="/api/summary?period=day" hx-trigger="load, every 30s">Loading...</div></div>
  <div class="card"><h2>This week</h2><div hx-get="/api/summary?period=week" hx-trigger="load, every 30s">Loading...</div></div>
  <div class="card"><h2>This month</h2><div hx-get="/api/summary?period=month" hx-trigger="load, every 30s">Loading...</div></div>
  <div class="card"><h2>All time</h2><div hx-get="/api/summary?period=all" hx-trigger="load, every 60s">Loading...</div></div>
</div>
</body>
</html>
`
