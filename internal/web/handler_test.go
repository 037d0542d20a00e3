package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/database"
	"github.com/appusage/appusage/internal/models"
	"github.com/appusage/appusage/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status StatusFunc) (http.Handler, *database.Repository) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Connect(filepath.Join(dir, "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize())

	cfg := config.Default()
	cfg.Daemon.PIDFile = filepath.Join(dir, "appusage.pid")
	repo := database.NewRepository(db)

	return NewServer(cfg, repo, status).Handler(), repo
}

func get(t *testing.T, h http.Handler, target string, hx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if hx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReportEndpoint(t *testing.T) {
	h, repo := newTestServer(t, nil)
	end := time.Now()
	require.NoError(t, repo.AppendInterval(models.NewAppUsage("firefox", end, 3*time.Minute)))
	require.NoError(t, repo.AppendInterval(models.NewAppUsage("kitty", end, time.Minute)))

	rec := get(t, h, "/api/report?period=all", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Apps, 2)
	assert.Equal(t, "firefox", report.Apps[0].AppName)
	assert.Equal(t, int64(240), report.TotalSeconds)
	assert.InDelta(t, 75.0, report.Apps[0].Percentage, 0.001)
}

func TestReportInvalidPeriod(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := get(t, h, "/api/report?period=decade", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid period type")
}

func TestSummaryHTMLFragment(t *testing.T) {
	h, repo := newTestServer(t, nil)

	rec := get(t, h, "/api/summary?period=all", true)
	assert.Contains(t, rec.Body.String(), "No activity recorded")

	require.NoError(t, repo.AppendInterval(models.NewAppUsage("<script>", time.Now(), time.Minute)))

	rec = get(t, h, "/api/summary?period=all", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "Total: 1m")
}

func TestAppEndpoint(t *testing.T) {
	h, repo := newTestServer(t, nil)
	require.NoError(t, repo.AppendInterval(models.NewAppUsage("org.gnome.Nautilus", time.Now(), 90*time.Second)))

	rec := get(t, h, "/api/apps/org.gnome.Nautilus?period=all", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.AppDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "org.gnome.Nautilus", detail.AppName)
	assert.Equal(t, int64(90_000), detail.TotalMs)
	assert.Equal(t, int64(90_000), detail.AllTimeMs)

	rec = get(t, h, "/api/apps/unknown", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Zero(t, detail.AllTimeMs)
}

func TestStatusFromTracker(t *testing.T) {
	since := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	h, _ := newTestServer(t, func() tracker.Status {
		return tracker.Status{Running: true, DisplayServer: "wayland", FocusedApp: "kitty", FocusedSince: since, Windows: 3}
	})

	rec := get(t, h, "/api/status", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["running"])
	assert.Equal(t, "wayland", body["display_server"])
	assert.Equal(t, "kitty", body["focused_app"])
	assert.Equal(t, float64(3), body["windows"])
	assert.Equal(t, "30s", body["idle_timeout"])
}

func TestStatusWithoutTracker(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := get(t, h, "/api/status", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["running"])
	assert.NotContains(t, body, "pid")
}

func TestHealthAndIndex(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := get(t, h, "/health", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = get(t, h, "/", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/summary?period=week")

	rec = get(t, h, "/missing", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/report", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
