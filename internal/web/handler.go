package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/daemon"
	"github.com/appusage/appusage/internal/database"
	"github.com/appusage/appusage/internal/logging"
	"github.com/appusage/appusage/internal/reporter"
	"github.com/appusage/appusage/internal/tracker"
)

// StatusFunc reports the live tracker state when the tracker runs in the
// same process as the server.
type StatusFunc func() tracker.Status

type Handler struct {
	config   *config.Config
	repo     *database.Repository
	reporter *reporter.Reporter
	status   StatusFunc
	daemon   *daemon.Daemon
	now      func() time.Time
	log      *slog.Logger
}

func NewHandler(cfg *config.Config, repo *database.Repository, status StatusFunc) *Handler {
	return &Handler{
		config:   cfg,
		repo:     repo,
		reporter: reporter.New(cfg, repo),
		status:   status,
		daemon:   daemon.New(cfg.Daemon.PIDFile),
		now:      time.Now,
		log:      logging.L("web"),
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/report", h.handleReport)
	mux.HandleFunc("GET /api/summary", h.handleSummary)
	mux.HandleFunc("GET /api/apps/{app}", h.handleApp)
	mux.HandleFunc("GET /api/status", h.handleStatus)

	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("GET /{$}", h.handleIndex)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reporter.GenerateReport(r.URL.Query().Get("period"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	h.respondJSON(w, report)
}

// handleSummary serves the same data as /api/report. htmx requests get an
// HTML fragment instead of JSON.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.reporter.GenerateReport(r.URL.Query().Get("period"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		h.respondSummaryHTML(w, report)
		return
	}

	h.respondJSON(w, report)
}

func (h *Handler) handleApp(w http.ResponseWriter, r *http.Request) {
	app := r.PathValue("app")
	if app == "" {
		h.respondError(w, http.StatusBadRequest, errors.New("missing app name"))
		return
	}

	detail, err := h.reporter.AppDetail(app, r.URL.Query().Get("period"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	h.respondJSON(w, detail)
}

type statusResponse struct {
	tracker.Status
	PID          int    `json:"pid,omitempty"`
	DatabasePath string `json:"database_path"`
	IdleTimeout  string `json:"idle_timeout"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		DatabasePath: h.config.Database.Path,
		IdleTimeout:  h.config.Tracker.IdleTimeout.String(),
	}

	if h.status != nil {
		resp.Status = h.status()
	} else {
		running, pid, err := h.daemon.IsRunning()
		if err != nil {
			h.log.Warn("pid file check failed", logging.KeyError, err)
		}
		resp.Running = running
		resp.PID = pid
	}

	h.respondJSON(w, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   h.now().Format(time.RFC3339),
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("encoding JSON failed", logging.KeyError, err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", logging.KeyError, err)
	}
}

