package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/database"
	"github.com/appusage/appusage/internal/logging"
)

type Server struct {
	config  *config.Config
	handler *Handler
	server  *http.Server
	log     *slog.Logger
}

// NewServer builds the read-only HTTP API. status may be nil when the tracker
// runs in another process.
func NewServer(cfg *config.Config, repo *database.Repository, status StatusFunc) *Server {
	handler := NewHandler(cfg, repo, status)
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	addr := net.JoinHostPort(cfg.Web.Host, fmt.Sprint(cfg.Web.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
		log:     logging.L("web"),
	}
}

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("starting web server", "url", "http://"+s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down web server")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
