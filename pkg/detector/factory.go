package detector

import (
	"errors"
	"fmt"
	"os"

	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/pkg/integrations/wayland"
	"github.com/appusage/appusage/pkg/integrations/x11"
	"github.com/appusage/appusage/pkg/window"
)

// ErrNoDisplayServer is returned when auto detection finds neither a
// Wayland nor an X11 session.
var ErrNoDisplayServer = errors.New("no Wayland or X11 session detected")

// New returns the event source for the configured backend. With "auto" the
// backend follows DetectDisplayServer.
func New(cfg *config.Config) (window.Source, error) {
	backend := cfg.Tracker.Backend
	if backend == config.BackendAuto || backend == "" {
		backend = DetectDisplayServer()
	}

	switch backend {
	case config.BackendWayland:
		return wayland.NewSource(wayland.Options{
			IdleTimeout: cfg.Tracker.IdleTimeout,
		}), nil
	case config.BackendX11:
		return x11.NewSource(x11.Options{
			IdleTimeout: cfg.Tracker.IdleTimeout,
			IdlePoll:    cfg.Tracker.X11IdlePoll,
		}), nil
	case "unknown":
		return nil, ErrNoDisplayServer
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}

func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
