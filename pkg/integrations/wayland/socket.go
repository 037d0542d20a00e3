package wayland

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// SocketPath resolves the compositor socket the way libwayland does:
// WAYLAND_DISPLAY (default "wayland-0"), relative to XDG_RUNTIME_DIR unless
// it is already absolute.
func SocketPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = xdg.RuntimeDir
	}
	if runtimeDir == "" {
		return "", errors.New("wayland: XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(runtimeDir, display), nil
}

// Compositor names the running compositor from XDG_CURRENT_DESKTOP, for logs.
func Compositor() string {
	compositors := map[string]string{
		"sway":     "sway",
		"hyprland": "hyprland",
		"wayfire":  "wayfire",
		"river":    "river",
		"labwc":    "labwc",
		"niri":     "niri",
		"gnome":    "gnome",
		"kde":      "kde",
	}

	for _, desktop := range strings.Split(os.Getenv("XDG_CURRENT_DESKTOP"), ":") {
		if name, ok := compositors[strings.ToLower(desktop)]; ok {
			return name
		}
	}
	return "unknown"
}
