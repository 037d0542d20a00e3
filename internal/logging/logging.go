// Package logging configures the process-wide slog logger and hands out
// component-scoped children.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Structured field keys shared across packages.
const (
	KeyComponent  = "component"
	KeyApp        = "app"
	KeyHandle     = "handle"
	KeyDurationMs = "durationMs"
	KeyBackend    = "backend"
	KeyError      = "error"
)

// deferredHandler forwards to whatever handler Init installed last, so
// package-level loggers created at import time follow later configuration.
// With calls are replayed in order on every record.
type deferredHandler struct {
	target *atomic.Pointer[slog.Handler]
	chain  []func(slog.Handler) slog.Handler
}

func (h *deferredHandler) resolve() slog.Handler {
	handler := *h.target.Load()
	for _, apply := range h.chain {
		handler = apply(handler)
	}
	return handler
}

func (h *deferredHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.resolve().Enabled(ctx, level)
}

func (h *deferredHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.resolve().Handle(ctx, record)
}

func (h *deferredHandler) with(apply func(slog.Handler) slog.Handler) *deferredHandler {
	chain := make([]func(slog.Handler) slog.Handler, 0, len(h.chain)+1)
	chain = append(chain, h.chain...)
	return &deferredHandler{target: h.target, chain: append(chain, apply)}
}

func (h *deferredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *deferredHandler) WithGroup(name string) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

var (
	current atomic.Pointer[slog.Handler]
	root    *slog.Logger
)

func init() {
	var h slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	current.Store(&h)
	root = slog.New(&deferredHandler{target: &current})
	slog.SetDefault(root)
}

// Init installs the global handler.
// format: "json" or "text" (default "text")
// level: "debug", "info", "warn", "error" (default "info")
// output: nil means os.Stderr
func Init(format, level string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(output, opts)
	} else {
		h = slog.NewTextHandler(output, opts)
	}
	current.Store(&h)
}

// L returns a logger tagged with the given component name.
func L(component string) *slog.Logger {
	return root.With(slog.String(KeyComponent, component))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
