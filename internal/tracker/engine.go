package tracker

import (
	"log/slog"
	"time"

	"github.com/appusage/appusage/internal/clock"
	"github.com/appusage/appusage/internal/logging"
	"github.com/appusage/appusage/pkg/window"
)

// Engine turns window and idle events into focus sessions. Every method must
// be called from the same goroutine; events are applied one at a time in
// delivery order.
//
// A session is open for an entry only while it is activated and the user is
// not idle, and an entry never has more than one.
type Engine struct {
	registry *Registry
	idle     bool
	clock    clock.Clock
	recorder Recorder
	log      *slog.Logger
}

func NewEngine(clk clock.Clock, recorder Recorder) *Engine {
	return &Engine{
		registry: NewRegistry(),
		clock:    clk,
		recorder: recorder,
		log:      logging.L("tracker"),
	}
}

// Apply dispatches one event.
func (e *Engine) Apply(ev window.Event) {
	switch ev := ev.(type) {
	case window.AppIDChanged:
		e.SetAppID(ev.Handle, ev.AppID)
	case window.TitleChanged:
		e.registry.GetOrCreate(ev.Handle)
		e.log.Debug("title changed", logging.KeyHandle, ev.Handle, "title", ev.Title)
	case window.StateChanged:
		e.SetActivation(ev.Handle, ev.Snapshot)
	case window.Closed:
		e.Close(ev.Handle)
	case window.Idled:
		e.Idle()
	case window.Resumed:
		e.Resume()
	}
}

// SetAppID names the application behind h. It never opens or closes a session.
func (e *Engine) SetAppID(h window.Handle, appID string) {
	entry := e.registry.GetOrCreate(h)
	entry.AppID = appID
	e.log.Debug("app id", logging.KeyHandle, h, logging.KeyApp, appID)
}

// SetActivation applies a full state snapshot for h. Only the activated flag
// matters; an invalid snapshot leaves the entry as it was.
func (e *Engine) SetActivation(h window.Handle, snap window.Snapshot) {
	entry := e.registry.GetOrCreate(h)

	if !snap.Valid() {
		e.log.Warn("ignoring malformed state snapshot",
			logging.KeyHandle, h, logging.KeyApp, entry.AppID, logging.KeyError, snap.Err())
		return
	}

	activated := snap.Activated()
	switch {
	case activated == entry.Activated:
	case activated:
		entry.Activated = true
		if !e.idle {
			entry.openSession(e.clock.Monotonic())
			e.log.Debug("session opened", logging.KeyHandle, h, logging.KeyApp, entry.AppID)
		}
	default:
		entry.Activated = false
		e.closeSession(h, entry)
	}
}

// Close ends any session for h and forgets the handle.
func (e *Engine) Close(h window.Handle) {
	if entry, ok := e.registry.Get(h); ok {
		e.closeSession(h, entry)
	}
	e.registry.Remove(h)
}

// Flush closes and records every open session without forgetting any entry.
func (e *Engine) Flush() {
	e.registry.Each(func(h window.Handle, entry *Entry) {
		e.closeSession(h, entry)
	})
}

// IsIdle reports whether the user is currently away.
func (e *Engine) IsIdle() bool {
	return e.idle
}

// Focused returns the app whose session is open, if any, and when it began
// on the wall clock.
func (e *Engine) Focused() (app string, since time.Time, ok bool) {
	nowMono := e.clock.Monotonic()
	nowWall := e.clock.Wall()
	e.registry.Each(func(_ window.Handle, entry *Entry) {
		if ok || !entry.open {
			return
		}
		app = entry.AppID
		since = nowWall.Add(-nowMono.Sub(entry.started))
		ok = true
	})
	return app, since, ok
}

// Windows returns the number of toplevels currently tracked.
func (e *Engine) Windows() int {
	return e.registry.Len()
}

func (e *Engine) closeSession(h window.Handle, entry *Entry) {
	started, ok := entry.takeSession()
	if !ok {
		return
	}

	duration := e.clock.Monotonic().Sub(started)
	end := e.clock.Wall()

	if entry.AppID == "" {
		e.log.Debug("dropping unattributed session",
			logging.KeyHandle, h, logging.KeyDurationMs, duration.Milliseconds())
		return
	}

	if err := e.recorder.Record(entry.AppID, end, duration); err != nil {
		e.log.Warn("failed to record session",
			logging.KeyApp, entry.AppID, logging.KeyDurationMs, duration.Milliseconds(), logging.KeyError, err)
		return
	}

	e.log.Info("session recorded",
		logging.KeyApp, entry.AppID, logging.KeyDurationMs, duration.Milliseconds())
}
