package tracker

import (
	"github.com/appusage/appusage/internal/clock"
	"github.com/appusage/appusage/pkg/window"
)

// Entry is the tracking state of one toplevel window.
type Entry struct {
	// AppID is empty until the compositor names the application.
	AppID string

	// Activated mirrors the activated flag of the most recent valid state
	// snapshot.
	Activated bool

	started clock.Instant
	open    bool
}

// SessionOpen reports whether a focus session is running for the entry.
func (e *Entry) SessionOpen() bool {
	return e.open
}

func (e *Entry) openSession(now clock.Instant) {
	e.started = now
	e.open = true
}

// takeSession closes the running session and returns when it started.
func (e *Entry) takeSession() (clock.Instant, bool) {
	if !e.open {
		return 0, false
	}
	e.open = false
	return e.started, true
}

// Registry maps toplevel handles to their entries. It is owned by a single
// goroutine and does no locking.
type Registry struct {
	entries map[window.Handle]*Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[window.Handle]*Entry)}
}

// GetOrCreate returns the entry for h, creating a blank one the first time
// the handle is seen.
func (r *Registry) GetOrCreate(h window.Handle) *Entry {
	e, ok := r.entries[h]
	if !ok {
		e = &Entry{}
		r.entries[h] = e
	}
	return e
}

// Get returns the entry for h if it exists.
func (r *Registry) Get(h window.Handle) (*Entry, bool) {
	e, ok := r.entries[h]
	return e, ok
}

// Remove forgets h. Removing an unknown handle is a no-op.
func (r *Registry) Remove(h window.Handle) {
	delete(r.entries, h)
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Each calls fn for every entry in unspecified order.
func (r *Registry) Each(fn func(window.Handle, *Entry)) {
	for h, e := range r.entries {
		fn(h, e)
	}
}
