package tracker

import "github.com/appusage/appusage/pkg/window"

// Idle closes every open session. Activated entries stay activated so Resume
// can reopen them.
func (e *Engine) Idle() {
	e.idle = true
	e.registry.Each(func(h window.Handle, entry *Entry) {
		e.closeSession(h, entry)
	})
	e.log.Debug("user idle")
}

// Resume starts a fresh session for every activated entry. Sessions begin
// now, not when the window was activated during the idle period.
func (e *Engine) Resume() {
	e.idle = false
	now := e.clock.Monotonic()
	e.registry.Each(func(h window.Handle, entry *Entry) {
		if !entry.Activated {
			return
		}
		// Only reachable on a repeated Resumed; keep what was measured.
		e.closeSession(h, entry)
		entry.openSession(now)
	})
	e.log.Debug("user active")
}
