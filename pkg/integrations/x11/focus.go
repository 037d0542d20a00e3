package x11

import (
	"strings"
	"time"

	"github.com/appusage/appusage/pkg/window"
)

// focusState turns X11 observations into the event stream the tracker
// expects. X11 only tells us which window is active, so every activation
// change becomes a pair of full snapshots: empty for the old window,
// activated for the new one.
type focusState struct {
	active uint32
	known  map[uint32]bool
	idle   bool
}

func newFocusState() *focusState {
	return &focusState{known: make(map[uint32]bool)}
}

// activeChanged records that win (0 for none) now has focus.
func (f *focusState) activeChanged(win uint32, appID string) []window.Event {
	if win == f.active {
		return nil
	}

	var events []window.Event
	if f.active != 0 && f.known[f.active] {
		events = append(events, window.StateChanged{Handle: window.Handle(f.active), Snapshot: window.NewSnapshot()})
	}

	f.active = win
	if win == 0 {
		return events
	}

	if !f.known[win] {
		f.known[win] = true
		if appID != "" {
			events = append(events, window.AppIDChanged{Handle: window.Handle(win), AppID: appID})
		}
	}
	return append(events, window.StateChanged{
		Handle:   window.Handle(win),
		Snapshot: window.NewSnapshot(window.StateActivated),
	})
}

// isKnown reports whether events have been emitted for win.
func (f *focusState) isKnown(win uint32) bool {
	return f.known[win]
}

// destroyed records that win is gone.
func (f *focusState) destroyed(win uint32) []window.Event {
	if !f.known[win] {
		return nil
	}
	delete(f.known, win)
	if f.active == win {
		f.active = 0
	}
	return []window.Event{window.Closed{Handle: window.Handle(win)}}
}

// idleSample compares the time since the last input against timeout and
// reports transitions only.
func (f *focusState) idleSample(sinceInput, timeout time.Duration) []window.Event {
	switch {
	case !f.idle && sinceInput >= timeout:
		f.idle = true
		return []window.Event{window.Idled{}}
	case f.idle && sinceInput < timeout:
		f.idle = false
		return []window.Event{window.Resumed{}}
	}
	return nil
}

// parseWMClass extracts the application identifier from a raw WM_CLASS
// value ("instance\x00class\x00"). The class is preferred as it is stable
// across instances; the instance name is the fallback.
func parseWMClass(raw []byte) string {
	parts := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	return parts[0]
}
