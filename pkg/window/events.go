package window

import "fmt"

// Handle identifies one toplevel window for as long as it exists. It is only
// ever used as a lookup key.
type Handle uint64

// Event is a fact reported by the display server. The set of events is closed.
type Event interface {
	isEvent()
}

// AppIDChanged reports the application identifier of a toplevel.
type AppIDChanged struct {
	Handle Handle
	AppID  string
}

// TitleChanged reports a new window title. The tracker only logs it.
type TitleChanged struct {
	Handle Handle
	Title  string
}

// StateChanged carries the full current state list of a toplevel.
type StateChanged struct {
	Handle   Handle
	Snapshot Snapshot
}

// Closed reports that a toplevel went away. No further events follow for the handle.
type Closed struct {
	Handle Handle
}

// Idled reports that the user has been inactive past the configured timeout.
type Idled struct{}

// Resumed reports that the user is back.
type Resumed struct{}

func (AppIDChanged) isEvent() {}
func (TitleChanged) isEvent() {}
func (StateChanged) isEvent() {}
func (Closed) isEvent()       {}
func (Idled) isEvent()        {}
func (Resumed) isEvent()      {}

func (e AppIDChanged) String() string {
	return fmt.Sprintf("app_id(%d, %q)", e.Handle, e.AppID)
}

func (e StateChanged) String() string {
	return fmt.Sprintf("state(%d, %s)", e.Handle, e.Snapshot)
}

func (e Closed) String() string {
	return fmt.Sprintf("closed(%d)", e.Handle)
}
