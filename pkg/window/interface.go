package window

import (
	"context"
	"errors"
)

// ErrMissingProtocol is returned by a Source whose display server does not
// offer an interface the tracker cannot work without.
var ErrMissingProtocol = errors.New("required display server protocol not available")

// Source is the interface every event ingestion backend must satisfy.
//
// Run delivers events on out, in the order the display server reported them.
// A Source never sends from more than one goroutine at a time, so out is the
// single ordering point for window and idle events.
type Source interface {
	// Run pumps events into out until ctx is cancelled, in which case it
	// returns ctx.Err(), or until the stream ends. A nil error means the
	// display server closed the stream cleanly.
	Run(ctx context.Context, out chan<- Event) error

	// GetDisplayServer returns the display server type ("wayland" or "x11")
	GetDisplayServer() string

	// Close releases the connection to the display server
	Close() error
}
