// Package wayland reads toplevel and idle events straight from the
// compositor socket using the wlr foreign-toplevel-management and
// ext-idle-notify protocols.
package wayland

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/appusage/appusage/internal/logging"
	"github.com/appusage/appusage/pkg/window"
)

// ProtocolError is a fatal wl_display.error sent by the compositor.
type ProtocolError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wayland: protocol error on object %d (code %d): %s", e.ObjectID, e.Code, e.Message)
}

var errManagerFinished = errors.New("wayland: compositor finished the toplevel manager")

type global struct {
	name    uint32
	iface   string
	version uint32
}

// Options configures a Source.
type Options struct {
	// SocketPath overrides the socket resolved from WAYLAND_DISPLAY.
	SocketPath string

	// IdleTimeout is how long the user must be inactive before the
	// compositor sends idled.
	IdleTimeout time.Duration
}

// Source implements window.Source on a Wayland compositor.
type Source struct {
	opts Options
	dial func(ctx context.Context) (io.ReadWriteCloser, error)
	log  *slog.Logger

	mu sync.Mutex
	rw io.ReadWriteCloser
}

// NewSource creates a source; no connection is made until Run.
func NewSource(opts Options) *Source {
	s := &Source{
		opts: opts,
		log:  logging.L("wayland"),
	}
	s.dial = s.dialSocket
	return s
}

func (s *Source) dialSocket(ctx context.Context) (io.ReadWriteCloser, error) {
	path := s.opts.SocketPath
	if path == "" {
		var err error
		if path, err = SocketPath(); err != nil {
			return nil, err
		}
	}

	var d net.Dialer
	c, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("wayland: connect to %s: %w", path, err)
	}
	return c, nil
}

// GetDisplayServer returns "wayland"
func (s *Source) GetDisplayServer() string {
	return "wayland"
}

// Close drops the compositor connection, which also ends a running Run.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rw == nil {
		return nil
	}
	err := s.rw.Close()
	s.rw = nil
	return err
}

// Run connects, binds the required globals and forwards events until ctx is
// cancelled or the connection fails. A compositor lacking the toplevel
// manager, the idle notifier or a seat yields window.ErrMissingProtocol.
func (s *Source) Run(ctx context.Context, out chan<- window.Event) error {
	rw, err := s.dial(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rw = rw
	s.mu.Unlock()
	defer s.Close()

	// Closing the socket unblocks the reader when ctx ends.
	stop := context.AfterFunc(ctx, func() { rw.Close() })
	defer stop()

	err = s.run(ctx, newConn(rw), out)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *Source) run(ctx context.Context, c *conn, out chan<- window.Event) error {
	registry, globals, err := discover(c)
	if err != nil {
		return err
	}

	seat, hasSeat := find(globals, ifaceSeat)
	manager, hasManager := find(globals, ifaceToplevelManager)
	notifier, hasNotifier := find(globals, ifaceIdleNotifier)

	var missing []string
	if !hasManager {
		missing = append(missing, ifaceToplevelManager)
	}
	if !hasNotifier {
		missing = append(missing, ifaceIdleNotifier)
	}
	if !hasSeat {
		missing = append(missing, ifaceSeat)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", window.ErrMissingProtocol, strings.Join(missing, ", "))
	}

	seatID, err := c.bind(registry, seat, min(seat.version, seatVersion), kindSeat)
	if err != nil {
		return err
	}
	if _, err := c.bind(registry, manager, min(manager.version, toplevelManagerVersion), kindToplevelManager); err != nil {
		return err
	}
	notifierID, err := c.bind(registry, notifier, min(notifier.version, idleNotifierVersion), kindIdleNotifier)
	if err != nil {
		return err
	}

	timeout := uint32(s.opts.IdleTimeout.Milliseconds())
	if _, err := c.getIdleNotification(notifierID, timeout, seatID); err != nil {
		return err
	}

	s.log.Info("connected to compositor",
		"compositor", Compositor(),
		"toplevelManagerVersion", min(manager.version, toplevelManagerVersion),
		"idleTimeoutMs", timeout)

	watched := map[uint32]string{manager.name: manager.iface, notifier.name: notifier.iface, seat.name: seat.iface}

	for {
		msg, err := c.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("wayland: compositor closed the connection")
			}
			return fmt.Errorf("wayland: read event: %w", err)
		}

		ev, err := s.dispatch(c, msg, watched)
		if err != nil {
			return err
		}
		if ev == nil {
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// discover fetches the registry and waits for a sync round trip so that every
// global the compositor advertises has been seen.
func discover(c *conn) (uint32, []global, error) {
	registry, err := c.getRegistry()
	if err != nil {
		return 0, nil, err
	}
	callback, err := c.sync()
	if err != nil {
		return 0, nil, err
	}

	var globals []global
	for {
		msg, err := c.read()
		if err != nil {
			return 0, nil, fmt.Errorf("wayland: read registry: %w", err)
		}

		switch {
		case msg.sender == registry && msg.opcode == registryEventGlobal:
			d := decoder{b: msg.body}
			g := global{name: d.uint(), iface: d.string(), version: d.uint()}
			if d.err != nil {
				return 0, nil, fmt.Errorf("wayland: decode global: %w", d.err)
			}
			globals = append(globals, g)

		case msg.sender == callback && msg.opcode == callbackEventDone:
			delete(c.objects, callback)
			return registry, globals, nil

		case msg.sender == displayID && msg.opcode == displayEventError:
			return 0, nil, decodeProtocolError(msg)
		}
	}
}

func find(globals []global, iface string) (global, bool) {
	for _, g := range globals {
		if g.iface == iface {
			return g, true
		}
	}
	return global{}, false
}

func decodeProtocolError(msg message) error {
	d := decoder{b: msg.body}
	pe := &ProtocolError{ObjectID: d.uint(), Code: d.uint(), Message: d.string()}
	if d.err != nil {
		return fmt.Errorf("wayland: decode protocol error: %w", d.err)
	}
	return pe
}

// dispatch decodes one event. It returns a nil event for messages that carry
// nothing for the tracker.
func (s *Source) dispatch(c *conn, msg message, watched map[uint32]string) (window.Event, error) {
	kind, ok := c.objects[msg.sender]
	if !ok {
		// Events can still arrive for an object we just destroyed.
		s.log.Debug("event for unknown object", "object", msg.sender, "opcode", msg.opcode)
		return nil, nil
	}

	d := decoder{b: msg.body}
	handle := window.Handle(msg.sender)

	var ev window.Event
	switch kind {
	case kindDisplay:
		switch msg.opcode {
		case displayEventError:
			return nil, decodeProtocolError(msg)
		case displayEventDeleteID:
			id := d.uint()
			if d.err == nil {
				delete(c.objects, id)
			}
		}

	case kindRegistry:
		if msg.opcode == registryEventGlobalRemove {
			name := d.uint()
			if iface, ok := watched[name]; ok && d.err == nil {
				s.log.Warn("compositor removed a global in use", "interface", iface)
			}
		}

	case kindToplevelManager:
		switch msg.opcode {
		case managerEventToplevel:
			id := d.uint()
			if d.err == nil {
				c.track(id, kindToplevel)
			}
		case managerEventFinished:
			return nil, errManagerFinished
		}

	case kindToplevel:
		switch msg.opcode {
		case toplevelEventTitle:
			ev = window.TitleChanged{Handle: handle, Title: d.string()}
		case toplevelEventAppID:
			ev = window.AppIDChanged{Handle: handle, AppID: d.string()}
		case toplevelEventState:
			ev = window.StateChanged{Handle: handle, Snapshot: window.ParseStates(d.array())}
		case toplevelEventClosed:
			ev = window.Closed{Handle: handle}
			if err := c.destroy(msg.sender, toplevelDestroy); err != nil {
				return nil, err
			}
		case toplevelEventOutputEnter, toplevelEventOutputLeave, toplevelEventDone, toplevelEventParent:
		}

	case kindIdleNotification:
		switch msg.opcode {
		case idleEventIdled:
			ev = window.Idled{}
		case idleEventResumed:
			ev = window.Resumed{}
		}
	}

	if d.err != nil {
		s.log.Warn("dropping malformed event",
			"interface", kind.String(), "opcode", msg.opcode, logging.KeyError, d.err)
		return nil, nil
	}
	return ev, nil
}
