// Package x11 provides the event source used on X11 sessions. Focus comes
// from _NET_ACTIVE_WINDOW on the root window and idleness from the
// MIT-SCREEN-SAVER extension.
package x11

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/appusage/appusage/internal/logging"
	"github.com/appusage/appusage/pkg/integrations/process"
	"github.com/appusage/appusage/pkg/window"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
)

// Options configures a Source.
type Options struct {
	// Display overrides $DISPLAY.
	Display string

	// IdleTimeout is the inactivity after which the user counts as idle.
	IdleTimeout time.Duration

	// IdlePoll is how often the idle counter is sampled.
	IdlePoll time.Duration
}

// Source implements window.Source on an X11 display.
type Source struct {
	opts Options
	log  *slog.Logger

	mu   sync.Mutex
	conn *xgb.Conn
}

// NewSource creates a source; no connection is made until Run.
func NewSource(opts Options) *Source {
	if opts.IdlePoll <= 0 {
		opts.IdlePoll = 5 * time.Second
	}
	return &Source{opts: opts, log: logging.L("x11")}
}

// GetDisplayServer returns "x11"
func (s *Source) GetDisplayServer() string {
	return "x11"
}

// Close drops the X connection, which also ends a running Run.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}

type client struct {
	conn        *xgb.Conn
	root        xproto.Window
	activeAtom  xproto.Atom
	wmClassAtom xproto.Atom
	wmPIDAtom   xproto.Atom
}

func (s *Source) connect() (*client, error) {
	conn, err := xgb.NewConnDisplay(s.opts.Display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}

	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: MIT-SCREEN-SAVER (%v)", window.ErrMissingProtocol, err)
	}

	c := &client{
		conn: conn,
		root: xproto.Setup(conn).DefaultScreen(conn).Root,
	}

	if c.activeAtom, err = internAtom(conn, "_NET_ACTIVE_WINDOW"); err != nil {
		conn.Close()
		return nil, err
	}
	if c.wmClassAtom, err = internAtom(conn, "WM_CLASS"); err != nil {
		conn.Close()
		return nil, err
	}
	if c.wmPIDAtom, err = internAtom(conn, "_NET_WM_PID"); err != nil {
		conn.Close()
		return nil, err
	}

	err = xproto.ChangeWindowAttributesChecked(conn, c.root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: watch root window: %w", err)
	}

	return c, nil
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11: intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func (c *client) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (c *client) activeWindow() xproto.Window {
	data, err := c.getProperty(c.root, c.activeAtom, xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

// appID prefers WM_CLASS and falls back to the name of the process that
// owns the window.
func (c *client) appID(win xproto.Window) string {
	data, err := c.getProperty(win, c.wmClassAtom, xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		if id := parseWMClass(data); id != "" {
			return id
		}
	}

	data, err = c.getProperty(win, c.wmPIDAtom, xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return ""
	}
	name, err := process.Name(int(binary.LittleEndian.Uint32(data)))
	if err != nil {
		return ""
	}
	return name
}

// watchDestroy asks for DestroyNotify on win so Closed can be reported.
func (c *client) watchDestroy(win xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.conn, win, xproto.CwEventMask,
		[]uint32{xproto.EventMaskStructureNotify}).Check()
}

func (c *client) sinceInput() (time.Duration, error) {
	info, err := screensaver.QueryInfo(c.conn, xproto.Drawable(c.root)).Reply()
	if err != nil {
		return 0, err
	}
	return time.Duration(info.MsSinceUserInput) * time.Millisecond, nil
}

// Run forwards focus and idle changes until ctx is cancelled or the X
// connection drops.
func (s *Source) Run(ctx context.Context, out chan<- window.Event) error {
	c, err := s.connect()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = c.conn
	s.mu.Unlock()
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	xevents := make(chan xgb.Event)
	go func() {
		defer close(xevents)
		for {
			ev, xerr := c.conn.WaitForEvent()
			if ev == nil && xerr == nil {
				return
			}
			if xerr != nil {
				// Usually BadWindow for a window that vanished between
				// notification and query.
				s.log.Debug("x11 error", logging.KeyError, xerr)
				continue
			}
			select {
			case xevents <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	state := newFocusState()
	emit := func(events []window.Event) error {
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	focus := func() error {
		win := c.activeWindow()
		var app string
		if win != 0 && !state.isKnown(uint32(win)) {
			app = c.appID(win)
			if err := c.watchDestroy(win); err != nil {
				s.log.Debug("cannot watch window", "window", win, logging.KeyError, err)
			}
		}
		return emit(state.activeChanged(uint32(win), app))
	}

	s.log.Info("connected to X server", "idleTimeout", s.opts.IdleTimeout, "idlePoll", s.opts.IdlePoll)

	if err := focus(); err != nil {
		return err
	}

	ticker := time.NewTicker(s.opts.IdlePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-xevents:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("x11: connection closed")
			}

			var err error
			switch ev := ev.(type) {
			case xproto.PropertyNotifyEvent:
				if ev.Window == c.root && ev.Atom == c.activeAtom {
					err = focus()
				}
			case xproto.DestroyNotifyEvent:
				err = emit(state.destroyed(uint32(ev.Window)))
			}
			if err != nil {
				return err
			}

		case <-ticker.C:
			since, err := c.sinceInput()
			if err != nil {
				s.log.Warn("idle query failed", logging.KeyError, err)
				continue
			}
			if err := emit(state.idleSample(since, s.opts.IdleTimeout)); err != nil {
				return err
			}
		}
	}
}
