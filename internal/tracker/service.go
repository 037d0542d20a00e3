package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/appusage/appusage/internal/clock"
	"github.com/appusage/appusage/internal/config"
	"github.com/appusage/appusage/internal/logging"
	"github.com/appusage/appusage/internal/models"
	"github.com/appusage/appusage/pkg/window"
)

// ErrAlreadyRunning is returned by Start when the service loop is active.
var ErrAlreadyRunning = errors.New("tracker is already running")

// Status is a point-in-time view of the tracker, safe to read from other
// goroutines.
type Status struct {
	Running       bool      `json:"running"`
	DisplayServer string    `json:"display_server"`
	Idle          bool      `json:"idle"`
	Windows       int       `json:"windows"`
	FocusedApp    string    `json:"focused_app,omitempty"`
	FocusedSince  time.Time `json:"focused_since,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Service runs the event loop: it owns the engine and feeds it every event
// the source produces, one at a time.
type Service struct {
	config   *config.Config
	store    Store
	source   window.Source
	clock    clock.Clock
	recorder Recorder

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	status   atomic.Pointer[Status]
	log      *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the system clock.
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithRecorder replaces the store-backed recorder.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) { s.recorder = rec }
}

func NewService(cfg *config.Config, store Store, source window.Source, opts ...Option) *Service {
	s := &Service{
		config:   cfg,
		store:    store,
		source:   source,
		clock:    clock.System(),
		stopChan: make(chan struct{}),
		log:      logging.L("tracker"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = NewStoreRecorder(store)
	}
	s.status.Store(&Status{DisplayServer: source.GetDisplayServer()})
	return s
}

// Start blocks until ctx is cancelled, Stop is called, or the source fails.
// Open sessions are recorded on the way out when flush_on_shutdown is set.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	engine := NewEngine(s.clock, s.recorder)
	s.publish(engine)

	s.log.Info("starting tracker",
		logging.KeyBackend, s.source.GetDisplayServer(),
		"idleTimeout", s.config.Tracker.IdleTimeout)

	srcCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unbuffered: the source blocks until the loop has taken each event,
	// which keeps delivery order and lets the drain below see everything.
	events := make(chan window.Event)
	srcDone := make(chan error, 1)
	go func() {
		srcDone <- s.source.Run(srcCtx, events)
	}()

	var result error
loop:
	for {
		select {
		case ev := <-events:
			engine.Apply(ev)
			s.publish(engine)

		case err := <-srcDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.storeError(s.source.GetDisplayServer(), err)
				result = fmt.Errorf("event source stopped: %w", err)
			} else {
				s.log.Info("event source finished")
			}
			break loop

		case <-ctx.Done():
			s.log.Info("tracker stopped by context")
			cancel()
			s.drain(engine, events, srcDone)
			result = ctx.Err()
			break loop

		case <-s.stopChan:
			s.log.Info("tracker stopped")
			cancel()
			s.drain(engine, events, srcDone)
			break loop
		}
	}

	if s.config.Tracker.FlushOnShutdown {
		engine.Flush()
	}
	s.running.Store(false)
	s.publish(engine)

	return result
}

// drain applies events the source emitted before it noticed cancellation.
func (s *Service) drain(engine *Engine, events <-chan window.Event, srcDone <-chan error) {
	for {
		select {
		case ev := <-events:
			engine.Apply(ev)
		case err := <-srcDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.log.Warn("event source error during shutdown", logging.KeyError, err)
			}
			return
		}
	}
}

// Stop asks a running Start to return. It is safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Status returns the state published after the most recent event.
func (s *Service) Status() Status {
	return *s.status.Load()
}

func (s *Service) publish(engine *Engine) {
	st := &Status{
		Running:       s.running.Load(),
		DisplayServer: s.source.GetDisplayServer(),
		Idle:          engine.IsIdle(),
		Windows:       engine.Windows(),
		UpdatedAt:     s.clock.Wall(),
	}
	if app, since, ok := engine.Focused(); ok {
		st.FocusedApp = app
		st.FocusedSince = since
	}
	s.status.Store(st)
}

func (s *Service) storeError(component string, err error) {
	errorLog := &models.ErrorLog{
		Timestamp: s.clock.Wall(),
		Component: component,
		ErrorMsg:  err.Error(),
	}

	if dbErr := s.store.CreateErrorLog(errorLog); dbErr != nil {
		s.log.Error("failed to store error in database",
			logging.KeyError, dbErr, "original", err)
		return
	}
	s.log.Error("error logged to database", logging.KeyError, err)
}
