// Package clock separates the two time sources the tracker needs: a
// monotonic reading for measuring how long a window stayed focused, and the
// wall clock for timestamps that get persisted.
package clock

import (
	"sync"
	"time"
)

// Instant is a point on the monotonic clock, expressed as the elapsed time
// since the clock was created. Instants from different clocks are not
// comparable.
type Instant time.Duration

// Sub returns the duration between two instants.
func (i Instant) Sub(earlier Instant) time.Duration {
	return time.Duration(i - earlier)
}

// Clock supplies monotonic instants and wall-clock time.
type Clock interface {
	Monotonic() Instant
	Wall() time.Time
}

type systemClock struct {
	origin time.Time
}

// System returns a Clock backed by the runtime. Monotonic readings come from
// the monotonic component of time.Now and are immune to wall-clock steps.
func System() Clock {
	return &systemClock{origin: time.Now()}
}

func (c *systemClock) Monotonic() Instant {
	return Instant(time.Since(c.origin))
}

func (c *systemClock) Wall() time.Time {
	// Round(0) strips the monotonic reading so the value is a plain wall time.
	return time.Now().Round(0)
}

// Fake is a manually driven Clock for tests. Wall time and monotonic time
// advance together unless StepWall is used.
type Fake struct {
	mu   sync.Mutex
	mono Instant
	wall time.Time
}

// NewFake returns a Fake whose wall clock starts at wall.
func NewFake(wall time.Time) *Fake {
	return &Fake{wall: wall}
}

func (f *Fake) Monotonic() Instant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mono
}

func (f *Fake) Wall() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wall
}

// Advance moves both clocks forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mono += Instant(d)
	f.wall = f.wall.Add(d)
}

// StepWall moves only the wall clock, simulating an NTP step or a manual
// clock change.
func (f *Fake) StepWall(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wall = f.wall.Add(d)
}
