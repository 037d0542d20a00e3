package clock

import (
	"testing"
	"time"
)

func TestSystemClockMonotonicDoesNotGoBackwards(t *testing.T) {
	c := System()
	first := c.Monotonic()
	second := c.Monotonic()
	if second < first {
		t.Fatalf("monotonic clock went backwards: %v then %v", first, second)
	}
}

func TestSystemClockWallHasNoMonotonicReading(t *testing.T) {
	w := System().Wall()
	if w.String() != w.Round(0).String() {
		t.Errorf("Wall() kept a monotonic reading: %s", w)
	}
}

func TestFakeAdvanceMovesBothClocks(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Advance(90 * time.Second)

	if got := f.Monotonic().Sub(0); got != 90*time.Second {
		t.Errorf("Monotonic() = %v, want 90s", got)
	}
	if got := f.Wall(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("Wall() = %v, want %v", got, start.Add(90*time.Second))
	}
}

func TestFakeStepWallLeavesMonotonicAlone(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.StepWall(-time.Hour)

	if f.Monotonic() != 0 {
		t.Errorf("Monotonic() = %v, want 0", f.Monotonic())
	}
	if !f.Wall().Equal(start.Add(-time.Hour)) {
		t.Errorf("Wall() = %v, want %v", f.Wall(), start.Add(-time.Hour))
	}
}
