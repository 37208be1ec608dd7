// Package stats provides a small execution timer for reporting elapsed
// command time.
package stats

import (
	"time"
)

// Timer measures elapsed wall-clock time between Start and Stop.
type Timer struct {
	started time.Time
	stopped time.Time
	running bool
}

// NewTimer returns a timer, started immediately when start is true.
func NewTimer(start bool) *Timer {
	t := &Timer{}
	if start {
		t.Start()
	}
	return t
}

// Start begins (or restarts) the measurement.
func (t *Timer) Start() {
	t.started = time.Now()
	t.stopped = time.Time{}
	t.running = true
}

// Stop ends the measurement. Calling Stop on a stopped timer has no
// effect.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.stopped = time.Now()
	t.running = false
}

// IsRunning reports whether the timer has been started and not stopped.
func (t *Timer) IsRunning() bool { return t.running }

// Elapsed returns the measured duration: up to now while running, up to
// Stop once stopped, zero when never started.
func (t *Timer) Elapsed() time.Duration {
	if t.started.IsZero() {
		return 0
	}
	if t.running {
		return time.Since(t.started)
	}
	return t.stopped.Sub(t.started)
}

// Format renders the elapsed time rounded to milliseconds, e.g.
// "1m23.456s".
func (t *Timer) Format() string {
	return t.Elapsed().Round(time.Millisecond).String()
}
