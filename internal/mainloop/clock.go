// Package mainloop provides the server timer facility: a centisecond tick clock
// and a keyed timer loop that drives periodic callbacks.
package mainloop

import (
	"sync"
	"time"
)

// Ticks is a point in time or a duration measured in centiseconds.
type Ticks int64

// TicksPerSecond is the clock resolution.
const TicksPerSecond Ticks = 100

// Duration converts ticks to a time.Duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * 10 * time.Millisecond
}

// TicksFromDuration converts a duration to ticks, truncating.
func TicksFromDuration(d time.Duration) Ticks {
	return Ticks(d / (10 * time.Millisecond))
}

// Clock reports the current tick.
type Clock interface {
	Now() Ticks
}

// SystemClock counts ticks since its creation using the monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a SystemClock starting at tick 0.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns ticks elapsed since the clock was created.
func (c *SystemClock) Now() Ticks {
	return TicksFromDuration(time.Since(c.start))
}

// ManualClock is a Clock advanced explicitly. Used by tests and replays.
type ManualClock struct {
	mu  sync.Mutex
	now Ticks
}

// NewManualClock creates a ManualClock at the given tick.
func NewManualClock(start Ticks) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current tick.
func (c *ManualClock) Now() Ticks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t Ticks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and returns the new tick.
func (c *ManualClock) Advance(d Ticks) Ticks {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}
