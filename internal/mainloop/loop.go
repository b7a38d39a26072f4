package mainloop

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultResolution is how often Start checks for due timers.
const DefaultResolution = 10 * time.Millisecond

// TimerFunc is a timer callback. Returning false stops the timer.
type TimerFunc func() bool

type timer struct {
	key      any
	fn       TimerFunc
	when     Ticks
	interval Ticks
	seq      uint64
}

// Loop runs keyed timers against a Clock.
//
// Callbacks execute without the loop lock held, so a callback may set or clear
// timers (including its own). After ClearTimer or a replacing SetTimer the old
// timer is not rescheduled, but RunDue on another goroutine may already have
// checked it and can still call it once. Callbacks that must not act after
// cancellation carry their own guard.
//
// Thread-safe: all methods may be called from any goroutine.
type Loop struct {
	mu     sync.Mutex
	clock  Clock
	timers map[any]*timer
	seq    uint64

	resolution time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewLoop creates a Loop reading time from clock.
func NewLoop(clock Clock) *Loop {
	return &Loop{
		clock:      clock,
		timers:     make(map[any]*timer, 64),
		resolution: DefaultResolution,
		stopCh:     make(chan struct{}),
	}
}

// Clock returns the loop's clock.
func (l *Loop) Clock() Clock { return l.clock }

// SetResolution changes the polling interval used by Start.
// Must be called before Start.
func (l *Loop) SetResolution(d time.Duration) {
	if d > 0 {
		l.resolution = d
	}
}

// SetTimer schedules fn to run initialDelay ticks from now and then every
// interval ticks while it returns true. interval <= 0 makes a one-shot timer.
// A timer already registered under key is replaced.
func (l *Loop) SetTimer(key any, initialDelay, interval Ticks, fn TimerFunc) {
	if initialDelay < 0 {
		initialDelay = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.timers[key] = &timer{
		key:      key,
		fn:       fn,
		when:     l.clock.Now() + initialDelay,
		interval: interval,
		seq:      l.seq,
	}
}

// ClearTimer removes the timer registered under key.
// Returns false if no such timer existed.
func (l *Loop) ClearTimer(key any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.timers[key]; !ok {
		return false
	}
	delete(l.timers, key)
	return true
}

// HasTimer reports whether a timer is registered under key.
func (l *Loop) HasTimer(key any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.timers[key]
	return ok
}

// TimerCount returns the number of registered timers.
func (l *Loop) TimerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// RunDue executes every timer whose deadline has passed, once each, in
// deadline order. Returns the number of callbacks executed.
func (l *Loop) RunDue() int {
	now := l.clock.Now()

	l.mu.Lock()
	due := make([]*timer, 0, len(l.timers))
	for _, t := range l.timers {
		if t.when <= now {
			due = append(due, t)
		}
	}
	l.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].when != due[j].when {
			return due[i].when < due[j].when
		}
		return due[i].seq < due[j].seq
	})

	ran := 0
	for _, t := range due {
		// Таймер мог быть отменён или заменён предыдущим колбэком.
		if !l.isCurrent(t) {
			continue
		}

		keep := l.call(t)
		ran++

		l.mu.Lock()
		if cur, ok := l.timers[t.key]; ok && cur == t {
			if keep && t.interval > 0 {
				t.when += t.interval
				if t.when <= now {
					t.when = now + t.interval
				}
			} else {
				delete(l.timers, t.key)
			}
		}
		l.mu.Unlock()
	}

	return ran
}

// Start runs due timers every resolution until ctx is canceled or Stop is called.
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.resolution)
	defer ticker.Stop()

	slog.Info("main loop started", "resolution", l.resolution)

	for {
		select {
		case <-ctx.Done():
			slog.Info("main loop stopping")
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("main loop stopped")
			return nil

		case <-ticker.C:
			l.RunDue()
		}
	}
}

// Stop stops a running Start loop.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Loop) isCurrent(t *timer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.timers[t.key]
	return ok && cur == t
}

// call runs the timer callback, stopping the timer if it panics.
func (l *Loop) call(t *timer) (keep bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("timer callback panicked", "key", t.key, "panic", r)
			keep = false
		}
	}()
	return t.fn()
}
