package smile

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the minimum interval between two accepted capture
// triggers.
const DefaultDebounceWindow = 2000 * time.Millisecond

// Throttle debounces capture triggers: once a trigger is accepted, further
// triggers are rejected until the debounce window has passed. Rejected
// triggers are dropped, not queued.
//
// The check and the timestamp update are one atomic step, so concurrent
// callers cannot both be accepted inside one window.
type Throttle struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

// NewThrottle creates a Throttle with the given debounce window. Windows
// less than or equal to zero fall back to DefaultDebounceWindow.
func NewThrottle(window time.Duration) *Throttle {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Throttle{window: window}
}

// ShouldTrigger reports whether a capture may fire at the given instant and,
// if so, records the instant as the last accepted trigger. The zero-valued
// last-trigger time means the throttle has never fired and the first call is
// always accepted.
func (t *Throttle) ShouldTrigger(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() && now.Sub(t.last) < t.window {
		return false
	}

	t.last = now
	return true
}

// LastTrigger returns the time of the last accepted trigger, or the zero
// time if the throttle has never fired.
func (t *Throttle) LastTrigger() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Window returns the debounce window.
func (t *Throttle) Window() time.Duration {
	return t.window
}

// Reset clears the throttle so the next trigger is accepted immediately.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}
