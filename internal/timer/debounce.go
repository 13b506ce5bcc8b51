// Package timer models debounce and cool-down windows as explicit timer
// state on top of an injectable clockwork clock.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer coalesces bursts of triggers: every Trigger cancels the pending
// call and schedules a new one, so only the last trigger within the window
// runs.
type Debouncer struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	window  time.Duration
	pending clockwork.Timer
	gen     uint64
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(clock clockwork.Clock, window time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, window: window}
}

// Trigger schedules f after the window, superseding any pending call.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		// Timers fire on their own goroutine and may race a superseding Trigger.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		f()
	})
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return false
	}
	d.pending.Stop()
	d.pending = nil
	d.gen++
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
