// Package watchdog provides a scoped single-shot deadline timer used to
// bound the latency of asynchronous work.
package watchdog

import (
	"sync"
	"time"
)

// Watchdog arms a callback to fire once after a timeout unless cancelled
// first. The zero value is ready to use.
//
// Guarantees:
//   - the callback fires at most once per arming
//   - the callback never fires after Cancel returns
//   - re-arming via Start disarms any prior arming first
type Watchdog struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Start arms the watchdog. Any previously armed timer is disarmed first,
// so a single Watchdog never has overlapping timers.
//
// fn runs with the watchdog's internal lock held, which is what makes
// Cancel a barrier: Cancel cannot return while fn is in flight. fn must
// not call Start or Cancel on the same Watchdog.
func (w *Watchdog) Start(timeout time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.disarmLocked()
	w.gen++
	gen := w.gen

	w.timer = time.AfterFunc(timeout, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		// A disarm that lost the race to the firing goroutine shows up
		// here as a stale generation.
		if w.gen != gen {
			return
		}
		w.timer = nil
		fn()
	})
}

// Cancel disarms the watchdog. After Cancel returns the armed callback
// will not fire. Safe to call when nothing is armed.
func (w *Watchdog) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disarmLocked()
}

// Armed reports whether a timer is currently pending.
func (w *Watchdog) Armed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer != nil
}

func (w *Watchdog) disarmLocked() {
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
