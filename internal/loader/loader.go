// Package loader coordinates validation, the readiness deadline and the
// playback session into one observable state machine.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/engine"
	"github.com/endoreels/reelplayer/internal/media"
	"github.com/endoreels/reelplayer/internal/session"
	"github.com/endoreels/reelplayer/internal/validate"
	"github.com/endoreels/reelplayer/internal/watchdog"
)

// DefaultTimeout bounds a Prepare attempt when Options.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// Options configures one Prepare attempt. OnReady and OnFailure are
// optional; exactly one of them fires, exactly once, per attempt.
type Options struct {
	AutoPlay  bool
	Timeout   time.Duration
	OnReady   func()
	OnFailure func(error)
}

// attempt scopes one Prepare call: its own watchdog, its own validator
// context. Every asynchronous completion is tagged with the attempt that
// produced it; a completion whose attempt has been superseded is a no-op.
type attempt struct {
	locator string
	opts    Options
	cancel  context.CancelFunc
	wd      *watchdog.Watchdog
}

// Loader races clip validation against a deadline and, on success, hands
// the clip to the session owner. The loader mutex is the single
// synchronization context: every state mutation and staleness check runs
// under it, and background completions marshal themselves back through it.
type Loader struct {
	validator *validate.Validator
	owner     *session.Owner
	log       zerolog.Logger

	mu      sync.Mutex
	state   State
	lastErr error
	player  engine.Interface
	current *attempt
	queue   []delivery
	deliver *sync.Cond
	closing bool

	subsMu sync.RWMutex
	subs   []*Subscription
	closed bool
}

// delivery is one committed outcome: the state event plus the attempt
// callback bound to it, if any.
type delivery struct {
	ev *StateChange
	fn func()
}

// New creates a loader around a validator and a session owner.
func New(v *validate.Validator, o *session.Owner, log zerolog.Logger) *Loader {
	l := &Loader{validator: v, owner: o, log: log}
	l.deliver = sync.NewCond(&l.mu)
	go l.deliverLoop()
	return l
}

// Prepare starts a fresh load attempt for locator. Any in-flight attempt
// is torn down first: its validator is cancelled, its watchdog disarmed
// and its session stopped, and none of its callbacks will fire afterwards.
// Prepare returns immediately; the outcome arrives through the published
// state and the attempt's callbacks.
func (l *Loader) Prepare(locator string, opts Options) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &attempt{locator: locator, opts: opts, cancel: cancel, wd: &watchdog.Watchdog{}}

	l.mu.Lock()
	prev := l.detachLocked()
	l.current = a
	l.owner.Stop()
	l.enqueueLocked(l.setStateLocked(StateLoading, nil), nil)
	l.mu.Unlock()

	if prev != nil {
		prev.wd.Cancel()
	}

	l.log.Debug().Str("locator", locator).Dur("timeout", timeout).Msg("prepare")
	a.wd.Start(timeout, func() { l.timeoutExpired(a) })
	go l.runValidation(ctx, a)
}

// Teardown cancels any in-flight attempt, stops the session, clears the
// published player handle and returns the loader to Idle. Idempotent and
// callable at any time.
func (l *Loader) Teardown() {
	l.mu.Lock()
	prev := l.detachLocked()
	l.owner.Stop()
	if l.state != StateIdle {
		l.enqueueLocked(l.setStateLocked(StateIdle, nil), nil)
	}
	l.mu.Unlock()

	if prev != nil {
		prev.wd.Cancel()
	}
}

// detachLocked abandons the current attempt: later completions tagged with
// it fail the staleness check. The attempt's validator context is
// cancelled here; its watchdog must be cancelled by the caller after the
// loader mutex is released, since the watchdog callback takes that mutex.
func (l *Loader) detachLocked() *attempt {
	a := l.current
	l.current = nil
	l.player = nil
	l.lastErr = nil
	if a != nil {
		a.cancel()
	}
	return a
}

func (l *Loader) runValidation(ctx context.Context, a *attempt) {
	clip, err := l.validator.Validate(ctx, a.locator)
	if ctx.Err() != nil {
		// Cancelled runs are silent: the watchdog or a superseding
		// Prepare/Teardown already decided the outcome.
		return
	}
	if err != nil {
		l.validationFailed(a, err)
		return
	}
	l.validated(a, clip)
}

func (l *Loader) timeoutExpired(a *attempt) {
	err := validate.NewError(validate.KindTimeout, a.locator, nil)

	l.mu.Lock()
	if l.current != a {
		l.mu.Unlock()
		return
	}
	l.current = nil
	a.cancel()
	l.failLocked(a, err)
	l.mu.Unlock()

	l.log.Warn().Str("locator", a.locator).Msg("readiness deadline elapsed")
}

func (l *Loader) validationFailed(a *attempt, err error) {
	a.wd.Cancel()

	l.mu.Lock()
	if l.current != a {
		l.mu.Unlock()
		return
	}
	l.current = nil
	l.failLocked(a, err)
	l.mu.Unlock()

	l.log.Warn().Str("locator", a.locator).Err(err).Msg("validation failed")
}

func (l *Loader) validated(a *attempt, clip *media.Clip) {
	a.wd.Cancel()

	l.mu.Lock()
	if l.current != a {
		l.mu.Unlock()
		return
	}
	err := l.owner.Start(clip, a.opts.AutoPlay,
		func() { l.ownerReady(a) },
		func(failure error) { l.ownerFailed(a, failure) })
	if err == nil {
		l.mu.Unlock()
		return
	}
	l.current = nil
	l.failLocked(a, err)
	l.mu.Unlock()
}

func (l *Loader) ownerReady(a *attempt) {
	l.mu.Lock()
	if l.current != a {
		l.mu.Unlock()
		return
	}
	l.player = l.owner.Engine()
	l.enqueueLocked(l.setStateLocked(StateReady, nil), a.opts.OnReady)
	l.mu.Unlock()

	l.log.Info().Str("locator", a.locator).Msg("clip ready")
}

func (l *Loader) ownerFailed(a *attempt, err error) {
	l.mu.Lock()
	if l.current != a {
		l.mu.Unlock()
		return
	}
	l.current = nil
	l.player = nil
	l.failLocked(a, err)
	l.mu.Unlock()

	l.log.Warn().Str("locator", a.locator).Err(err).Msg("session failed")
}

// failLocked commits a Failed transition and queues its delivery.
func (l *Loader) failLocked(a *attempt, err error) {
	var fn func()
	if a.opts.OnFailure != nil {
		onFailure := a.opts.OnFailure
		fn = func() { onFailure(err) }
	}
	l.enqueueLocked(l.setStateLocked(StateFailed, err), fn)
}

// enqueueLocked appends one outcome to the delivery queue. Queue order is
// commit order, and the single delivery goroutine preserves it, so
// subscribers and callbacks observe transitions in the order they happened
// even when attempts resolve on different goroutines.
func (l *Loader) enqueueLocked(ev *StateChange, fn func()) {
	l.queue = append(l.queue, delivery{ev: ev, fn: fn})
	l.deliver.Signal()
}

func (l *Loader) deliverLoop() {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closing {
			l.deliver.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		d := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.publish(d.ev)
		if d.fn != nil {
			d.fn()
		}
	}
}

func (l *Loader) setStateLocked(next State, err error) *StateChange {
	ev := &StateChange{Previous: l.state, Current: next, Err: err}
	l.state = next
	l.lastErr = err
	return ev
}

// State returns the current load state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the failure behind a Failed state, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Player returns the live playback handle. Non-nil exactly while the
// loader is Ready.
func (l *Loader) Player() engine.Interface {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.player
}

// Subscribe creates a new event subscription.
func (l *Loader) Subscribe() *Subscription {
	l.subsMu.Lock()
	defer l.subsMu.Unlock()
	sub := newSubscription()
	l.subs = append(l.subs, sub)
	return sub
}

func (l *Loader) publish(ev *StateChange) {
	if ev == nil {
		return
	}
	l.subsMu.RLock()
	defer l.subsMu.RUnlock()
	for _, sub := range l.subs {
		sub.sendState(*ev)
	}
}

// Close tears the loader down, drains pending deliveries and closes all
// subscriptions.
func (l *Loader) Close() error {
	l.Teardown()

	l.mu.Lock()
	l.closing = true
	l.deliver.Signal()
	l.mu.Unlock()

	l.subsMu.Lock()
	defer l.subsMu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	for _, sub := range l.subs {
		sub.close()
	}
	l.subs = nil
	return nil
}
