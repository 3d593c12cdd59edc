// Package session owns the single live playback session: one engine bound
// to one validated clip, with its readiness and fault subscriptions.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/engine"
	"github.com/endoreels/reelplayer/internal/media"
)

// Owner holds at most one live session at a time. Start unconditionally
// tears down the previous session before binding a new one, so two
// sessions never alias the engine.
type Owner struct {
	eng engine.Interface
	log zerolog.Logger

	mu      sync.Mutex
	current *session
}

// session pairs the bound clip with its callback slots. Callback slots are
// cleared inside the first terminal handler, which is what enforces
// first-terminal-event-wins: a late readiness after a failure finds an
// empty slot and does nothing.
type session struct {
	id   uuid.UUID
	clip *media.Clip

	mu        sync.Mutex
	onReady   func()
	onFailure func(error)

	done     chan struct{}
	stopOnce sync.Once
}

// NewOwner creates an owner around the given engine.
func NewOwner(eng engine.Interface, log zerolog.Logger) *Owner {
	return &Owner{eng: eng, log: log}
}

// Start binds clip to the engine and watches its readiness and fault
// signals. onReady fires at most once, when the session can begin
// producing frames (after playback has been started when autoPlay is set).
// onFailure fires at most once, for the first failure before or after
// readiness, and the session is stopped before it returns. A synchronous
// error means no session was created and neither callback will fire.
func (o *Owner) Start(clip *media.Clip, autoPlay bool, onReady func(), onFailure func(error)) error {
	o.Stop()

	if clip == nil {
		return fmt.Errorf("session start: nil clip")
	}
	if err := o.eng.Load(clip); err != nil {
		return fmt.Errorf("session start: %w", err)
	}

	s := &session{
		id:        uuid.New(),
		clip:      clip,
		onReady:   onReady,
		onFailure: onFailure,
		done:      make(chan struct{}),
	}

	o.mu.Lock()
	o.current = s
	o.mu.Unlock()

	o.log.Debug().Stringer("session", s.id).Str("path", clip.Path).Msg("session started")
	go o.watch(s, autoPlay, o.eng.ReadyChan(), o.eng.FaultChan())
	return nil
}

// watch delivers the session's terminal events. It exits when the session
// is stopped, guaranteeing the subscriptions are released on every path.
func (o *Owner) watch(s *session, autoPlay bool, ready <-chan error, faults <-chan error) {
	select {
	case err := <-ready:
		if err != nil {
			o.fail(s, err)
			return
		}
		playErr, stale := o.becomeReady(s, autoPlay)
		if stale {
			return
		}
		if playErr != nil {
			o.fail(s, playErr)
			return
		}
		if fn := s.takeReady(); fn != nil {
			fn()
		}
	case <-s.done:
		return
	}

	select {
	case err := <-faults:
		o.fail(s, err)
	case <-s.done:
	}
}

// becomeReady starts playback for a ready session. The ownership check and
// the Play call happen under the owner mutex: a readiness signal buffered
// before the session was superseded must never drive the engine, which by
// then belongs to the successor.
func (o *Owner) becomeReady(s *session, autoPlay bool) (playErr error, stale bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != s {
		return nil, true
	}
	if autoPlay {
		if err := o.eng.Play(); err != nil {
			return err, false
		}
	}
	return nil, false
}

func (o *Owner) fail(s *session, err error) {
	fn := s.takeFailure()
	o.stopSession(s)
	if fn != nil {
		o.log.Debug().Stringer("session", s.id).Err(err).Msg("session failed")
		fn(err)
	}
}

// Stop tears down the live session, if any: releases the engine,
// unsubscribes the watcher and clears callback references. Idempotent.
func (o *Owner) Stop() {
	o.mu.Lock()
	s := o.current
	o.current = nil
	o.mu.Unlock()

	if s == nil {
		return
	}
	s.close()
	o.eng.Stop()
	o.log.Debug().Stringer("session", s.id).Msg("session stopped")
}

// stopSession stops s only if it is still the live session. A session that
// was already superseded must not touch the engine, which now belongs to
// its successor.
func (o *Owner) stopSession(s *session) {
	o.mu.Lock()
	if o.current != s {
		o.mu.Unlock()
		s.close()
		return
	}
	o.current = nil
	o.mu.Unlock()

	s.close()
	o.eng.Stop()
}

// Active reports whether a live session exists.
func (o *Owner) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil
}

// Engine exposes the underlying engine for rendering layers.
func (o *Owner) Engine() engine.Interface {
	return o.eng
}

func (s *session) takeReady() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn := s.onReady
	s.onReady = nil
	return fn
}

func (s *session) takeFailure() func(error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn := s.onFailure
	s.onFailure = nil
	s.onReady = nil
	return fn
}

func (s *session) close() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.onReady = nil
		s.onFailure = nil
		s.mu.Unlock()
		close(s.done)
	})
}
