// Package engine renders validated clips. The real implementation drives
// an ffplay child process; tests use the Mock.
package engine

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/media"
)

const eventBufferSize = 1

// FFPlay plays clips through an ffplay child process. Pause and resume are
// implemented with SIGSTOP/SIGCONT since ffplay exposes no control socket;
// the position is tracked against the wall clock for the same reason.
type FFPlay struct {
	binary string
	log    zerolog.Logger

	mu       sync.Mutex
	state    State
	clip     *media.Clip
	cmd      *exec.Cmd
	readyCh  chan error
	faultCh  chan error
	playedAt time.Time
	accrued  time.Duration
	stopping bool
}

// New creates an ffplay-backed engine. An empty binary resolves "ffplay"
// from PATH.
func New(binary string, log zerolog.Logger) *FFPlay {
	if binary == "" {
		binary = "ffplay"
	}
	return &FFPlay{binary: binary, log: log}
}

// Load opens clip and starts the readiness handshake. Any prior clip is
// stopped first. The handshake verifies the player binary and the clip
// file off the calling goroutine and reports on ReadyChan.
func (e *FFPlay) Load(clip *media.Clip) error {
	if clip == nil {
		return fmt.Errorf("engine load: nil clip")
	}

	e.Stop()

	e.mu.Lock()
	e.clip = clip
	e.state = Loaded
	e.stopping = false
	e.accrued = 0
	e.readyCh = make(chan error, eventBufferSize)
	e.faultCh = make(chan error, eventBufferSize)
	readyCh := e.readyCh
	e.mu.Unlock()

	go func() {
		readyCh <- e.handshake(clip)
	}()
	return nil
}

func (e *FFPlay) handshake(clip *media.Clip) error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("player binary unavailable: %w", err)
	}
	f, err := os.Open(clip.Path)
	if err != nil {
		return fmt.Errorf("open clip: %w", err)
	}
	f.Close()
	e.log.Debug().Str("path", clip.Path).Msg("engine ready")
	return nil
}

// Play spawns the ffplay process for the loaded clip.
func (e *FFPlay) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Playing:
		return nil
	case Paused:
		e.resumeLocked()
		return nil
	case Idle:
		return fmt.Errorf("engine play: no clip loaded")
	}

	cmd := exec.Command(e.binary,
		"-loglevel", "error",
		"-autoexit",
		"-window_title", e.clip.Title(),
		"--", e.clip.Path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("engine play: %w", err)
	}

	e.cmd = cmd
	e.state = Playing
	e.playedAt = time.Now()
	faultCh := e.faultCh

	go func() {
		err := cmd.Wait()
		e.mu.Lock()
		stopping := e.stopping
		if e.cmd == cmd {
			e.cmd = nil
			if e.state == Playing || e.state == Paused {
				e.state = Loaded
			}
		}
		e.mu.Unlock()
		if stopping || err == nil {
			return
		}
		select {
		case faultCh <- fmt.Errorf("playback fault: %w", err):
		default:
		}
	}()
	return nil
}

// Pause freezes the child process.
func (e *FFPlay) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Playing || e.cmd == nil {
		return
	}
	_ = e.cmd.Process.Signal(syscall.SIGSTOP)
	e.accrued += time.Since(e.playedAt)
	e.state = Paused
}

// Resume thaws a paused child process.
func (e *FFPlay) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused {
		return
	}
	e.resumeLocked()
}

func (e *FFPlay) resumeLocked() {
	if e.cmd != nil {
		_ = e.cmd.Process.Signal(syscall.SIGCONT)
	}
	e.playedAt = time.Now()
	e.state = Playing
}

// Toggle cycles Playing ↔ Paused.
func (e *FFPlay) Toggle() {
	switch e.State() {
	case Playing:
		e.Pause()
	case Paused:
		e.Resume()
	}
}

// Stop kills any child process and releases the clip. Idempotent.
func (e *FFPlay) Stop() {
	e.mu.Lock()
	if e.state == Idle {
		e.mu.Unlock()
		return
	}
	e.stopping = true
	cmd := e.cmd
	e.cmd = nil
	e.clip = nil
	e.state = Idle
	e.accrued = 0
	e.mu.Unlock()

	if cmd != nil {
		// SIGCONT first so a paused process can observe the kill.
		_ = cmd.Process.Signal(syscall.SIGCONT)
		_ = cmd.Process.Kill()
	}
}

// State returns the current engine state.
func (e *FFPlay) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Clip returns the loaded clip, or nil.
func (e *FFPlay) Clip() *media.Clip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clip
}

// Position returns the elapsed playback time, clamped to the clip duration.
func (e *FFPlay) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos := e.accrued
	if e.state == Playing {
		pos += time.Since(e.playedAt)
	}
	if e.clip != nil && pos > e.clip.Duration {
		pos = e.clip.Duration
	}
	return pos
}

// Duration returns the loaded clip's duration, or 0.
func (e *FFPlay) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.clip == nil {
		return 0
	}
	return e.clip.Duration
}

// ReadyChan returns the one-shot readiness channel for the loaded clip.
func (e *FFPlay) ReadyChan() <-chan error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readyCh
}

// FaultChan returns the playback fault channel for the loaded clip.
func (e *FFPlay) FaultChan() <-chan error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.faultCh
}
