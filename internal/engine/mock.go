// internal/engine/mock.go
package engine

import (
	"sync"
	"time"

	"github.com/endoreels/reelplayer/internal/media"
)

// Mock is a test double for the playback engine. Readiness and faults are
// driven explicitly through the Simulate* helpers.
type Mock struct {
	mu        sync.Mutex
	state     State
	clip      *media.Clip
	position  time.Duration
	readyCh   chan error
	faultCh   chan error
	loadErr   error
	playErr   error
	loadCalls []string
	playCalls int
	stopCalls int
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Load(clip *media.Clip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, clip.Path)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.clip = clip
	m.state = Loaded
	m.readyCh = make(chan error, 1)
	m.faultCh = make(chan error, 1)
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.state == Loaded || m.state == Paused {
		m.state = Playing
	}
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Toggle() {
	switch m.State() {
	case Playing:
		m.Pause()
	case Paused:
		m.Resume()
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = Idle
	m.clip = nil
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Clip() *media.Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clip
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clip == nil {
		return 0
	}
	return m.clip.Duration
}

func (m *Mock) ReadyChan() <-chan error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyCh
}

func (m *Mock) FaultChan() <-chan error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faultCh
}

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// SimulateReady resolves the readiness handshake successfully.
func (m *Mock) SimulateReady() {
	m.send(m.readyChan(), nil)
}

// SimulateReadyError resolves the readiness handshake with a failure.
func (m *Mock) SimulateReadyError(err error) {
	m.send(m.readyChan(), err)
}

// SimulateFinished models a clip playing to its natural end: the process
// exits cleanly and the engine drops back to Loaded without a fault.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing || m.state == Paused {
		m.state = Loaded
	}
}

// SimulateFault emits a post-readiness playback fault.
func (m *Mock) SimulateFault(err error) {
	m.mu.Lock()
	ch := m.faultCh
	m.mu.Unlock()
	m.send(ch, err)
}

func (m *Mock) readyChan() chan error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyCh
}

func (m *Mock) send(ch chan error, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
