// internal/probe/mock.go
package probe

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Prober.
type Mock struct {
	mu         sync.Mutex
	result     Result
	err        error
	delay      time.Duration
	probeCalls []string
}

// NewMock creates a new mock prober for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Probe(ctx context.Context, path string) (Result, error) {
	m.mu.Lock()
	m.probeCalls = append(m.probeCalls, path)
	result, err, delay := m.result, m.err, m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	return result, err
}

// Test helpers

func (m *Mock) SetResult(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = r
}

func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes Probe block for d (or until the context is cancelled)
// before returning. Used to exercise timeout races.
func (m *Mock) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

func (m *Mock) ProbeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.probeCalls...)
}

// Verify Mock implements Prober at compile time.
var _ Prober = (*Mock)(nil)
