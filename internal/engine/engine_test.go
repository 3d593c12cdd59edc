package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/media"
)

func testClip(t *testing.T) *media.Clip {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &media.Clip{Path: path, Duration: 5 * time.Second}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "Idle"},
		{Loaded, "Loaded"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	if Idle.IsActive() || Loaded.IsActive() {
		t.Error("Idle/Loaded should not be active")
	}
	if !Playing.IsActive() || !Paused.IsActive() {
		t.Error("Playing/Paused should be active")
	}
}

func TestFFPlay_LoadNilClip(t *testing.T) {
	e := New("", zerolog.Nop())
	if err := e.Load(nil); err == nil {
		t.Error("Load(nil) err = nil")
	}
}

func TestFFPlay_PlayWithoutLoad(t *testing.T) {
	e := New("", zerolog.Nop())
	if err := e.Play(); err == nil {
		t.Error("Play() without Load should error")
	}
}

func TestFFPlay_HandshakeFailsForMissingBinary(t *testing.T) {
	e := New("/nonexistent/ffplay", zerolog.Nop())

	if err := e.Load(testClip(t)); err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if e.State() != Loaded {
		t.Errorf("State() = %v, want Loaded", e.State())
	}

	select {
	case err := <-e.ReadyChan():
		if err == nil {
			t.Error("readiness err = nil for missing binary")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for readiness outcome")
	}
}

func TestFFPlay_HandshakeFailsForMissingClip(t *testing.T) {
	e := New("/nonexistent/ffplay", zerolog.Nop())
	clip := testClip(t)
	if err := os.Remove(clip.Path); err != nil {
		t.Fatal(err)
	}

	if err := e.Load(clip); err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	select {
	case err := <-e.ReadyChan():
		if err == nil {
			t.Error("readiness err = nil for missing clip")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for readiness outcome")
	}
}

func TestFFPlay_StopIdempotentAndReleasesClip(t *testing.T) {
	e := New("/nonexistent/ffplay", zerolog.Nop())
	e.Stop()

	if err := e.Load(testClip(t)); err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if e.Clip() == nil {
		t.Fatal("Clip() = nil after Load")
	}

	e.Stop()
	e.Stop()

	if e.State() != Idle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
	if e.Clip() != nil {
		t.Error("Clip() != nil after Stop")
	}
	if e.Duration() != 0 {
		t.Errorf("Duration() = %v after Stop, want 0", e.Duration())
	}
}

func TestMock_ReadinessFlow(t *testing.T) {
	m := NewMock()
	clip := &media.Clip{Path: "/cases/a.mp4", Duration: time.Second}

	if err := m.Load(clip); err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	m.SimulateReady()

	select {
	case err := <-m.ReadyChan():
		if err != nil {
			t.Errorf("readiness err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no readiness signal")
	}

	if err := m.Play(); err != nil {
		t.Fatalf("Play() err = %v", err)
	}
	if m.State() != Playing {
		t.Errorf("State() = %v, want Playing", m.State())
	}
	m.Toggle()
	if m.State() != Paused {
		t.Errorf("State() = %v, want Paused", m.State())
	}

	m.SimulateFinished()
	if m.State() != Loaded {
		t.Errorf("State() = %v after finish, want Loaded", m.State())
	}
	select {
	case err := <-m.FaultChan():
		t.Errorf("unexpected fault after clean finish: %v", err)
	default:
	}
}
