package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/engine"
	"github.com/endoreels/reelplayer/internal/media"
)

func testClip() *media.Clip {
	return &media.Clip{
		Path:     "/cases/colonoscopy-0412.mp4",
		Duration: 5 * time.Second,
		Geometry: media.Geometry{Width: 1920, Height: 1080},
	}
}

func newOwner() (*Owner, *engine.Mock) {
	eng := engine.NewMock()
	return NewOwner(eng, zerolog.Nop()), eng
}

func wait(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func waitErr(t *testing.T, ch <-chan error, what string) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return nil
	}
}

func silent(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("unexpected %s", what)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOwner_ReadyInvokesCallbackOnce(t *testing.T) {
	o, eng := newOwner()
	readyCh := make(chan struct{}, 2)

	if err := o.Start(testClip(), false, func() { readyCh <- struct{}{} }, nil); err != nil {
		t.Fatalf("Start() err = %v", err)
	}
	eng.SimulateReady()

	wait(t, readyCh, "onReady")
	silent(t, readyCh, "second onReady")
	if eng.PlayCalls() != 0 {
		t.Errorf("PlayCalls() = %d without autoPlay, want 0", eng.PlayCalls())
	}
}

func TestOwner_AutoPlayStartsPlayback(t *testing.T) {
	o, eng := newOwner()
	readyCh := make(chan struct{}, 1)

	_ = o.Start(testClip(), true, func() { readyCh <- struct{}{} }, nil)
	eng.SimulateReady()

	wait(t, readyCh, "onReady")
	if eng.PlayCalls() != 1 {
		t.Errorf("PlayCalls() = %d, want 1", eng.PlayCalls())
	}
}

func TestOwner_ReadinessFailure(t *testing.T) {
	o, eng := newOwner()
	readyCh := make(chan struct{}, 1)
	failCh := make(chan error, 1)

	_ = o.Start(testClip(), false, func() { readyCh <- struct{}{} }, func(err error) { failCh <- err })
	cause := errors.New("decoder stall")
	eng.SimulateReadyError(cause)

	if err := waitErr(t, failCh, "onFailure"); !errors.Is(err, cause) {
		t.Errorf("onFailure err = %v, want %v", err, cause)
	}
	silent(t, readyCh, "onReady after failure")
	if o.Active() {
		t.Error("session still active after failure")
	}
	if eng.StopCalls() == 0 {
		t.Error("engine not stopped after failure")
	}
}

func TestOwner_PostReadinessFault(t *testing.T) {
	o, eng := newOwner()
	readyCh := make(chan struct{}, 1)
	failCh := make(chan error, 2)

	_ = o.Start(testClip(), true, func() { readyCh <- struct{}{} }, func(err error) { failCh <- err })
	eng.SimulateReady()
	wait(t, readyCh, "onReady")

	eng.SimulateFault(errors.New("mid-playback decode fault"))

	if err := waitErr(t, failCh, "onFailure"); err == nil {
		t.Error("onFailure err = nil")
	}
	if o.Active() {
		t.Error("session still active after fault")
	}
}

func TestOwner_PlayErrorBecomesFailure(t *testing.T) {
	o, eng := newOwner()
	readyCh := make(chan struct{}, 1)
	failCh := make(chan error, 1)
	eng.SetPlayError(errors.New("display unavailable"))

	_ = o.Start(testClip(), true, func() { readyCh <- struct{}{} }, func(err error) { failCh <- err })
	eng.SimulateReady()

	if err := waitErr(t, failCh, "onFailure"); err == nil {
		t.Error("onFailure err = nil")
	}
	silent(t, readyCh, "onReady after play error")
}

func TestOwner_StartSupersedesPriorSession(t *testing.T) {
	o, eng := newOwner()
	firstReady := make(chan struct{}, 1)
	firstFail := make(chan error, 1)
	secondReady := make(chan struct{}, 1)

	_ = o.Start(testClip(), false, func() { firstReady <- struct{}{} }, func(err error) { firstFail <- err })
	_ = o.Start(testClip(), false, func() { secondReady <- struct{}{} }, nil)

	eng.SimulateReady()

	wait(t, secondReady, "second session onReady")
	silent(t, firstReady, "superseded session onReady")
	select {
	case err := <-firstFail:
		t.Errorf("superseded session onFailure fired: %v", err)
	default:
	}
}

func TestOwner_SupersededReadyCannotDriveSuccessor(t *testing.T) {
	o, eng := newOwner()

	first := testClip()
	second := &media.Clip{
		Path:     "/cases/gastroscopy-0907.mp4",
		Duration: 5 * time.Second,
		Geometry: media.Geometry{Width: 1920, Height: 1080},
	}

	for i := 0; i < 100; i++ {
		if err := o.Start(first, true, nil, nil); err != nil {
			t.Fatalf("Start(first) err = %v", err)
		}
		// Readiness lands in the buffer; the watcher may not have
		// consumed it yet when the next session takes the slot.
		eng.SimulateReady()

		if err := o.Start(second, false, nil, nil); err != nil {
			t.Fatalf("Start(second) err = %v", err)
		}

		deadline := time.Now().Add(5 * time.Millisecond)
		for time.Now().Before(deadline) {
			if st := eng.State(); st == engine.Playing {
				t.Fatalf("iteration %d: engine Playing after supersession with autoPlay off", i)
			}
			time.Sleep(100 * time.Microsecond)
		}
		o.Stop()
	}
}

func TestOwner_StopIdempotent(t *testing.T) {
	o, eng := newOwner()
	o.Stop()
	o.Stop()

	readyCh := make(chan struct{}, 1)
	_ = o.Start(testClip(), false, func() { readyCh <- struct{}{} }, nil)
	o.Stop()
	o.Stop()

	eng.SimulateReady()
	silent(t, readyCh, "onReady after Stop")
	if o.Active() {
		t.Error("Active() = true after Stop")
	}
}

func TestOwner_SynchronousLoadError(t *testing.T) {
	o, eng := newOwner()
	eng.SetLoadError(errors.New("container vanished"))

	err := o.Start(testClip(), false, func() { t.Error("onReady fired") }, func(error) { t.Error("onFailure fired") })

	if err == nil {
		t.Fatal("Start() err = nil, want load error")
	}
	if o.Active() {
		t.Error("session active after failed Start")
	}
	time.Sleep(20 * time.Millisecond)
}

func TestOwner_NilClip(t *testing.T) {
	o, _ := newOwner()
	if err := o.Start(nil, false, nil, nil); err == nil {
		t.Error("Start(nil) err = nil")
	}
}
