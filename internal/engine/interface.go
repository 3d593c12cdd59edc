// internal/engine/interface.go
package engine

import (
	"time"

	"github.com/endoreels/reelplayer/internal/media"
)

// Interface defines the playback engine contract for dependency injection
// and testing.
//
// Load opens a validated clip and begins the readiness handshake; its
// outcome arrives exactly once on ReadyChan (nil means the engine can begin
// producing frames). FaultChan carries failures that occur after readiness,
// during playback. Both channels are replaced on every Load, so a consumer
// subscribes to them once per loaded clip.
type Interface interface {
	Load(clip *media.Clip) error
	Play() error
	Pause()
	Resume()
	Toggle()
	Stop()
	State() State
	Clip() *media.Clip
	Position() time.Duration
	Duration() time.Duration
	ReadyChan() <-chan error
	FaultChan() <-chan error
}

// Verify FFPlay implements Interface at compile time.
var _ Interface = (*FFPlay)(nil)
