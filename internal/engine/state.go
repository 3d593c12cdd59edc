// internal/engine/state.go
package engine

// State represents the engine playback state machine.
//
// Valid transitions:
//   - Idle    → Loaded  (via Load)
//   - Loaded  → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Resume)
//   - any     → Idle    (via Stop)
//
// Toggle() cycles Playing ↔ Paused and is a no-op otherwise.
type State int

const (
	Idle State = iota
	Loaded
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loaded:
		return "Loaded"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a clip is loaded and playback is underway.
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
