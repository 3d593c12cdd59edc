// internal/loader/state.go
package loader

// State is the externally visible readiness state.
//
// Transitions per Prepare attempt are monotonic:
//
//	┌──────┐  Prepare   ┌─────────┐  validated+ready  ┌───────┐
//	│ Idle │ ──────────▶│ Loading │ ─────────────────▶│ Ready │
//	└──────┘            └─────────┘                   └───────┘
//	    ▲                    │
//	    │ Teardown           │ timeout / validation / session failure
//	    │                    ▼
//	    │               ┌────────┐
//	    └───────────────│ Failed │
//	                    └────────┘
//
// Ready and Failed are terminal for one attempt; the loader itself is
// reusable and a fresh Prepare always re-enters Loading.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the state ends a Prepare attempt.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}
