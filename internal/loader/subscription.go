package loader

const eventBufferSize = 16

// StateChange is emitted on every loader state transition. Err is set when
// Current is StateFailed.
type StateChange struct {
	Previous State
	Current  State
	Err      error
}

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged <-chan StateChange
	Done         <-chan struct{}

	stateCh chan StateChange
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh: make(chan StateChange, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}
