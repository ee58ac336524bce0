package session

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	PhaseChanged <-chan PhaseChange
	Progressed   <-chan Progress
	Errors       <-chan ErrorEvent
	Done         <-chan struct{}

	// Internal write channels
	phaseCh    chan PhaseChange
	progressCh chan Progress
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		phaseCh:    make(chan PhaseChange, eventBufferSize),
		progressCh: make(chan Progress, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.PhaseChanged = s.phaseCh
	s.Progressed = s.progressCh
	s.Errors = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendPhase sends a phase change event (non-blocking).
func (s *Subscription) sendPhase(e PhaseChange) {
	select {
	case s.phaseCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendProgress sends a progress event (non-blocking).
func (s *Subscription) sendProgress(e Progress) {
	select {
	case s.progressCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
