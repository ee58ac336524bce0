package store

const snapshotBufferSize = 4

// Subscription delivers playlist snapshots after each mutation.
type Subscription struct {
	Changed <-chan []Track
	Done    <-chan struct{}

	changedCh chan []Track
	doneCh    chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		changedCh: make(chan []Track, snapshotBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.Changed = s.changedCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers a snapshot (non-blocking). A slow subscriber misses
// intermediate snapshots, never blocks the store.
func (s *Subscription) send(tracks []Track) {
	select {
	case s.changedCh <- tracks:
	default:
	}
}
