package session

import "time"

// Phase represents the playback session state machine.
//
// Valid transitions:
//   - any     → Loading (via Play; current handle torn down first)
//   - Loading → Playing (handle acquired, autoplay)
//   - Loading → Paused  (handle acquired, autoplay off)
//   - Loading → Faulted (handle acquisition failed)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Resume)
//   - any non-Idle → Idle (via Stop or natural end of track)
//
// Invalid transitions (Pause while Idle, Resume while Playing, ...) are
// silent no-ops: transient UI races are expected and tolerable.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePlaying
	PhasePaused
	PhaseFaulted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	case PhaseFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// IsActive returns true if the session holds a live audio handle.
func (p Phase) IsActive() bool {
	return p == PhaseLoading || p == PhasePlaying || p == PhasePaused
}

// Track identifies a playable resource to the session. This is a copy of
// the caller's data, not a reference into the playlist store.
type Track struct {
	ID          string
	DisplayName string
	SourceURI   string
}

// Status is the derived read snapshot of the session. Err is set only in
// PhaseFaulted.
type Status struct {
	Phase    Phase
	Track    *Track
	Position time.Duration
	Duration time.Duration
	Err      error
}
