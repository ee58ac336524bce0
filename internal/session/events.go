package session

import "time"

// PhaseChange is emitted when the session moves between phases or starts
// a different track. Progress ticks do not emit PhaseChange.
type PhaseChange struct {
	Previous Phase
	Current  Phase
	Track    *Track
}

// Progress is emitted on position updates while a handle is live.
type Progress struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted when an operation fails.
type ErrorEvent struct {
	Op  string // e.g. "play"
	URI string
	Err error
}
