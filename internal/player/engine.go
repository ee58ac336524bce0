// Package player wraps the beep audio stack behind a narrow engine
// interface: open a URI, get back a handle that exclusively owns the
// decoded stream until it is stopped.
package player

import "time"

// Engine opens audio resources. Implementations must allow at most the
// caller-imposed discipline of one live handle; the session layer is
// responsible for stopping the previous handle before opening the next.
type Engine interface {
	// Open decodes the resource at uri and starts it paused or playing
	// depending on autoplay. The returned handle owns the decoded stream.
	Open(uri string, autoplay bool) (Handle, error)
}

// Handle is one decoded, ready-to-play audio resource.
//
// Stop halts playback and releases the stream and its backing file; it is
// idempotent and doubles as release. After Stop, the Events channel is
// closed and the handle is dead.
type Handle interface {
	Pause()
	Resume()
	Stop()
	Position() time.Duration
	Duration() time.Duration
	// Events delivers position ticks while the stream is live and a final
	// Finished event when the stream reaches its natural end. The channel
	// is closed once the handle is stopped or finished.
	Events() <-chan Event
}

// Event is a status update originating from one handle.
type Event struct {
	Position time.Duration
	Duration time.Duration
	Finished bool
}
