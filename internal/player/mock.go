package player

import (
	"sync"
	"time"
)

// MockEngine is a test double for Engine. It records every Open and keeps
// the handles it returned so tests can drive and inspect them.
type MockEngine struct {
	mu        sync.Mutex
	openErr   error
	openHook  func(uri string)
	openCalls []string
	handles   []*MockHandle
}

// NewMockEngine creates a new mock engine for testing.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (e *MockEngine) Open(uri string, autoplay bool) (Handle, error) {
	e.mu.Lock()
	e.openCalls = append(e.openCalls, uri)
	hook := e.openHook
	err := e.openErr
	e.mu.Unlock()

	if hook != nil {
		hook(uri)
	}
	if err != nil {
		return nil, err
	}

	h := &MockHandle{
		uri:      uri,
		paused:   !autoplay,
		events:   make(chan Event, 16),
		duration: 3 * time.Minute,
	}

	e.mu.Lock()
	e.handles = append(e.handles, h)
	e.mu.Unlock()
	return h, nil
}

// Test helpers

func (e *MockEngine) SetOpenError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openErr = err
}

// SetOpenHook installs fn to run inside each Open call, e.g. to simulate
// a slow decoder.
func (e *MockEngine) SetOpenHook(fn func(uri string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openHook = fn
}

func (e *MockEngine) OpenCalls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.openCalls...)
}

// Handles returns every handle this engine has created, in open order.
func (e *MockEngine) Handles() []*MockHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*MockHandle(nil), e.handles...)
}

// LiveCount returns how many created handles have not been stopped.
func (e *MockEngine) LiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, h := range e.handles {
		if !h.Stopped() {
			n++
		}
	}
	return n
}

// Verify MockEngine implements Engine at compile time.
var _ Engine = (*MockEngine)(nil)

// MockHandle is the handle returned by MockEngine.
type MockHandle struct {
	mu       sync.Mutex
	uri      string
	paused   bool
	stopped  bool
	position time.Duration
	duration time.Duration
	events   chan Event
	evOnce   sync.Once
}

func (h *MockHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.paused = true
	}
}

func (h *MockHandle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.paused = false
	}
}

func (h *MockHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	h.evOnce.Do(func() { close(h.events) })
}

func (h *MockHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

func (h *MockHandle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration
}

func (h *MockHandle) Events() <-chan Event {
	return h.events
}

// Test helpers

func (h *MockHandle) URI() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.uri
}

func (h *MockHandle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

func (h *MockHandle) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

func (h *MockHandle) SetDuration(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.duration = d
}

// EmitTick injects a position update, as the decoder would.
// It is a no-op once the handle is stopped.
func (h *MockHandle) EmitTick(pos, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.position = pos
	select {
	case h.events <- Event{Position: pos, Duration: dur}:
	default:
	}
}

// EmitFinished simulates the stream reaching its natural end.
// It is a no-op once the handle is stopped.
func (h *MockHandle) EmitFinished() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	select {
	case h.events <- Event{Position: h.duration, Duration: h.duration, Finished: true}:
	default:
	}
}

// Verify MockHandle implements Handle at compile time.
var _ Handle = (*MockHandle)(nil)
