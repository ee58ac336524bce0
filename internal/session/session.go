// Package session enforces single-voice playback: at most one decoded
// audio handle is live at any time, owned exclusively by the Session and
// replaced through an unconditional stop-then-start supersede protocol.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mlefeuvre/tonearm/internal/logging"
	"github.com/mlefeuvre/tonearm/internal/player"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("session closed")

// Session is the single-voice playback controller.
//
// All commands and handle events are serialized by one mutex: each
// operation runs to completion before the next applies, so a Play issued
// after another Play always sees the first track fully torn down. Events
// from a superseded handle are identified by the generation they were
// created under and dropped.
type Session struct {
	mu       sync.Mutex
	engine   player.Engine
	autoplay bool

	gen    uint64
	handle player.Handle
	status Status

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithAutoplay controls whether Play starts audible immediately.
// Default is true.
func WithAutoplay(on bool) Option {
	return func(s *Session) { s.autoplay = on }
}

// New creates a session in PhaseIdle.
func New(engine player.Engine, opts ...Option) *Session {
	s := &Session{
		engine:   engine,
		autoplay: true,
		status:   Status{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Play starts t from the beginning, unconditionally tearing down any
// currently loaded handle first, even when t is the track already
// loaded. On load failure the session enters PhaseFaulted and the error
// is returned.
func (s *Session) Play(t Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.teardownLocked()
	s.gen++
	gen := s.gen

	s.transitionLocked(Status{Phase: PhaseLoading, Track: &t})

	h, err := s.engine.Open(t.SourceURI, s.autoplay)
	if err != nil {
		err = fmt.Errorf("load %s: %w", t.SourceURI, err)
		s.transitionLocked(Status{Phase: PhaseFaulted, Track: &t, Err: err})
		s.broadcastError(ErrorEvent{Op: "play", URI: t.SourceURI, Err: err})
		logging.L().Warn("track load failed",
			zap.String("uri", t.SourceURI),
			zap.Error(err))
		return err
	}

	s.handle = h
	phase := PhasePlaying
	if !s.autoplay {
		phase = PhasePaused
	}
	s.transitionLocked(Status{
		Phase:    phase,
		Track:    &t,
		Duration: h.Duration(),
	})

	go s.consumeEvents(gen, h)
	return nil
}

// Pause moves Playing to Paused. Any other phase is a silent no-op.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Phase != PhasePlaying || s.handle == nil {
		return
	}
	s.handle.Pause()
	st := s.status
	st.Phase = PhasePaused
	s.transitionLocked(st)
}

// Resume moves Paused to Playing. Any other phase is a silent no-op.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Phase != PhasePaused || s.handle == nil {
		return
	}
	s.handle.Resume()
	st := s.status
	st.Phase = PhasePlaying
	s.transitionLocked(st)
}

// Stop releases the handle unconditionally and returns to PhaseIdle,
// clearing position and duration. No-op while already Idle.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Phase == PhaseIdle {
		return
	}
	s.teardownLocked()
	s.gen++
	s.transitionLocked(Status{Phase: PhaseIdle})
}

// teardownLocked releases the current handle if any. The generation is
// bumped by the caller so in-flight events from the old handle miss.
func (s *Session) teardownLocked() {
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
}

// consumeEvents forwards handle events into the session until the handle
// dies. gen pins the events to the handle instance they originated from.
func (s *Session) consumeEvents(gen uint64, h player.Handle) {
	for ev := range h.Events() {
		s.applyEvent(gen, ev)
	}
}

// applyEvent applies one handle event, dropping it when the handle has
// been superseded since the event was produced.
func (s *Session) applyEvent(gen uint64, ev player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.handle == nil {
		return // stale instance
	}

	if ev.Finished {
		// Natural end of track: identical cleanup to Stop.
		s.teardownLocked()
		s.gen++
		s.transitionLocked(Status{Phase: PhaseIdle})
		return
	}

	s.status.Position = ev.Position
	if ev.Duration > 0 {
		s.status.Duration = ev.Duration
	}
	s.broadcastProgress(Progress{Position: s.status.Position, Duration: s.status.Duration})
}

// Status returns the current derived snapshot. The track is copied so
// callers cannot reach back into session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	if st.Track != nil {
		track := *st.Track
		st.Track = &track
	}
	return st
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.Phase
}

// IsPlaying returns true while audio is audibly playing.
func (s *Session) IsPlaying() bool {
	return s.Phase() == PhasePlaying
}

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback and shuts down all subscriptions.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.teardownLocked()
	s.gen++
	s.status = Status{Phase: PhaseIdle}
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}

// transitionLocked replaces the status and notifies subscribers when the
// phase or track changed.
func (s *Session) transitionLocked(next Status) {
	prev := s.status
	s.status = next
	if prev.Phase != next.Phase || !sameTrack(prev.Track, next.Track) {
		s.broadcastPhase(PhaseChange{Previous: prev.Phase, Current: next.Phase, Track: next.Track})
	}
}

func sameTrack(a, b *Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.SourceURI == b.SourceURI
}

func (s *Session) broadcastPhase(e PhaseChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPhase(e)
	}
}

func (s *Session) broadcastProgress(e Progress) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendProgress(e)
	}
}

func (s *Session) broadcastError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
