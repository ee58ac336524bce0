package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mlefeuvre/tonearm/internal/player"
)

var (
	trackA = Track{ID: "a", DisplayName: "a.mp3", SourceURI: "/media/a.mp3"}
	trackB = Track{ID: "b", DisplayName: "b.mp3", SourceURI: "/media/b.mp3"}
)

func TestPlay_StartsPlaying(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	if err := s.Play(trackA); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	st := s.Status()
	if st.Phase != PhasePlaying {
		t.Errorf("Phase = %v, want Playing", st.Phase)
	}
	if st.Track == nil || st.Track.ID != "a" {
		t.Errorf("Track = %+v, want track a", st.Track)
	}
	if got := eng.OpenCalls(); len(got) != 1 || got[0] != trackA.SourceURI {
		t.Errorf("OpenCalls = %v, want [%s]", got, trackA.SourceURI)
	}
}

func TestPlay_SupersedesPrevious(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	if err := s.Play(trackA); err != nil {
		t.Fatalf("Play(A) error = %v", err)
	}
	if err := s.Play(trackB); err != nil {
		t.Fatalf("Play(B) error = %v", err)
	}

	handles := eng.Handles()
	if len(handles) != 2 {
		t.Fatalf("handles = %d, want 2", len(handles))
	}
	if !handles[0].Stopped() {
		t.Error("first handle still live after supersede")
	}
	if eng.LiveCount() != 1 {
		t.Errorf("LiveCount = %d, want 1", eng.LiveCount())
	}

	st := s.Status()
	if st.Phase != PhasePlaying || st.Track.ID != "b" {
		t.Errorf("status = %v/%v, want Playing/b", st.Phase, st.Track)
	}
}

func TestPlay_SameTrackRestarts(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	require.NoError(t, s.Play(trackA))

	handles := eng.Handles()
	require.Len(t, handles, 2, "replay must acquire a fresh handle")
	require.True(t, handles[0].Stopped())
	require.False(t, handles[1].Stopped())
}

func TestPlay_DuringSlowLoadIsAppliedInOrder(t *testing.T) {
	eng := player.NewMockEngine()
	eng.SetOpenHook(func(string) { time.Sleep(20 * time.Millisecond) })
	s := New(eng)
	defer s.Close()

	done := make(chan error, 1)
	go func() { done <- s.Play(trackA) }()

	// Wait for A's load to be in flight, then issue B.
	require.Eventually(t, func() bool {
		return len(eng.OpenCalls()) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Play(trackB))
	require.NoError(t, <-done)

	st := s.Status()
	require.Equal(t, PhasePlaying, st.Phase)
	require.Equal(t, "b", st.Track.ID)
	require.Equal(t, 1, eng.LiveCount(), "at most one handle live at completion")
}

func TestPlayPlayStop_EndsIdleWithNoLiveHandles(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	require.NoError(t, s.Play(trackB))
	s.Stop()

	st := s.Status()
	require.Equal(t, PhaseIdle, st.Phase)
	require.Nil(t, st.Track)
	require.Zero(t, st.Position)
	require.Zero(t, st.Duration)
	require.Equal(t, 0, eng.LiveCount())
}

func TestPause_WhileIdleIsNoop(t *testing.T) {
	s := New(player.NewMockEngine())
	defer s.Close()

	s.Pause()

	if got := s.Phase(); got != PhaseIdle {
		t.Errorf("Phase = %v, want Idle", got)
	}
}

func TestResume_WhileIdleIsNoop(t *testing.T) {
	s := New(player.NewMockEngine())
	defer s.Close()

	s.Resume()

	if got := s.Phase(); got != PhaseIdle {
		t.Errorf("Phase = %v, want Idle", got)
	}
}

func TestStop_WhileIdleIsNoop(t *testing.T) {
	s := New(player.NewMockEngine())
	defer s.Close()

	sub := s.Subscribe()
	s.Stop()

	select {
	case e := <-sub.PhaseChanged:
		t.Errorf("unexpected phase event %+v", e)
	default:
	}
}

func TestPauseResume_Cycle(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	h := eng.Handles()[0]

	s.Pause()
	require.Equal(t, PhasePaused, s.Phase())
	require.True(t, h.Paused())

	// Pause while already paused stays paused.
	s.Pause()
	require.Equal(t, PhasePaused, s.Phase())

	s.Resume()
	require.Equal(t, PhasePlaying, s.Phase())
	require.False(t, h.Paused())

	// Resume while already playing is a no-op.
	s.Resume()
	require.Equal(t, PhasePlaying, s.Phase())
}

func TestNaturalCompletion_ReturnsToIdle(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	h := eng.Handles()[0]

	h.EmitFinished()

	require.Eventually(t, func() bool {
		return s.Phase() == PhaseIdle
	}, time.Second, time.Millisecond)
	require.True(t, h.Stopped(), "finished handle must be released")
	require.Equal(t, 0, eng.LiveCount())
}

func TestProgress_UpdatesPosition(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	h := eng.Handles()[0]

	h.EmitTick(42*time.Second, 3*time.Minute)

	require.Eventually(t, func() bool {
		return s.Status().Position == 42*time.Second
	}, time.Second, time.Millisecond)
	require.Equal(t, 3*time.Minute, s.Status().Duration)
	require.Equal(t, PhasePlaying, s.Phase())
}

func TestStatus_TrackCopyDoesNotAliasSessionState(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))

	st := s.Status()
	require.NotNil(t, st.Track)
	st.Track.DisplayName = "scribbled"
	st.Track.SourceURI = "/tmp/elsewhere.mp3"

	got := s.Status()
	require.Equal(t, trackA.DisplayName, got.Track.DisplayName)
	require.Equal(t, trackA.SourceURI, got.Track.SourceURI)
	require.NotSame(t, st.Track, got.Track)
}

func TestStaleEvents_AreDropped(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	s.mu.Lock()
	staleGen := s.gen
	s.mu.Unlock()

	require.NoError(t, s.Play(trackB))

	// A tick from the superseded handle must not touch current state.
	s.applyEvent(staleGen, player.Event{Position: 99 * time.Second, Duration: time.Hour})
	st := s.Status()
	require.Zero(t, st.Position)
	require.Equal(t, "b", st.Track.ID)

	// Neither must its eventual completion.
	s.applyEvent(staleGen, player.Event{Finished: true})
	require.Equal(t, PhasePlaying, s.Phase())
}

func TestPlay_LoadFailureEntersFaulted(t *testing.T) {
	eng := player.NewMockEngine()
	boom := errors.New("codec rejected stream")
	eng.SetOpenError(boom)
	s := New(eng)
	defer s.Close()

	sub := s.Subscribe()

	err := s.Play(trackA)
	require.ErrorIs(t, err, boom)

	st := s.Status()
	require.Equal(t, PhaseFaulted, st.Phase)
	require.Equal(t, "a", st.Track.ID)
	require.ErrorIs(t, st.Err, boom)
	require.Equal(t, 0, eng.LiveCount())

	select {
	case e := <-sub.Errors:
		require.Equal(t, "play", e.Op)
		require.ErrorIs(t, e.Err, boom)
	case <-time.After(time.Second):
		t.Fatal("no error event delivered")
	}

	// Explicit retry recovers.
	eng.SetOpenError(nil)
	require.NoError(t, s.Play(trackA))
	require.Equal(t, PhasePlaying, s.Phase())
}

func TestSubscription_PhaseSequenceOnPlay(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)
	defer s.Close()

	sub := s.Subscribe()
	require.NoError(t, s.Play(trackA))

	first := <-sub.PhaseChanged
	require.Equal(t, PhaseIdle, first.Previous)
	require.Equal(t, PhaseLoading, first.Current)

	second := <-sub.PhaseChanged
	require.Equal(t, PhaseLoading, second.Previous)
	require.Equal(t, PhasePlaying, second.Current)
	require.Equal(t, "a", second.Track.ID)
}

func TestWithAutoplayOff_LoadsPaused(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng, WithAutoplay(false))
	defer s.Close()

	require.NoError(t, s.Play(trackA))
	require.Equal(t, PhasePaused, s.Phase())
	require.True(t, eng.Handles()[0].Paused())
}

func TestClose_RejectsCommandsAndReleasesHandle(t *testing.T) {
	eng := player.NewMockEngine()
	s := New(eng)

	require.NoError(t, s.Play(trackA))
	sub := s.Subscribe()

	require.NoError(t, s.Close())
	require.Equal(t, 0, eng.LiveCount())

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}

	require.ErrorIs(t, s.Play(trackB), ErrClosed)
	require.NoError(t, s.Close(), "Close is idempotent")
}
