package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/mlefeuvre/tonearm/internal/tags"
)

// How often a live handle reports its position.
const tickInterval = 200 * time.Millisecond

// BeepEngine implements Engine on the beep speaker.
//
// The speaker is initialized once, with the sample rate of the first
// decoded file; later files at other rates play slightly resampled by
// the OS mixer rather than re-initializing the device.
type BeepEngine struct {
	mu   sync.Mutex
	init bool
}

// Verify BeepEngine implements Engine at compile time.
var _ Engine = (*BeepEngine)(nil)

// NewEngine creates a beep-backed engine. The audio device is not
// touched until the first Open.
func NewEngine() *BeepEngine {
	return &BeepEngine{}
}

func (e *BeepEngine) Open(uri string, autoplay bool) (Handle, error) {
	ext := strings.ToLower(filepath.Ext(uri))
	if !tags.IsSupportedExt(ext) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(uri)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case tags.ExtMP3:
		streamer, format, err = mp3.Decode(f)
	case tags.ExtFLAC:
		streamer, format, err = flac.Decode(f)
	case tags.ExtOGG:
		streamer, format, err = vorbis.Decode(f)
	case tags.ExtWAV:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(uri), err)
	}

	e.mu.Lock()
	if !e.init {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			e.mu.Unlock()
			streamer.Close()
			f.Close()
			return nil, fmt.Errorf("init speaker: %w", err)
		}
		e.init = true
	}
	e.mu.Unlock()

	h := &beepHandle{
		streamer: streamer,
		format:   format,
		file:     f,
		duration: format.SampleRate.D(streamer.Len()),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
	h.ctrl = &beep.Ctrl{Streamer: streamer, Paused: !autoplay}

	speaker.Play(beep.Seq(h.ctrl, beep.Callback(h.finish)))
	go h.tickLoop()

	return h, nil
}

// beepHandle synchronizes on the speaker mutex plus two atomic flags and
// nothing else. finish runs on the speaker goroutine with the speaker
// mutex already held, so it must never acquire a lock of any kind; every
// other method takes the speaker lock alone, which keeps a single lock
// order across the handle.
type beepHandle struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	file     *os.File
	ctrl     *beep.Ctrl
	duration time.Duration

	events   chan Event
	done     chan struct{}
	doneOnce sync.Once

	stopped  atomic.Bool
	finished atomic.Bool
}

var _ Handle = (*beepHandle)(nil)

// finish runs on the speaker goroutine, under the speaker mutex, when
// the stream drains naturally. Lock-free by necessity: anything that
// blocks here wedges audio output for the whole process.
func (h *beepHandle) finish() {
	if h.stopped.Load() {
		return
	}
	if h.finished.CompareAndSwap(false, true) {
		h.signalDone()
	}
}

func (h *beepHandle) signalDone() {
	h.doneOnce.Do(func() { close(h.done) })
}

// tickLoop emits position updates until the handle dies, then closes the
// event channel. It is the only closer of events. On natural finish the
// final Finished event is sent blocking: the consumer reads events until
// the channel closes, so delivery is guaranteed rather than best-effort.
func (h *beepHandle) tickLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	defer close(h.events)

	for {
		select {
		case <-h.done:
			if h.finished.Load() && !h.stopped.Load() {
				h.events <- Event{Position: h.duration, Duration: h.duration, Finished: true}
			}
			return
		case <-ticker.C:
			pos, ok := h.position()
			if !ok {
				continue
			}
			select {
			case h.events <- Event{Position: pos, Duration: h.duration}:
			default:
			}
		}
	}
}

// position reads the decoder position under the speaker lock, the same
// lock the speaker goroutine holds while calling Stream on the decoder.
// Returns false once the handle is dead and the decoder may be closed.
func (h *beepHandle) position() (time.Duration, bool) {
	speaker.Lock()
	defer speaker.Unlock()
	if h.stopped.Load() || h.finished.Load() {
		return 0, false
	}
	return h.format.SampleRate.D(h.streamer.Position()), true
}

func (h *beepHandle) Pause() {
	if h.stopped.Load() || h.finished.Load() {
		return
	}
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
}

func (h *beepHandle) Resume() {
	if h.stopped.Load() || h.finished.Load() {
		return
	}
	speaker.Lock()
	h.ctrl.Paused = false
	speaker.Unlock()
}

func (h *beepHandle) Stop() {
	if !h.stopped.CompareAndSwap(false, true) {
		return
	}

	if !h.finished.Load() {
		speaker.Clear()
	}

	// Close the decoder under the speaker lock so neither the sample
	// loop nor a position read can touch it mid-close.
	speaker.Lock()
	h.streamer.Close()
	speaker.Unlock()

	if h.file != nil {
		h.file.Close()
	}
	h.signalDone()
}

func (h *beepHandle) Position() time.Duration {
	pos, ok := h.position()
	if !ok {
		return 0
	}
	return pos
}

func (h *beepHandle) Duration() time.Duration {
	return h.duration
}

func (h *beepHandle) Events() <-chan Event {
	return h.events
}
