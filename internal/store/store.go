// Package store maintains the durable, deduplicated, ordered playlist.
//
// Every successful mutation rewrites the full snapshot in durable
// storage; Load reconciles the snapshot against the files actually
// present and drops entries whose backing resource is gone.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlefeuvre/tonearm/internal/kv"
	"github.com/mlefeuvre/tonearm/internal/logging"
	"github.com/mlefeuvre/tonearm/internal/tags"
)

// snapshotKey is the single durable-storage key holding the playlist.
const snapshotKey = "playlist"

// Store owns the playlist. All operations are serialized by its mutex;
// callers only ever hold read snapshots.
type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	mediaDir string
	tracks   []Track
	loading  bool

	subs   []*Subscription
	subsMu sync.RWMutex
}

// New creates a store persisting to kvs and managing files under
// mediaDir. Call Load before mutating.
func New(kvs kv.Store, mediaDir string) *Store {
	return &Store{kv: kvs, mediaDir: mediaDir}
}

// MediaDir returns the managed media directory.
func (s *Store) MediaDir() string {
	return s.mediaDir
}

// Load reads the durable snapshot and reconciles it against the files on
// disk: entries whose backing resource is missing are dropped (logged,
// not surfaced). Read or parse failures soft-fail to an empty playlist.
// Persistence is suppressed while loading so a half-built in-memory list
// can never overwrite valid durable state; the reconciled snapshot is
// re-persisted once loading completes.
func (s *Store) Load() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	dropped := s.loadLocked()
	s.loading = false

	if dropped > 0 {
		if err := s.persistLocked(); err != nil {
			logging.L().Error("persist reconciled playlist", zap.Error(err))
		}
	}
	return s.snapshotLocked()
}

// loadLocked populates s.tracks from durable storage and returns how
// many entries were dropped during reconciliation.
func (s *Store) loadLocked() int {
	s.tracks = nil

	raw, err := s.kv.Get(snapshotKey)
	if err != nil {
		logging.L().Warn("playlist snapshot unreadable, starting empty", zap.Error(err))
		return 0
	}
	if len(raw) == 0 {
		return 0
	}

	var recs []trackRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		logging.L().Warn("playlist snapshot corrupt, starting empty", zap.Error(err))
		return 0
	}

	dropped := 0
	for _, r := range recs {
		if !fileExists(r.URI) {
			logging.L().Warn("dropping playlist entry, backing file missing",
				zap.String("name", r.Name),
				zap.String("uri", r.URI))
			dropped++
			continue
		}
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.tracks = append(s.tracks, Track{ID: id, DisplayName: r.Name, SourceURI: r.URI})
	}
	return dropped
}

// Add copies the picked resource to its stable destination under the
// media directory and appends a Track for it.
//
// A resource resolving to a destination already in the playlist returns
// the existing track and ErrAlreadyExists without mutating anything. If
// the snapshot write fails after a successful copy, the returned track
// is valid and in memory and the error wraps ErrSnapshotWrite.
func (s *Store) Add(res Resource) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := destinationName(res.Name)
	if name == "" {
		return Track{}, fmt.Errorf("%w: unusable resource name %q", ErrCopyFailed, res.Name)
	}
	dest := filepath.Join(s.mediaDir, name)

	for _, t := range s.tracks {
		if t.SourceURI == dest {
			return t, ErrAlreadyExists
		}
	}

	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return Track{}, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	if err := copyFile(res.TransientURI, dest); err != nil {
		// Don't leave a partial copy at the destination.
		_ = removeIdempotent(dest)
		return Track{}, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	display := res.Name
	if title := tags.Title(dest); title != "" {
		display = title
	}

	t := Track{ID: uuid.NewString(), DisplayName: display, SourceURI: dest}
	s.tracks = append(s.tracks, t)
	logging.L().Info("track added",
		zap.String("id", t.ID),
		zap.String("uri", t.SourceURI))

	err := s.persistLocked()
	s.notifyLocked()
	if err != nil {
		return t, fmt.Errorf("%w: %w", ErrSnapshotWrite, err)
	}
	return t, nil
}

// Remove deletes the track's backing resource and drops it from the
// playlist. Deleting is idempotent: an already-absent file is not an
// error. Removing an unknown id is a no-op. The playlist is not mutated
// when the underlying deletion genuinely fails.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.tracks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	t := s.tracks[idx]
	if err := removeIdempotent(t.SourceURI); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	s.tracks = append(s.tracks[:idx], s.tracks[idx+1:]...)
	logging.L().Info("track removed",
		zap.String("id", t.ID),
		zap.String("uri", t.SourceURI))

	err := s.persistLocked()
	s.notifyLocked()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotWrite, err)
	}
	return nil
}

// Reconcile drops tracks whose backing file disappeared behind the
// store's back and persists the result. Returns how many were dropped.
func (s *Store) Reconcile() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tracks[:0]
	dropped := 0
	for _, t := range s.tracks {
		if fileExists(t.SourceURI) {
			kept = append(kept, t)
			continue
		}
		logging.L().Warn("dropping playlist entry, backing file removed externally",
			zap.String("name", t.DisplayName),
			zap.String("uri", t.SourceURI))
		dropped++
	}
	if dropped == 0 {
		return 0
	}

	s.tracks = kept
	if err := s.persistLocked(); err != nil {
		logging.L().Error("persist reconciled playlist", zap.Error(err))
	}
	s.notifyLocked()
	return dropped
}

// Tracks returns a read snapshot of the playlist in insertion order.
func (s *Store) Tracks() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of tracks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracks)
}

// Subscribe creates a new snapshot subscription.
func (s *Store) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close shuts down all subscriptions. The kv store is owned by the
// caller and stays open.
func (s *Store) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
}

func (s *Store) snapshotLocked() []Track {
	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// persistLocked rewrites the full durable snapshot. Writes are
// last-writer-wins; suppressed while the initial load is in flight.
func (s *Store) persistLocked() error {
	if s.loading {
		return nil
	}

	recs := make([]trackRecord, len(s.tracks))
	for i, t := range s.tracks {
		recs[i] = trackRecord{ID: t.ID, Name: t.DisplayName, URI: t.SourceURI}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return s.kv.Set(snapshotKey, raw)
}

func (s *Store) notifyLocked() {
	snapshot := s.snapshotLocked()
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.send(snapshot)
	}
}
