package store

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mlefeuvre/tonearm/internal/logging"
)

// Watcher reconciles the store when files under the media directory
// disappear behind its back, applying the same drop policy as load-time
// reconciliation.
type Watcher struct {
	fw    *fsnotify.Watcher
	store *Store
	done  chan struct{}
}

// NewWatcher starts watching the store's media directory, creating it if
// needed.
func NewWatcher(s *Store) (*Watcher, error) {
	if err := os.MkdirAll(s.MediaDir(), 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(s.MediaDir()); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, store: s, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
				if n := w.store.Reconcile(); n > 0 {
					logging.L().Info("media directory changed externally",
						zap.String("path", ev.Name),
						zap.Int("dropped", n))
				}
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.L().Warn("media watcher error", zap.Error(err))
		}
	}
}

// Close stops watching and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
