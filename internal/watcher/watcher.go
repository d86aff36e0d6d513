// Package watcher hands audio files dropped into a directory to a callback
// once they have stopped changing.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"jukebox/internal/logger"
	"jukebox/pkg/utils"
)

// HandleFunc is called once per settled audio file.
type HandleFunc func(ctx context.Context, path string)

// Watcher watches one directory for new audio files.
type Watcher struct {
	dir      string
	handle   HandleFunc
	logger   *logger.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time // path -> last write seen
	handled map[string]bool
	wg      sync.WaitGroup
}

// New creates a Watcher for dir. A file is handed to handle once no write
// has been seen for debounce.
func New(dir string, debounce time.Duration, handle HandleFunc, log *logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Watcher{
		dir:      dir,
		handle:   handle,
		logger:   log,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		handled:  make(map[string]bool),
	}
}

// Start blocks until ctx is canceled, then waits for running handlers.
// Audio files already in the directory are handled too.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.queueExisting()
	w.logger.Info("Watching %s for audio files", w.dir)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-fw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.logger.Error("Watcher error: %v", err)

		case now := <-ticker.C:
			w.dispatchSettled(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !utils.IsAudioFile(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		delete(w.pending, ev.Name)
		delete(w.handled, ev.Name)
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		if !w.handled[ev.Name] {
			w.pending[ev.Name] = time.Now()
		}
	}
}

func (w *Watcher) queueExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("Failed to list %s: %v", w.dir, err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entries {
		path := filepath.Join(w.dir, e.Name())
		if !e.IsDir() && utils.IsAudioFile(path) {
			w.pending[path] = time.Now()
		}
	}
}

func (w *Watcher) dispatchSettled(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
			w.handled[path] = true
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.logger.Debug("File settled: %s", path)
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.handle(ctx, path)
		}()
	}
}
