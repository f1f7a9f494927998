package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and triggers a reload callback.
// It implements debouncing to prevent reload storms: editors commonly
// emit several write events for a single save.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	paths    map[string]bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a watcher over the given file paths. The
// parent directory of each path is watched so atomic rename-based
// saves are picked up.
func NewFileWatcher(paths []string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "config.watcher"),
		debounce: debounce,
		paths:    make(map[string]bool, len(paths)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve watch path %q: %w", p, err)
		}
		fw.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
	}

	return fw, nil
}

// Watch starts delivering change notifications to onChange until Stop
// is called. Events for unwatched files in the same directories are
// ignored. onChange errors are logged, not propagated; a broken reload
// must not kill the watch loop.
func (fw *FileWatcher) Watch(onChange func() error) {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = true
	fw.mu.Unlock()

	go fw.loop(onChange)
}

func (fw *FileWatcher) loop(onChange func() error) {
	defer close(fw.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !fw.paths[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.logger.Debug("file change detected", "path", abs, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(fw.debounce)
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			if err := onChange(); err != nil {
				fw.logger.Error("reload failed", "error", err)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("watch error", "error", err)

		case <-fw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop stops the watcher and waits for the loop to exit.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		fw.watcher.Close()
		return
	}
	fw.running = false
	close(fw.stopCh)
	<-fw.doneCh
	fw.watcher.Close()
}
