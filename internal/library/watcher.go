// This file implements a file system watcher for the library mirror. The
// mirror is regenerable, so when files under the output directory are
// deleted or clobbered outside the app, a debounced resync restores them.
package library

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherService watches the library output directory and triggers a resync
// when its contents change underneath the app.
type WatcherService struct {
	resync        func()
	watcher       *fsnotify.Watcher
	mu            sync.Mutex
	root          string
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWatcherService creates a watcher that calls resync after changes settle.
func NewWatcherService(resync func()) *WatcherService {
	return &WatcherService{
		resync:        resync,
		debounceDelay: 2 * time.Second,
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching root. A missing root directory is not an error; the
// watcher picks it up on the next Rewatch after a sync creates it.
func (w *WatcherService) Start(root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher
	go w.processEvents()
	w.Rewatch(root)
	return nil
}

// Rewatch points the watcher at a new root, e.g. after the user changes the
// output directory.
func (w *WatcherService) Rewatch(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	for _, watched := range w.watcher.WatchList() {
		w.watcher.Remove(watched)
	}
	w.root = root

	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		log.Printf("Library watcher error: %v", err)
		return
	}
	log.Printf("Library watcher started for: %s", root)
}

func (w *WatcherService) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename|fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleResync()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Library watcher error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

// scheduleResync debounces bursts of file system events into one resync.
func (w *WatcherService) scheduleResync() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.resync)
}

// Stop shuts the watcher down.
func (w *WatcherService) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
}
