package watcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
)

const lockName = ".newsreel.lock"

// New creates a new Watcher instance with concurrency control. Only one
// watcher may own an inbox at a time.
func New(inboxDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	if err := os.MkdirAll(inboxDir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}

	lock := flock.New(filepath.Join(inboxDir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire inbox lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("inbox %s is already watched by another process", inboxDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if log == nil {
		log = logger.Nop()
	}

	return &implWatcher{
		inboxDir:      inboxDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		lock:          lock,
		maxConcurrent: maxConcurrent,
		slots:         semaphore.NewWeighted(int64(maxConcurrent)),
		seen:          make(map[string]bool),
	}, nil
}
