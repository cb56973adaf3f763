package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
)

// settleDelay lets writers finish a request file before it is read.
const settleDelay = 500 * time.Millisecond

type implWatcher struct {
	inboxDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	lock          *flock.Flock
	maxConcurrent int
	slots         *semaphore.Weighted
	wg            sync.WaitGroup

	mu   sync.Mutex
	seen map[string]bool
}

// Start handles requests already waiting in the inbox, then monitors it for
// new ones until ctx is done.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inboxDir)

	pending, err := w.pendingRequests()
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, path := range pending {
		if err := w.dispatch(ctx, path); err != nil {
			return w.drain(ctx, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return w.drain(ctx, ctx.Err())

		case event, ok := <-w.watcher.Events:
			if !ok {
				return w.drain(ctx, fmt.Errorf("watcher events channel closed"))
			}

			// Only process new files
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isRequestFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-request file: %s", event.Name)
				continue
			}
			w.logger.Info(ctx, "New request detected: %s", event.Name)

			// Small delay to ensure file is fully written
			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return w.drain(ctx, ctx.Err())
			}

			if err := w.dispatch(ctx, event.Name); err != nil {
				return w.drain(ctx, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.drain(ctx, fmt.Errorf("watcher errors channel closed"))
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// dispatch runs the handler for path in its own goroutine once one of the
// maxConcurrent slots is free. A file already in flight is skipped.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if !w.claim(path) {
		return nil
	}
	// Blocks while maxConcurrent productions are running
	if err := w.slots.Acquire(ctx, 1); err != nil {
		w.release(path)
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.slots.Release(1)
		defer w.release(path)

		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) drain(ctx context.Context, cause error) error {
	w.logger.Info(ctx, "Waiting for ongoing productions to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "Inbox watcher stopped")
	return cause
}

func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[path] {
		return false
	}
	w.seen[path] = true
	return true
}

func (w *implWatcher) release(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.seen, path)
}

// Stop closes the file watcher and releases the inbox lock
func (w *implWatcher) Stop() error {
	err := w.watcher.Close()
	if unlockErr := w.lock.Unlock(); unlockErr != nil && err == nil {
		err = fmt.Errorf("release inbox lock: %w", unlockErr)
	}
	return err
}

func (w *implWatcher) pendingRequests() ([]string, error) {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.inboxDir, e.Name())
		if isRequestFile(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// isRequestFile accepts visible .json files.
func isRequestFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".json")
}
