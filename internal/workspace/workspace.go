package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
)

// Workspace is the scratch directory of a single production run.
// It is owned by exactly one run and is safe for concurrent allocation.
type Workspace struct {
	id     string
	dir    string
	logger logger.Logger

	mu     sync.Mutex
	seq    int
	closed bool
}

// New creates root (if absent) and a uniquely named run directory inside it.
func New(root string, log logger.Logger) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is empty")
	}
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}

	for range 3 {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")
		dir := filepath.Join(root, id)
		err := os.Mkdir(dir, 0755)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create workspace dir: %w", err)
		}
		return &Workspace{id: id, dir: dir, logger: log}, nil
	}
	return nil, errors.New("create workspace dir: identifier collision")
}

// ID returns the random identifier naming this workspace.
func (w *Workspace) ID() string { return w.id }

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// NewFile reserves the next path named {id}{sequence}.{ext}. The file is not created.
func (w *Workspace) NewFile(ext string) (string, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return "", errors.New("workspace: file extension required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return "", errors.New("workspace: already closed")
	}
	name := fmt.Sprintf("%s%03d.%s", w.id, w.seq, ext)
	w.seq++
	return filepath.Join(w.dir, name), nil
}

// Remove deletes one intermediate file, logs a warning if it fails.
// Missing files are not an error: a failing stage may never have written them.
func (w *Workspace) Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		w.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
		return
	}
	w.logger.Debug(ctx, "Cleaned up temp file: %s", path)
}

// Close removes the workspace directory and anything still inside it.
func (w *Workspace) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := os.RemoveAll(w.dir); err != nil {
		w.logger.Warn(ctx, "Failed to remove workspace %s: %v", w.dir, err)
		return fmt.Errorf("remove workspace: %w", err)
	}
	w.logger.Debug(ctx, "Removed workspace: %s", w.dir)
	return nil
}

// Allocator hands out file paths inside a run workspace and releases them.
type Allocator interface {
	NewFile(ext string) (string, error)
	Remove(ctx context.Context, path string)
}
