package faqrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

// FileRepository keeps the knowledge base in a JSON file. The parsed entries
// are cached and reloaded when the file changes on disk.
type FileRepository struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries []faq.Entry
	loaded  bool
}

// NewFileRepository constructs the repository. A missing file is treated as
// an empty knowledge base.
func NewFileRepository(path string, logger *slog.Logger) *FileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRepository{
		path:   filepath.Clean(path),
		logger: logger.With("component", "faqrepo.file"),
	}
}

// List implements faq.Repository.
func (r *FileRepository) List(_ context.Context) ([]faq.Entry, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return cloneEntries(r.entries), nil
	}
	r.mu.RUnlock()

	if err := r.reload(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneEntries(r.entries), nil
}

// Save writes the entries to a temporary file and renames it into place.
func (r *FileRepository) Save(_ context.Context, entries []faq.Entry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create faq directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".faqs-*.json")
	if err != nil {
		return fmt.Errorf("create temp faq file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write faq file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close faq file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace faq file: %w", err)
	}
	r.entries = cloneEntries(entries)
	r.loaded = true
	return nil
}

// Watch reloads the cache whenever the file is written, replaced or removed.
// It blocks until ctx is done.
func (r *FileRepository) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create faq watcher: %w", err)
	}
	defer watcher.Close()

	// editors and Save replace the file, so watch the directory
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create faq directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch faq directory: %w", err)
	}
	r.logger.Info("watching faq file", "path", r.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := r.reload(); err != nil {
				r.logger.Warn("faq file reload failed, keeping previous entries", "error", err)
				continue
			}
			r.logger.Info("faq file reloaded", "op", event.Op.String())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("faq watcher error", "error", err)
		}
	}
}

func (r *FileRepository) reload() error {
	payload, err := os.ReadFile(r.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read faq file: %w", err)
	}
	entries, err := decodeEntries(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.entries = entries
	r.loaded = true
	r.mu.Unlock()
	return nil
}

var (
	_ faq.Repository = (*FileRepository)(nil)
	_ faq.Watcher    = (*FileRepository)(nil)
)
