// Package watcher invalidates the tag store when the definitions file or
// the docs content changes during development. Rapid bursts of filesystem
// events are debounced and deduplicated by path before handlers run.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/doctags/doctags/internal/logging"
)

// ChangeEvent is one debounced file change.
type ChangeEvent struct {
	Path    string
	ModTime time.Time
}

// Filter decides whether a changed path is relevant.
type Filter func(path string) bool

// Handler receives a debounced batch of changes. A typical handler resets
// the tag store so the next read reprocesses.
type Handler func(events []ChangeEvent) error

// ContentWatcher watches the definitions file and docs directories.
type ContentWatcher struct {
	watcher *fsnotify.Watcher
	logger  logging.Logger
	delay   time.Duration

	mu       sync.Mutex
	filters  []Filter
	handlers []Handler
	pending  map[string]ChangeEvent
	timer    *time.Timer
}

// New creates a watcher with the given debounce delay.
func New(debounce time.Duration, logger logging.Logger) (*ContentWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ContentWatcher{
		watcher: fsWatcher,
		logger:  logger.WithComponent("watcher"),
		delay:   debounce,
		pending: make(map[string]ChangeEvent),
	}, nil
}

// AddFilter adds a path filter. All filters must accept a path for it to be
// delivered.
func (w *ContentWatcher) AddFilter(filter Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler adds a change handler.
func (w *ContentWatcher) AddHandler(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchFile watches one file's directory so edits, renames, and re-creates
// are all observed.
func (w *ContentWatcher) WatchFile(path string) error {
	return w.watcher.Add(filepath.Dir(path))
}

// WatchRecursive watches a directory tree. Missing roots are skipped so a
// configured docs path that does not exist yet is not fatal.
func (w *ContentWatcher) WatchRecursive(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Start runs the watch loop until the context is canceled.
func (w *ContentWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop closes the underlying watcher.
func (w *ContentWatcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *ContentWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "filesystem watch error")
		}
	}
}

func (w *ContentWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, filter := range w.filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{Path: event.Name}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
	}
	w.pending[event.Name] = change

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *ContentWatcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	events := make([]ChangeEvent, 0, len(w.pending))
	for _, event := range w.pending {
		events = append(events, event)
	}
	w.pending = make(map[string]ChangeEvent)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(events); err != nil {
			w.logger.Warn(context.Background(), err, "change handler failed")
		}
	}
}

// MarkdownOrYAMLFilter accepts the content files the engine cares about.
func MarkdownOrYAMLFilter(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".mdx", ".yml", ".yaml":
		return true
	}
	return false
}

// NoHiddenFilter rejects dotfiles and underscore-prefixed paths.
func NoHiddenFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && !strings.HasPrefix(base, "_")
}
