package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownOrYAMLFilter(t *testing.T) {
	assert.True(t, MarkdownOrYAMLFilter("docs/intro.md"))
	assert.True(t, MarkdownOrYAMLFilter("docs/intro.mdx"))
	assert.True(t, MarkdownOrYAMLFilter("tags.yml"))
	assert.True(t, MarkdownOrYAMLFilter("tags.yaml"))
	assert.False(t, MarkdownOrYAMLFilter("docs/notes.txt"))
	assert.False(t, MarkdownOrYAMLFilter("docs/image.png"))
	assert.False(t, MarkdownOrYAMLFilter("docs/intro"))
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("docs/intro.md"))
	assert.False(t, NoHiddenFilter("docs/.intro.md.swp"))
	assert.False(t, NoHiddenFilter("docs/_draft.md"))
	// Only the final path element is checked; parent dirs are handled at
	// watch-registration time.
	assert.True(t, NoHiddenFilter("_site/intro.md"))
}

func TestHandleEvent_FiltersAndDebounces(t *testing.T) {
	w, err := New(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	w.AddFilter(MarkdownOrYAMLFilter)

	var mu sync.Mutex
	var batches [][]ChangeEvent
	done := make(chan struct{}, 1)
	w.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		batches = append(batches, events)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	// A burst of writes to the same file plus a filtered-out path collapses
	// into a single batch with one event.
	w.handleEvent(fsnotify.Event{Name: "docs/intro.md", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "docs/intro.md", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "docs/image.png", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "docs/intro.md", Op: fsnotify.Create})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced handler never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, "docs/intro.md", batches[0][0].Path)
}

func TestHandleEvent_IgnoresChmod(t *testing.T) {
	w, err := New(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	called := make(chan struct{}, 1)
	w.AddHandler(func(events []ChangeEvent) error {
		called <- struct{}{}
		return nil
	})

	w.handleEvent(fsnotify.Event{Name: "docs/intro.md", Op: fsnotify.Chmod})

	select {
	case <-called:
		t.Fatal("chmod should not trigger a change batch")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchRecursive_SkipsMissingRoot(t *testing.T) {
	w, err := New(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.NoError(t, w.WatchRecursive(filepath.Join(t.TempDir(), "does-not-exist")))
}

func TestWatch_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	w, err := New(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	w.AddFilter(MarkdownOrYAMLFilter)
	w.AddFilter(NoHiddenFilter)

	got := make(chan []ChangeEvent, 1)
	w.AddHandler(func(events []ChangeEvent) error {
		select {
		case got <- events:
		default:
		}
		return nil
	})

	require.NoError(t, w.WatchRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"), []byte("# Intro\n"), 0o644))

	select {
	case events := <-got:
		require.NotEmpty(t, events)
		assert.Equal(t, filepath.Join(dir, "intro.md"), events[0].Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event observed")
	}
}
