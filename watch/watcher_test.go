// SPDX-License-Identifier: EPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func onlyWAV(path string) bool { return strings.EqualFold(filepath.Ext(path), ".wav") }

func start(t *testing.T, dir string, h Handler, opts ...Option) {
	t.Helper()

	w, err := New(dir, h, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Run() did not return after cancel")
		}
	})
}

func TestWatcher_HandlesSupportedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got := make(chan string, 8)
	start(t, dir, func(_ context.Context, path string) error {
		got <- path
		return nil
	}, WithFilter(onlyWAV), WithDebounce(100*time.Millisecond))

	wavPath := filepath.Join(dir, "clip.wav")
	for i := range 3 {
		if err := os.WriteFile(wavPath, []byte(strings.Repeat("x", i+1)), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-got:
		if path != wavPath {
			t.Errorf("handled %q, want %q", path, wavPath)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case path := <-got:
		t.Errorf("unexpected second call for %q", path)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_HandlerErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got := make(chan string, 8)
	start(t, dir, func(_ context.Context, path string) error {
		got <- path
		return errors.New("decode failed")
	}, WithDebounce(20*time.Millisecond))

	for _, name := range []string{"a.wav", "b.wav"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}

		select {
		case p := <-got:
			if p != path {
				t.Errorf("handled %q, want %q", p, path)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("handler not called for %s", name)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.wav")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	noop := func(context.Context, string) error { return nil }

	tests := []struct {
		name string
		dir  string
		h    Handler
		want error
	}{
		{"missing dir", filepath.Join(dir, "missing"), noop, os.ErrNotExist},
		{"not a dir", file, noop, ErrNotDir},
		{"no handler", dir, nil, ErrNoHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(tt.dir, tt.h); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func newWatcher(t *testing.T) *Watcher {
	t.Helper()

	w, err := New(t.TempDir(), func(context.Context, string) error { return nil },
		WithDebounce(time.Hour))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(w.stop)

	return w
}

func TestWatcher_ReplacedTimerDoesNotFire(t *testing.T) {
	t.Parallel()

	w := newWatcher(t)
	path := filepath.Join(w.Dir(), "clip.wav")

	w.observe(fsnotify.Event{Name: path, Op: fsnotify.Write})
	first := w.pending[path].gen
	w.observe(fsnotify.Event{Name: path, Op: fsnotify.Write})

	// the first timer fired just before it was replaced
	w.fire(path, first)
	if len(w.ready) != 0 {
		t.Fatalf("stale timer queued %q", <-w.ready)
	}

	w.fire(path, w.pending[path].gen)
	if got := <-w.ready; got != path {
		t.Errorf("queued %q, want %q", got, path)
	}
	if len(w.ready) != 0 {
		t.Error("path queued twice")
	}
}

func TestWatcher_StopReleasesPendingTimers(t *testing.T) {
	t.Parallel()

	w := newWatcher(t)
	for range cap(w.ready) {
		w.ready <- "full"
	}

	path := filepath.Join(w.Dir(), "late.wav")
	w.observe(fsnotify.Event{Name: path, Op: fsnotify.Create})
	gen := w.pending[path].gen

	done := make(chan struct{})
	go func() {
		w.fire(path, gen)
		close(done)
	}()

	// the queue is full, so fire waits until the watcher stops
	time.Sleep(20 * time.Millisecond)
	w.stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer callback still blocked after stop")
	}
}
