// SPDX-License-Identifier: EPL-2.0

package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ik5/hapsync/internal/logger"
)

// DefaultDebounce is the quiet period a path needs before it is handled.
const DefaultDebounce = 250 * time.Millisecond

// Handler processes one changed file. Errors are logged and watching goes on.
type Handler func(ctx context.Context, path string) error

// Watcher watches a single directory, not recursively.
type Watcher struct {
	dir      string
	filter   func(path string) bool
	handler  Handler
	debounce time.Duration
	log      *logger.Logger

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]pendingFile
	gen     uint64
	ready   chan string

	done     chan struct{}
	stopOnce sync.Once
}

// pendingFile is a path waiting out its debounce. gen tells a live timer
// from one that was replaced after it had already fired.
type pendingFile struct {
	timer *time.Timer
	gen   uint64
}

type Option func(*Watcher)

// WithFilter restricts the watcher to paths for which keep returns true.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) { w.filter = keep }
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New starts watching dir right away; events that arrive before Run are
// queued by fsnotify.
func New(dir string, h Handler, opts ...Option) (*Watcher, error) {
	if h == nil {
		return nil, ErrNoHandler
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: %w", dir, ErrNotDir)
	}

	w := &Watcher{
		dir:      dir,
		filter:   func(string) bool { return true },
		handler:  h,
		debounce: DefaultDebounce,
		log:      logger.Nop(),
		pending:  make(map[string]pendingFile),
		ready:    make(chan string, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w.fs = fs

	return w, nil
}

func (w *Watcher) Dir() string { return w.dir }

// Run dispatches changed files to the handler until ctx is done or the
// underlying watcher fails. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	w.log.Info("watching directory", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.observe(ev)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case path := <-w.ready:
			w.handle(ctx, path)
		}
	}
}

func (w *Watcher) observe(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	path := filepath.Clean(ev.Name)
	if !w.filter(path) {
		w.log.Debug("ignoring file", zap.String("file", path))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.pending[path] = pendingFile{
		timer: time.AfterFunc(w.debounce, func() { w.fire(path, gen) }),
		gen:   gen,
	}
}

// fire queues path unless its timer was replaced or the watcher stopped.
func (w *Watcher) fire(path string, gen uint64) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || p.gen != gen {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.ready <- path:
	case <-w.done:
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	log := w.log.With(zap.String("file", path))
	start := time.Now()

	if err := w.handler(logger.WithContext(ctx, log), path); err != nil {
		log.Error("processing changed file", zap.Error(err))
		return
	}

	log.Info("processed changed file", zap.Duration("elapsed", time.Since(start)))
}

func (w *Watcher) stop() {
	w.stopOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.fs.Close(); err != nil {
		w.log.Warn("closing watcher", zap.Error(err))
	}
}
