package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/brainbreezegames-lang/meos/internal/input/palette"
	"github.com/brainbreezegames-lang/meos/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Replacer receives reloaded items. *palette.Palette satisfies it.
type Replacer interface {
	Replace(source string, items []palette.Item) error
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger used for reload failures.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithOnReload registers a callback run after every reload attempt with the
// number of items loaded or the error that kept the previous items.
func WithOnReload(fn func(count int, err error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher reloads a catalog file into a palette whenever it changes.
//
// The catalog's directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are picked up.
type Watcher struct {
	path   string
	target Replacer
	delay  time.Duration
	log    *slog.Logger

	onReload func(count int, err error)

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup

	reloads  atomic.Int64
	failures atomic.Int64
}

// NewWatcher starts watching the catalog at path. It does not load the file;
// call Reload for the initial load.
func NewWatcher(path string, target Replacer, opts ...WatcherOption) (*Watcher, error) {
	if target == nil {
		return nil, errors.New("catalog watcher needs a target")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		target:  target,
		delay:   DefaultDebounce,
		log:     logger.With("catalog"),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute catalog path.
func (w *Watcher) Path() string {
	return w.path
}

// Reload loads the catalog now and replaces the palette's catalog items.
// On error the previous items stay registered.
func (w *Watcher) Reload() error {
	items, err := Load(w.path)
	if err == nil {
		err = w.target.Replace(Source, items)
	}

	if err != nil {
		w.failures.Add(1)
		w.log.Warn("catalog reload failed", slog.String("path", w.path), slog.String("error", err.Error()))
	} else {
		w.reloads.Add(1)
		w.log.Debug("catalog reloaded", slog.String("path", w.path), slog.Int("items", len(items)))
	}

	if w.onReload != nil {
		w.onReload(len(items), err)
	}
	return err
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Failures returns the number of failed reloads.
func (w *Watcher) Failures() int64 {
	return w.failures.Load()
}

// Close stops watching. Pending reloads are dropped and a reload already
// running is waited for.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil && w.timer.Stop() {
		// The pending reload will never run
		w.wg.Done()
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watch error", slog.String("error", err.Error()))
		}
	}
}

// relevant reports whether ev touches the catalog file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove)
}

// schedule coalesces bursts of events into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil && w.timer.Stop() {
		w.timer.Reset(w.delay)
		return
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	defer w.wg.Done()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	_ = w.Reload()
}
