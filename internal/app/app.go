// Package app wires the palette, usage tracking, catalog and plugins into a
// running meos instance.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/brainbreezegames-lang/meos/internal/catalog"
	"github.com/brainbreezegames-lang/meos/internal/config"
	"github.com/brainbreezegames-lang/meos/internal/input/palette"
	"github.com/brainbreezegames-lang/meos/internal/logger"
	"github.com/brainbreezegames-lang/meos/internal/render"
	"github.com/brainbreezegames-lang/meos/internal/usage"
)

// ErrClosed is returned when using a closed application.
var ErrClosed = errors.New("application closed")

// Options configures a new Application.
type Options struct {
	// Config holds the settings. Nil uses config.Default().
	Config *config.Config

	// Output is where rendered results go. It only affects colour detection.
	Output io.Writer
}

// Application owns the long-lived meos components.
type Application struct {
	config  *config.Config
	tracker *usage.Tracker
	palette *palette.Palette
	watcher *catalog.Watcher
	styles  *render.Styles
	log     *slog.Logger

	mu     sync.Mutex
	closed bool
}

// New builds an Application. On failure every component created so far is
// released.
func New(ctx context.Context, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	a := &Application{
		config: cfg,
		log:    logger.With("app"),
	}

	b := newBootstrapper(a, opts)
	if err := b.bootstrap(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Config returns the settings in use.
func (a *Application) Config() *config.Config {
	return a.config
}

// Palette returns the item registry.
func (a *Application) Palette() *palette.Palette {
	return a.palette
}

// Tracker returns the usage tracker.
func (a *Application) Tracker() *usage.Tracker {
	return a.tracker
}

// Styles returns the result styles.
func (a *Application) Styles() *render.Styles {
	return a.styles
}

// Watcher returns the catalog watcher, or nil when watching is off.
func (a *Application) Watcher() *catalog.Watcher {
	return a.watcher
}

// Search ranks the registered items against query.
func (a *Application) Search(query string, limit int) []palette.Result {
	return a.palette.Search(query, limit)
}

// Open records that the item with id was opened.
func (a *Application) Open(ctx context.Context, id string) error {
	_, err := a.OpenItem(ctx, id)
	return err
}

// OpenItem records that the item with id was opened and returns it.
func (a *Application) OpenItem(ctx context.Context, id string) (palette.Item, error) {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return palette.Item{}, ErrClosed
	}
	return a.palette.OpenItem(ctx, id)
}

// Close stops the catalog watcher and flushes usage data.
func (a *Application) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.tracker != nil {
		errs = append(errs, a.tracker.Close())
	}
	return errors.Join(errs...)
}

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
