package app

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/brainbreezegames-lang/meos/internal/catalog"
	"github.com/brainbreezegames-lang/meos/internal/input/palette"
	"github.com/brainbreezegames-lang/meos/internal/plugin/lua"
	"github.com/brainbreezegames-lang/meos/internal/render"
	"github.com/brainbreezegames-lang/meos/internal/usage"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []func(context.Context) error{
		b.initUsage,
		b.initPalette,
		b.initCatalog,
		b.initPlugins,
		b.initStyles,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initUsage opens the usage store and loads saved history.
func (b *bootstrapper) initUsage(ctx context.Context) error {
	cfg := b.app.config.Usage

	store, err := usage.Open(cfg.Store, cfg.Path)
	if err != nil {
		return &InitError{Component: "usage", Err: err}
	}

	tracker := usage.NewTracker(store, cfg.MaxRecent)
	if err := tracker.Load(ctx); err != nil {
		_ = tracker.Close()
		return &InitError{Component: "usage", Err: err}
	}

	b.app.tracker = tracker
	b.initOrder = append(b.initOrder, "usage")
	return nil
}

func (b *bootstrapper) initPalette(_ context.Context) error {
	b.app.palette = palette.New(
		palette.WithUsage(b.app.tracker),
		palette.WithMaxResults(b.app.config.Search.MaxResults),
	)
	b.initOrder = append(b.initOrder, "palette")
	return nil
}

// initCatalog loads the catalog file and starts watching it if enabled.
// A missing catalog file is logged, not fatal.
func (b *bootstrapper) initCatalog(_ context.Context) error {
	cfg := b.app.config.Catalog
	if cfg.Path == "" {
		return nil
	}

	if cfg.Watch {
		w, err := catalog.NewWatcher(cfg.Path, b.app.palette)
		if err != nil {
			return &InitError{Component: "catalog", Err: err}
		}
		b.app.watcher = w
		b.initOrder = append(b.initOrder, "catalog")

		if err := w.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &InitError{Component: "catalog", Err: err}
		}
		return nil
	}

	items, err := catalog.Load(cfg.Path)
	if errors.Is(err, os.ErrNotExist) {
		b.app.log.Warn("catalog not found", slog.String("path", cfg.Path))
		return nil
	}
	if err != nil {
		return &InitError{Component: "catalog", Err: err}
	}
	if err := b.app.palette.Replace(catalog.Source, items); err != nil {
		return &InitError{Component: "catalog", Err: err}
	}
	b.initOrder = append(b.initOrder, "catalog")
	return nil
}

// initPlugins runs the Lua item providers. Script failures are logged and
// skipped so one broken script does not stop startup.
func (b *bootstrapper) initPlugins(ctx context.Context) error {
	cfg := b.app.config.Plugins
	if cfg.Dir == "" {
		return nil
	}

	provider := lua.NewProvider(lua.WithTimeout(cfg.Timeout.Duration))
	loaded, err := provider.LoadDir(ctx, cfg.Dir, b.app.palette)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && loaded == 0 {
			b.app.log.Warn("plugin dir not found", slog.String("dir", cfg.Dir))
			return nil
		}
		b.app.log.Warn("some plugins failed", slog.Int("loaded", loaded), slog.String("error", err.Error()))
	}
	b.initOrder = append(b.initOrder, "plugins")
	return nil
}

func (b *bootstrapper) initStyles(_ context.Context) error {
	t := b.app.config.Theme
	b.app.styles = render.NewStyles(render.NewTheme(t.Highlight, t.Muted, t.Accent), b.opts.Output)
	b.initOrder = append(b.initOrder, "styles")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = b.initOrder[:0]
}

func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "usage":
		if b.app.tracker != nil {
			_ = b.app.tracker.Close()
			b.app.tracker = nil
		}
	case "palette":
		b.app.palette = nil
	case "catalog":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	case "plugins":
		if b.app.palette != nil {
			b.app.palette.Clear()
		}
	case "styles":
		b.app.styles = nil
	}
}
