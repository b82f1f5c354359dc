package lua

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/brainbreezegames-lang/meos/internal/catalog"
	"github.com/brainbreezegames-lang/meos/internal/input/palette"
	"github.com/brainbreezegames-lang/meos/internal/logger"
)

// SourcePrefix prefixes the palette source of plugin items.
const SourcePrefix = "plugin:"

// Replacer receives the items of one script. *palette.Palette satisfies it.
type Replacer interface {
	Replace(source string, items []palette.Item) error
}

// Provider runs item provider scripts.
type Provider struct {
	timeout time.Duration
	log     *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTimeout sets the per-script timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger used for script output and failures.
func WithLogger(l *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// NewProvider creates a script provider.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		timeout: DefaultExecutionTimeout,
		log:     logger.With("plugin"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SourceName returns the palette source for a script name.
func SourceName(name string) string {
	return SourcePrefix + name
}

// RunString runs code as the script called name and returns its items.
func (p *Provider) RunString(ctx context.Context, name, code string) ([]palette.Item, error) {
	return p.run(ctx, name, func(s *State) error { return s.DoString(ctx, code) })
}

// RunFile runs the script at path. The script name is the file name
// without its extension.
func (p *Provider) RunFile(ctx context.Context, path string) ([]palette.Item, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p.run(ctx, name, func(s *State) error { return s.DoFile(ctx, path) })
}

func (p *Provider) run(ctx context.Context, name string, exec func(*State) error) ([]palette.Item, error) {
	s := NewState(WithExecutionTimeout(p.timeout))
	defer s.Close()

	c := &collector{source: SourceName(name), seen: make(map[string]bool)}
	mod := s.RegisterModule("meos", map[string]lua.LGFunction{
		"register": c.register,
		"list":     c.list,
	})
	s.L.SetField(mod, "plugin", lua.LString(name))

	log := p.log.With(slog.String("script", name))
	s.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		log.Info(strings.Join(parts, "\t"))
		return 0
	}))

	if err := exec(s); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScript, name, err)
	}
	return c.items, nil
}

// LoadDir runs every *.lua file in dir and replaces each script's items in
// target. Failing scripts are logged and skipped; their previous items stay.
// It returns the number of scripts loaded and the joined failures.
func (p *Provider) LoadDir(ctx context.Context, dir string, target Replacer) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading plugin dir %s: %w", dir, err)
	}

	loaded := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		path := filepath.Join(dir, e.Name())
		items, err := p.RunFile(ctx, path)
		if err == nil {
			name := strings.TrimSuffix(e.Name(), ".lua")
			err = target.Replace(SourceName(name), items)
		}
		if err != nil {
			p.log.Warn("plugin failed", slog.String("path", path), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}

		p.log.Debug("plugin loaded", slog.String("path", path), slog.Int("items", len(items)))
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// LoadDir runs the scripts in dir with default settings.
func LoadDir(ctx context.Context, dir string, target Replacer) (int, error) {
	return NewProvider().LoadDir(ctx, dir, target)
}

// collector backs the meos module of one script run.
type collector struct {
	source string
	items  []palette.Item
	seen   map[string]bool
}

// register(opts) -> id
// opts must include name; id, type and keywords are optional.
func (c *collector) register(L *lua.LState) int {
	opts := L.CheckTable(1)

	name := strings.TrimSpace(getTableString(L, opts, "name"))
	if name == "" {
		L.ArgError(1, "name is required")
		return 0
	}
	itemType := strings.ToLower(strings.TrimSpace(getTableString(L, opts, "type")))

	id := strings.TrimSpace(getTableString(L, opts, "id"))
	if id == "" {
		id = catalog.StableID(itemType, name)
	}
	if c.seen[id] {
		L.RaiseError("register: duplicate id %q", id)
		return 0
	}
	c.seen[id] = true

	var keywords []string
	if kw, ok := L.GetField(opts, "keywords").(*lua.LTable); ok {
		for i := 1; i <= kw.Len(); i++ {
			if s, ok := kw.RawGetInt(i).(lua.LString); ok && strings.TrimSpace(string(s)) != "" {
				keywords = append(keywords, string(s))
			}
		}
	}

	c.items = append(c.items, palette.Item{
		ID:       id,
		Name:     name,
		Type:     itemType,
		Keywords: keywords,
		Source:   c.source,
	})

	L.Push(lua.LString(id))
	return 1
}

// list() -> { {id=, name=, type=}, ... }
func (c *collector) list(L *lua.LState) int {
	result := L.NewTable()
	for _, it := range c.items {
		t := L.NewTable()
		L.SetField(t, "id", lua.LString(it.ID))
		L.SetField(t, "name", lua.LString(it.Name))
		L.SetField(t, "type", lua.LString(it.Type))
		result.Append(t)
	}
	L.Push(result)
	return 1
}

// getTableString gets a string field from a Lua table.
func getTableString(L *lua.LState, tbl *lua.LTable, field string) string {
	if str, ok := L.GetField(tbl, field).(lua.LString); ok {
		return string(str)
	}
	return ""
}
