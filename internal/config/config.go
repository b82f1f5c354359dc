package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all meos settings.
type Config struct {
	Search  SearchConfig  `toml:"search"`
	Usage   UsageConfig   `toml:"usage"`
	Catalog CatalogConfig `toml:"catalog"`
	Plugins PluginConfig  `toml:"plugins"`
	Log     LogConfig     `toml:"log"`
	Theme   ThemeConfig   `toml:"theme"`
}

// SearchConfig configures palette ranking.
type SearchConfig struct {
	// MaxResults is the default result budget.
	MaxResults int `toml:"max_results"`
	// Debounce is how long live search waits for typing to settle.
	Debounce Duration `toml:"debounce"`
}

// UsageConfig configures usage tracking.
type UsageConfig struct {
	// Store is one of "memory", "toml" or "sqlite".
	Store string `toml:"store"`
	// Path is the store file. Empty uses the store's default location.
	Path string `toml:"path"`
	// MaxRecent is the capacity of the recently-opened list.
	MaxRecent int `toml:"max_recent"`
}

// CatalogConfig configures the item catalog file.
type CatalogConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// PluginConfig configures Lua item providers.
type PluginConfig struct {
	Dir     string   `toml:"dir"`
	Timeout Duration `toml:"timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
}

// ThemeConfig holds colours for terminal rendering.
type ThemeConfig struct {
	Highlight string `toml:"highlight"`
	Muted     string `toml:"muted"`
	Accent    string `toml:"accent"`
}

// Duration is a time.Duration written as a string like "30ms" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults: 50,
			Debounce:   Duration{30 * time.Millisecond},
		},
		Usage: UsageConfig{
			Store:     "toml",
			MaxRecent: 20,
		},
		Plugins: PluginConfig{
			Timeout: Duration{2 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: ThemeConfig{
			Highlight: "#F9E2AF",
			Muted:     "#6C7086",
			Accent:    "#7C3AED",
		},
	}
}

// DefaultPath returns ~/.meos/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".meos", "config.toml")
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Search.MaxResults <= 0 {
		return &ValidationError{Field: "search.max_results", Value: c.Search.MaxResults, Message: "must be positive"}
	}
	if c.Search.Debounce.Duration < 0 {
		return &ValidationError{Field: "search.debounce", Value: c.Search.Debounce.Duration, Message: "must not be negative"}
	}
	if c.Usage.MaxRecent <= 0 {
		return &ValidationError{Field: "usage.max_recent", Value: c.Usage.MaxRecent, Message: "must be positive"}
	}
	if err := oneOf("usage.store", c.Usage.Store, "memory", "toml", "sqlite"); err != nil {
		return err
	}
	if c.Plugins.Timeout.Duration <= 0 {
		return &ValidationError{Field: "plugins.timeout", Value: c.Plugins.Timeout.Duration, Message: "must be positive"}
	}
	if err := oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return oneOf("log.format", c.Log.Format, "text", "json")
}

// ExpandPaths replaces a leading "~" in path settings with the home directory.
func (c *Config) ExpandPaths() {
	c.Usage.Path = expandHome(c.Usage.Path)
	c.Catalog.Path = expandHome(c.Catalog.Path)
	c.Plugins.Dir = expandHome(c.Plugins.Dir)
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
