package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Search.MaxResults != 50 {
		t.Errorf("MaxResults = %d, want 50", cfg.Search.MaxResults)
	}
	if cfg.Search.Debounce.Duration != 30*time.Millisecond {
		t.Errorf("Debounce = %v, want 30ms", cfg.Search.Debounce)
	}
	if cfg.Usage.MaxRecent != 20 {
		t.Errorf("MaxRecent = %d, want 20", cfg.Usage.MaxRecent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.toml"), noEnv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Usage.Store != "toml" {
		t.Errorf("Store = %q, want toml", cfg.Usage.Store)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
[search]
max_results = 12
debounce = "45ms"

[usage]
store = "sqlite"
max_recent = 5

[catalog]
path = "/srv/items.toml"
watch = true

[log]
level = "debug"
format = "json"
`)

	cfg, err := LoadWithEnv(path, noEnv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Search.MaxResults != 12 {
		t.Errorf("MaxResults = %d, want 12", cfg.Search.MaxResults)
	}
	if cfg.Search.Debounce.Duration != 45*time.Millisecond {
		t.Errorf("Debounce = %v, want 45ms", cfg.Search.Debounce)
	}
	if cfg.Usage.Store != "sqlite" || cfg.Usage.MaxRecent != 5 {
		t.Errorf("Usage = %+v", cfg.Usage)
	}
	if cfg.Catalog.Path != "/srv/items.toml" || !cfg.Catalog.Watch {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Unset keys keep defaults
	if cfg.Plugins.Timeout.Duration != 2*time.Second {
		t.Errorf("Plugins.Timeout = %v, want 2s", cfg.Plugins.Timeout)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "[search\nmax_results = 1\n")

	_, err := LoadWithEnv(path, noEnv)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("Path = %q, want %q", perr.Path, path)
	}
	if perr.Line < 1 {
		t.Errorf("Line = %d, want a position", perr.Line)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "[search]\nmax_results = 12\n")

	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"MEOS_MAX_RESULTS":    "7",
		"MEOS_DEBOUNCE":       "1ms",
		"MEOS_USAGE_STORE":    "MEMORY",
		"MEOS_CATALOG_WATCH":  "yes",
		"MEOS_PLUGIN_TIMEOUT": "500ms",
		"MEOS_LOG_LEVEL":      "WARN",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Search.MaxResults != 7 {
		t.Errorf("MaxResults = %d, want 7", cfg.Search.MaxResults)
	}
	if cfg.Search.Debounce.Duration != time.Millisecond {
		t.Errorf("Debounce = %v, want 1ms", cfg.Search.Debounce)
	}
	if cfg.Usage.Store != "memory" {
		t.Errorf("Store = %q, want memory", cfg.Usage.Store)
	}
	if !cfg.Catalog.Watch {
		t.Error("Catalog.Watch = false, want true")
	}
	if cfg.Plugins.Timeout.Duration != 500*time.Millisecond {
		t.Errorf("Plugins.Timeout = %v, want 500ms", cfg.Plugins.Timeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	tests := map[string]string{
		"MEOS_MAX_RESULTS":   "many",
		"MEOS_DEBOUNCE":      "soon",
		"MEOS_CATALOG_WATCH": "maybe",
	}

	for name, value := range tests {
		_, err := LoadWithEnv("", envMap(map[string]string{name: value}))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s=%q: err = %v, want *ValidationError", name, value, err)
			continue
		}
		if verr.Field != name {
			t.Errorf("Field = %q, want %q", verr.Field, name)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(*Config)
	}{
		{"max results", "search.max_results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"debounce", "search.debounce", func(c *Config) { c.Search.Debounce.Duration = -time.Second }},
		{"max recent", "usage.max_recent", func(c *Config) { c.Usage.MaxRecent = -1 }},
		{"store", "usage.store", func(c *Config) { c.Usage.Store = "redis" }},
		{"timeout", "plugins.timeout", func(c *Config) { c.Plugins.Timeout.Duration = 0 }},
		{"level", "log.level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", "log.format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := Default()
	cfg.Catalog.Path = "~/items.toml"
	cfg.Plugins.Dir = "/abs/plugins"
	cfg.ExpandPaths()

	if cfg.Catalog.Path != filepath.Join(home, "items.toml") {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Plugins.Dir != "/abs/plugins" {
		t.Errorf("Plugins.Dir = %q", cfg.Plugins.Dir)
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", d.Duration)
	}
	out, _ := d.MarshalText()
	if string(out) != "1m30s" {
		t.Errorf("MarshalText = %q", out)
	}
	if err := d.UnmarshalText([]byte("later")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestEnvVars(t *testing.T) {
	names := EnvVars()
	if len(names) != 11 {
		t.Errorf("len(EnvVars) = %d, want 11", len(names))
	}
	for _, n := range names {
		if !strings.HasPrefix(n, "MEOS_") {
			t.Errorf("%q lacks MEOS_ prefix", n)
		}
	}
}
