package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// LookupFunc looks up an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load builds a Config from defaults, the TOML file at path and the process
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with a custom environment lookup.
func LoadWithEnv(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := Parse(path, data, cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults only
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if lookup != nil {
		if err := applyEnv(cfg, lookup); err != nil {
			return nil, err
		}
	}

	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over cfg. Keys absent from data keep their
// current values.
func Parse(source string, data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// envSetter applies one environment variable to a Config.
type envSetter func(cfg *Config, value string) error

// envMapping maps MEOS_* variables to settings.
var envMapping = map[string]envSetter{
	"MEOS_MAX_RESULTS": func(c *Config, v string) error {
		return parseInt("MEOS_MAX_RESULTS", v, &c.Search.MaxResults)
	},
	"MEOS_DEBOUNCE": func(c *Config, v string) error {
		return parseDuration("MEOS_DEBOUNCE", v, &c.Search.Debounce)
	},
	"MEOS_USAGE_STORE": func(c *Config, v string) error {
		c.Usage.Store = strings.ToLower(v)
		return nil
	},
	"MEOS_USAGE_PATH": func(c *Config, v string) error {
		c.Usage.Path = v
		return nil
	},
	"MEOS_MAX_RECENT": func(c *Config, v string) error {
		return parseInt("MEOS_MAX_RECENT", v, &c.Usage.MaxRecent)
	},
	"MEOS_CATALOG": func(c *Config, v string) error {
		c.Catalog.Path = v
		return nil
	},
	"MEOS_CATALOG_WATCH": func(c *Config, v string) error {
		return parseBool("MEOS_CATALOG_WATCH", v, &c.Catalog.Watch)
	},
	"MEOS_PLUGIN_DIR": func(c *Config, v string) error {
		c.Plugins.Dir = v
		return nil
	},
	"MEOS_PLUGIN_TIMEOUT": func(c *Config, v string) error {
		return parseDuration("MEOS_PLUGIN_TIMEOUT", v, &c.Plugins.Timeout)
	},
	"MEOS_LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = strings.ToLower(v)
		return nil
	},
	"MEOS_LOG_FORMAT": func(c *Config, v string) error {
		c.Log.Format = strings.ToLower(v)
		return nil
	},
}

// EnvVars returns the recognised environment variable names.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	return names
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	for name, set := range envMapping {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, val); err != nil {
			return err
		}
	}
	return nil
}

func parseInt(field, s string, dst *int) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &ValidationError{Field: field, Value: s, Message: "not an integer"}
	}
	*dst = v
	return nil
}

func parseDuration(field, s string, dst *Duration) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return &ValidationError{Field: field, Value: s, Message: "not a duration"}
	}
	dst.Duration = v
	return nil
}

func parseBool(field, s string, dst *bool) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return &ValidationError{Field: field, Value: s, Message: "not a boolean"}
	}
	return nil
}
