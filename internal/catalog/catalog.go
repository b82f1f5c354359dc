// Package catalog loads palette items from a TOML catalog file and keeps
// the palette in sync when the file changes on disk.
//
// A catalog lists items as an array of tables:
//
//	[[item]]
//	id = "settings"
//	name = "Settings"
//	type = "app"
//	keywords = ["preferences", "config"]
//
//	[[item]]
//	name = "Resume.pdf"
//	type = "document"
//
// Items without an id get a stable one derived from their type and name,
// so usage history keeps pointing at them across restarts.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/brainbreezegames-lang/meos/internal/input/palette"
)

// Source is the palette source tag for catalog items.
const Source = "catalog"

var (
	// ErrDuplicateID is returned when two entries share an id.
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrInvalidEntry is returned when an entry is missing required fields.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// namespace scopes generated item ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("meos.catalog"))

type file struct {
	Items []entry `toml:"item"`
}

type entry struct {
	ID       string   `toml:"id"`
	Name     string   `toml:"name"`
	Type     string   `toml:"type"`
	Keywords []string `toml:"keywords"`
}

// Load reads and parses the catalog at path.
func Load(path string) ([]palette.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes catalog data. source names the data in errors.
func Parse(data []byte, source string) ([]palette.Item, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parsing catalog %s at line %d, column %d: %w", source, row, col, err)
		}
		return nil, fmt.Errorf("parsing catalog %s: %w", source, err)
	}

	items := make([]palette.Item, 0, len(f.Items))
	seen := make(map[string]int, len(f.Items))
	for i, e := range f.Items {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: %s item %d has no name", ErrInvalidEntry, source, i+1)
		}

		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = StableID(e.Type, name)
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s items %d and %d both use %q", ErrDuplicateID, source, prev+1, i+1, id)
		}
		seen[id] = i

		items = append(items, palette.Item{
			ID:       id,
			Name:     name,
			Type:     strings.ToLower(strings.TrimSpace(e.Type)),
			Keywords: keywords(e.Keywords),
			Source:   Source,
		})
	}
	return items, nil
}

// StableID derives an item id from its type and name. The same pair always
// yields the same id; type is case-insensitive.
func StableID(itemType, name string) string {
	key := strings.ToLower(strings.TrimSpace(itemType)) + "/" + strings.TrimSpace(name)
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// keywords drops blank entries and keeps order.
func keywords(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
