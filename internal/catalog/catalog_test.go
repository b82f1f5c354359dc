package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbreezegames-lang/meos/internal/input/palette"
)

const sample = `
[[item]]
id = "settings"
name = "Settings"
type = "app"
keywords = ["preferences", " ", "config"]

[[item]]
name = "Resume.pdf"
type = "Document"

[[item]]
id = "weather"
name = "  Weather Widget  "
type = "widget"
`

func TestParse(t *testing.T) {
	items, err := Parse([]byte(sample), "test.toml")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, palette.Item{
		ID:       "settings",
		Name:     "Settings",
		Type:     palette.TypeApp,
		Keywords: []string{"preferences", "config"},
		Source:   Source,
	}, items[0])

	assert.Equal(t, StableID("document", "Resume.pdf"), items[1].ID)
	assert.Equal(t, palette.TypeDocument, items[1].Type)
	assert.Nil(t, items[1].Keywords)

	assert.Equal(t, "Weather Widget", items[2].Name)
}

func TestParse_Empty(t *testing.T) {
	items, err := Parse(nil, "empty.toml")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "missing name",
			data: "[[item]]\nid = \"x\"\n",
			want: ErrInvalidEntry,
		},
		{
			name: "duplicate id",
			data: "[[item]]\nid = \"x\"\nname = \"A\"\n[[item]]\nid = \"x\"\nname = \"B\"\n",
			want: ErrDuplicateID,
		},
		{
			name: "duplicate generated id",
			data: "[[item]]\nname = \"Notes\"\ntype = \"app\"\n[[item]]\nname = \"Notes\"\ntype = \"APP\"\n",
			want: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "bad.toml")
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "bad.toml")
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte("[[item]\nname = 1"), "broken.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.toml")
}

func TestStableID(t *testing.T) {
	a := StableID("app", "Notes")
	assert.Equal(t, a, StableID("APP", " Notes "))
	assert.NotEqual(t, a, StableID("document", "Notes"))
	assert.NotEqual(t, a, StableID("app", "notes"))

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	items, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadIntoPalette(t *testing.T) {
	items, err := Parse([]byte(sample), "test.toml")
	require.NoError(t, err)

	p := palette.New()
	require.NoError(t, p.Replace(Source, items))

	results := p.Search("resume", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "Resume.pdf", results[0].Item.Name)
}
