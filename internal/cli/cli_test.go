package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbreezegames-lang/meos/internal/input/palette"
)

const testCatalog = `
[[item]]
id = "settings"
name = "Settings"
type = "app"
keywords = ["preferences"]

[[item]]
id = "theme"
name = "Set Theme"
type = "command"

[[item]]
id = "weather"
name = "Weather Widget"
type = "widget"
keywords = ["forecast"]
`

// setupTestConfig writes a config with a catalog and a file-backed usage
// store and returns its path.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "items.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))

	content := fmt.Sprintf(`
[usage]
store = "toml"
path = %q

[catalog]
path = %q

[log]
level = "error"
`, filepath.Join(dir, "usage.toml"), catalogPath)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	searchLimit, searchJSON = 0, false
	recentLimit, recentClear = 10, false
	watchLimit = 10
	cfgFile, verbose = "", false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := Execute()
	return buf.String(), err
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	flag = rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"search", "open", "recent", "highlight", "watch", "version"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := execute(t, "", "version", "--config", setupTestConfig(t))

	assert.NoError(t, err)
	assert.Contains(t, out, "meos version test-version-1.0.0")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)

	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
}

func TestSearchCmd_RanksResults(t *testing.T) {
	cfgPath := setupTestConfig(t)

	out, err := execute(t, "", "search", "set", "-c", cfgPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Settings")
	assert.Contains(t, lines[0], "[app] 145")
	assert.Contains(t, lines[1], "Set Theme")
}

func TestSearchCmd_NoResults(t *testing.T) {
	out, err := execute(t, "", "search", "zzz", "-c", setupTestConfig(t))

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_TooManyArgs(t *testing.T) {
	_, err := execute(t, "", "search", "a", "b", "-c", setupTestConfig(t))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestSearchCmd_JSON(t *testing.T) {
	out, err := execute(t, "", "search", "forecast", "--json", "-c", setupTestConfig(t))
	require.NoError(t, err)

	var results []jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "weather", results[0].ID)
	assert.Equal(t, "catalog", results[0].Source)
	assert.NotNil(t, results[0].Matches)
	assert.Empty(t, results[0].Matches)
}

func TestSearchCmd_Limit(t *testing.T) {
	out, err := execute(t, "", "search", "e", "--limit", "1", "-c", setupTestConfig(t))
	require.NoError(t, err)

	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestOpenCmd_BoostsLaterSearches(t *testing.T) {
	cfgPath := setupTestConfig(t)

	out, err := execute(t, "", "open", "theme", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Set Theme (theme)")

	out, err = execute(t, "", "search", "set", "-c", cfgPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Set Theme")

	out, err = execute(t, "", "search", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Set Theme")
	assert.NotContains(t, out, "Settings")
}

func TestOpenCmd_UnknownItem(t *testing.T) {
	_, err := execute(t, "", "open", "missing", "-c", setupTestConfig(t))

	assert.ErrorIs(t, err, palette.ErrUnknownItem)
}

func TestRecentCmd(t *testing.T) {
	cfgPath := setupTestConfig(t)

	out, err := execute(t, "", "recent", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing opened yet.")

	_, err = execute(t, "", "open", "settings", "-c", cfgPath)
	require.NoError(t, err)
	_, err = execute(t, "", "open", "weather", "-c", cfgPath)
	require.NoError(t, err)
	_, err = execute(t, "", "open", "weather", "-c", cfgPath)
	require.NoError(t, err)

	out, err = execute(t, "", "recent", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, " 1. Weather Widget  (opened 2 times)\n 2. Settings  (opened 1 times)\n", out)

	out, err = execute(t, "", "recent", "--clear", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage history cleared.")

	out, err = execute(t, "", "recent", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing opened yet.")
}

func TestHighlightCmd(t *testing.T) {
	cfgPath := setupTestConfig(t)

	out, err := execute(t, "", "highlight", "gub", "getUserById", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "getUserById\n")
	assert.Contains(t, out, "matches [0 3 7]")

	out, err = execute(t, "", "highlight", "xyz", "Settings", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No match.")
}

func TestHighlightCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "", "highlight", "only", "-c", setupTestConfig(t))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestWatchCmd(t *testing.T) {
	cfgPath := setupTestConfig(t)

	out, err := execute(t, "set\n:open theme\n:open nope\n\n:q\nweather\n", "watch", "-c", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, "Opened Set Theme")
	assert.Contains(t, out, "error: unknown item")
	assert.NotContains(t, out, "Weather Widget", "input after :q is ignored")

	// The empty query lists the item opened during the session
	idx := strings.Index(out, "Opened Set Theme")
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, out[idx:], "Set Theme  [command] 0")
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search]\nmax_results = -1\n"), 0o644))

	_, err := execute(t, "", "search", "x", "-c", path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search.max_results")
}
