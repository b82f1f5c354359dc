package cli

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brainbreezegames-lang/meos/internal/input/palette"
)

// watchWait bounds how long watch waits for the results of one query.
const watchWait = 2 * time.Second

var watchLimit int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Search interactively, one query per line",
	Long: `Reads queries from standard input and prints ranked results for each.
Lines starting with ":open <id>" record an item as opened and ":q" quits.
When catalog watching is enabled the catalog is reloaded as it changes.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&watchLimit, "limit", "n", 10, "maximum number of results per query")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}

	live := palette.NewLiveSearch(a, watchLimit, a.Config().Search.Debounce.Duration)
	defer live.Close()

	if w := a.Watcher(); w != nil {
		cmd.Printf("Watching %s\n", w.Path())
	}

	in := cmd.InOrStdin()
	prompt := isTerminal(in)

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case line == ":q":
			return nil

		case strings.HasPrefix(line, ":open "):
			id := strings.TrimSpace(strings.TrimPrefix(line, ":open "))
			item, err := a.OpenItem(cmd.Context(), id)
			if err != nil {
				cmd.Printf("error: %v\n", err)
				continue
			}
			cmd.Printf("Opened %s\n", item.Name)

		default:
			live.Update(line)
			snap, ok := awaitSnapshot(live, line, watchWait)
			if !ok {
				cmd.Println("(timed out)")
				continue
			}
			if err := outputSearchTable(cmd, a.Styles(), snap.Results); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// awaitSnapshot returns the first snapshot for query.
func awaitSnapshot(live *palette.LiveSearch, query string, timeout time.Duration) (palette.Snapshot, bool) {
	deadline := time.After(timeout)
	for {
		select {
		case snap, ok := <-live.Results():
			if !ok {
				return palette.Snapshot{}, false
			}
			if snap.Query == query {
				return snap, true
			}
		case <-deadline:
			return palette.Snapshot{}, false
		}
	}
}
