package cli

import (
	"github.com/spf13/cobra"
)

var (
	recentLimit int
	recentClear bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened items",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "maximum number of items")
	recentCmd.Flags().BoolVar(&recentClear, "clear", false, "forget all usage history")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	tracker := a.Tracker()

	if recentClear {
		if err := tracker.Reset(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Usage history cleared.")
		return nil
	}

	ids := tracker.RecentIDs()
	if recentLimit > 0 && len(ids) > recentLimit {
		ids = ids[:recentLimit]
	}
	if len(ids) == 0 {
		cmd.Println("Nothing opened yet.")
		return nil
	}

	for i, id := range ids {
		name := id
		if item := a.Palette().Get(id); item != nil {
			name = item.Name
		}
		cmd.Printf("%2d. %s  (opened %d times)\n", i+1, name, tracker.Count(id))
	}
	return nil
}
