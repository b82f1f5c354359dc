package cli

import (
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Record that an item was opened",
	Long: `Marks an item as opened so it ranks higher in later searches.
Opening the window itself is left to the desktop.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}

	item, err := a.OpenItem(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Opened %s (%s)\n", item.Name, item.ID)
	return nil
}
