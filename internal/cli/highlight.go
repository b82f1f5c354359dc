package cli

import (
	"github.com/spf13/cobra"

	"github.com/brainbreezegames-lang/meos/internal/input/fuzzy"
	"github.com/brainbreezegames-lang/meos/internal/render"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <query> <text>",
	Short: "Show how a query matches a piece of text",
	Args:  cobra.ExactArgs(2),
	RunE:  runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	query, text := args[0], args[1]

	m, ok := fuzzy.Match(query, text)
	if !ok {
		cmd.Println("No match.")
		return nil
	}

	theme := render.DefaultTheme()
	if cfg != nil {
		theme = render.NewTheme(cfg.Theme.Highlight, cfg.Theme.Muted, cfg.Theme.Accent)
	}
	styles := render.NewStyles(theme, cmd.OutOrStdout())

	cmd.Println(styles.HighlightText(text, m.Matches))
	cmd.Printf("score %d, matches %v\n", m.Score, m.Matches)
	return nil
}
