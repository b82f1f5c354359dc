package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brainbreezegames-lang/meos/internal/input/palette"
	"github.com/brainbreezegames-lang/meos/internal/render"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search palette items",
	Long: `Ranks every registered item against a fuzzy query.
With no query, lists the recently opened items.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 uses the configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	results := a.Search(query, searchLimit)

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, a.Styles(), results)
}

// jsonResult is the JSON form of a search result.
type jsonResult struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type,omitempty"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score"`
	Matches []int   `json:"matches"`
}

func outputSearchJSON(cmd *cobra.Command, results []palette.Result) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			ID:      r.Item.ID,
			Name:    r.Item.Name,
			Type:    r.Item.Type,
			Source:  r.Item.Source,
			Score:   r.Score,
			Matches: r.Matches,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, styles *render.Styles, results []palette.Result) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println(styles.Results(results))
	return nil
}
