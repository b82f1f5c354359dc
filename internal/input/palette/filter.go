package palette

import (
	"sort"

	"github.com/brainbreezegames-lang/meos/internal/input/fuzzy"
)

// DefaultMaxResults is the result budget used when Options.MaxResults is unset.
const DefaultMaxResults = 50

// Boost limits.
const (
	recencyBonusMax    = 20
	recencyStep        = 2
	frequencyStep      = 2
	frequencyBonusMax  = 20
	keywordScoreFactor = 0.7
)

// Result is a ranked item.
type Result struct {
	// Item points at the matched item in the searched slice.
	Item *Item

	// Score is the boosted relevance score (higher is better).
	Score float64

	// Matches contains rune indices of matched characters in Item.Name.
	// It is empty when the item matched through a keyword.
	Matches []int
}

// Segments splits the item name into highlighted and plain runs.
func (r Result) Segments() []fuzzy.Segment {
	return fuzzy.Highlight(r.Item.Name, r.Matches)
}

// Options carries the usage signals and result budget for Search.
type Options struct {
	// MaxResults caps the number of results. Zero or negative means
	// DefaultMaxResults.
	MaxResults int

	// RecentIDs lists item ids, most recent first.
	RecentIDs []string

	// Frequent maps item ids to how often they were used. Counts are not
	// clamped; see FrequencyBonus.
	Frequent map[string]int
}

func (o Options) limit() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// recentPositions maps each id to its first position in RecentIDs.
func (o Options) recentPositions() map[string]int {
	positions := make(map[string]int, len(o.RecentIDs))
	for i, id := range o.RecentIDs {
		if _, ok := positions[id]; !ok {
			positions[id] = i
		}
	}
	return positions
}

// Search ranks items against query.
//
// With an empty query only recently used items are returned, in recency
// order, each with a zero score. Otherwise each item is matched by name,
// falling back to the first matching keyword at a reduced score. Name
// matches are boosted by recency and frequency. Results are sorted by
// score, ties keeping input order, and truncated to the result budget.
func Search(query string, items []Item, opts Options) []Result {
	positions := opts.recentPositions()

	if query == "" {
		return recentResults(items, positions, opts.limit())
	}

	results := make([]Result, 0, len(items))
	for i := range items {
		item := &items[i]

		if m, ok := fuzzy.Match(query, item.Name); ok {
			score := m.Score + RecencyBonus(positions, item.ID) + FrequencyBonus(opts.Frequent, item.ID)
			results = append(results, Result{
				Item:    item,
				Score:   float64(score),
				Matches: m.Matches,
			})
			continue
		}

		for _, kw := range item.Keywords {
			if m, ok := fuzzy.Match(query, kw); ok {
				results = append(results, Result{
					Item:    item,
					Score:   float64(m.Score) * keywordScoreFactor,
					Matches: []int{},
				})
				break
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return applyLimit(results, opts.limit())
}

// RecencyBonus rewards items by how recently they were used.
func RecencyBonus(positions map[string]int, id string) int {
	pos, ok := positions[id]
	if !ok {
		return 0
	}
	return max(0, recencyBonusMax-recencyStep*pos)
}

// FrequencyBonus rewards items by how often they were used, capped.
// Counts are taken as given, so a negative count lowers the score.
func FrequencyBonus(frequent map[string]int, id string) int {
	return min(frequencyStep*frequent[id], frequencyBonusMax)
}

// recentResults returns the items present in the recent list, most recent first.
func recentResults(items []Item, positions map[string]int, limit int) []Result {
	results := make([]Result, 0, len(positions))
	order := make([]int, 0, len(positions))

	for i := range items {
		pos, ok := positions[items[i].ID]
		if !ok {
			continue
		}
		results = append(results, Result{
			Item:    &items[i],
			Score:   0,
			Matches: []int{},
		})
		order = append(order, pos)
	}

	sort.Stable(byRecency{results: results, order: order})

	return applyLimit(results, limit)
}

// byRecency sorts results by their recent-list position.
type byRecency struct {
	results []Result
	order   []int
}

func (b byRecency) Len() int           { return len(b.results) }
func (b byRecency) Less(i, j int) bool { return b.order[i] < b.order[j] }
func (b byRecency) Swap(i, j int) {
	b.results[i], b.results[j] = b.results[j], b.results[i]
	b.order[i], b.order[j] = b.order[j], b.order[i]
}

// applyLimit returns at most limit results.
func applyLimit(results []Result, limit int) []Result {
	if limit <= 0 || limit >= len(results) {
		return results
	}
	return results[:limit]
}

// Types returns all unique item types, sorted.
func Types(items []*Item) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, it := range items {
		if it.Type != "" && !seen[it.Type] {
			seen[it.Type] = true
			result = append(result, it.Type)
		}
	}

	sort.Strings(result)
	return result
}
