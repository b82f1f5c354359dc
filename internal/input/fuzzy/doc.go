// Package fuzzy provides subsequence matching and highlight spans for the
// command palette.
//
// Matching is case-insensitive and works on runes. A query matches a target
// when every query character appears in the target in order. Among all such
// alignments the matcher picks the one with the best local score, then
// assembles a final relevance score from the chosen positions.
//
// # Scoring
//
// The final score favors:
//   - Matches starting at the first character of the target
//   - Early first matches
//   - Consecutive runs of matched characters
//   - Matches on word boundaries (after space, '-', '_', '/', or a camelCase hump)
//   - Targets that are not much longer than the query
//
// A case-insensitive exact match always scores 100 plus the target length.
//
// # Usage
//
//	res, ok := fuzzy.Match("set", "Settings")
//	if ok {
//	    for _, seg := range fuzzy.Highlight("Settings", res.Matches) {
//	        // render seg.Text, bold when seg.Highlighted
//	    }
//	}
//
// # Thread Safety
//
// All functions are pure. Each call to Match allocates its own memo table,
// so concurrent calls never share state.
package fuzzy
