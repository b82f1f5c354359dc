package fuzzy

import "unicode"

// Result is a successful match of a query against one target.
type Result struct {
	// Score is the final relevance score (higher is better).
	Score int

	// Matches contains the rune indices of matched characters in the target,
	// one per query rune, strictly increasing.
	Matches []int
}

// Match reports whether query is a case-insensitive subsequence of target.
// When it is, the best-scoring alignment is returned with ok set to true.
// An empty query matches every target with a zero score.
func Match(query, target string) (Result, bool) {
	if query == "" {
		return Result{Score: 0, Matches: []int{}}, true
	}
	if target == "" {
		return Result{}, false
	}

	queryRunes := foldRunes([]rune(query))
	originalRunes := []rune(target)
	textRunes := foldRunes(originalRunes)

	if equalRunes(queryRunes, textRunes) {
		matches := make([]int, len(textRunes))
		for i := range matches {
			matches[i] = i
		}
		return Result{Score: exactMatchBase + len(textRunes), Matches: matches}, true
	}

	// Reject the common non-match case before paying for the alignment search
	if !feasible(queryRunes, textRunes) {
		return Result{}, false
	}

	s := newSearch(queryRunes, originalRunes, textRunes)
	matches, ok := s.align()
	if !ok {
		return Result{}, false
	}

	return Result{
		Score:   Score(originalRunes, len(queryRunes), matches),
		Matches: matches,
	}, true
}

// feasible runs a greedy left-to-right scan consuming the earliest
// occurrence of each query rune.
func feasible(queryRunes, textRunes []rune) bool {
	queryIdx := 0
	for i := 0; i < len(textRunes) && queryIdx < len(queryRunes); i++ {
		if textRunes[i] == queryRunes[queryIdx] {
			queryIdx++
		}
	}
	return queryIdx == len(queryRunes)
}

// foldRunes returns a lower-cased copy of runes. Folding per rune keeps
// indices aligned with the original text.
func foldRunes(runes []rune) []rune {
	folded := make([]rune, len(runes))
	for i, r := range runes {
		folded[i] = unicode.ToLower(r)
	}
	return folded
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
