package fuzzy

import "unicode"

// Final scoring weights.
const (
	exactMatchBase    = 100
	prefixBonus       = 80
	positionBonusMax  = 20
	positionPenalty   = 2
	consecutiveBonus  = 15
	gapPenalty        = 3
	wordBoundaryBonus = 10
	lengthBonusMax    = 10
)

// Score computes the final relevance score for matched rune indices inside
// text. queryLen is the number of query runes. matches must be non-empty.
func Score(text []rune, queryLen int, matches []int) int {
	if len(matches) == 0 {
		return 0
	}

	score := 0
	first := matches[0]

	if first == 0 {
		score += prefixBonus
	}
	score += max(0, positionBonusMax-positionPenalty*first)

	for i := 1; i < len(matches); i++ {
		gap := matches[i] - matches[i-1] - 1
		if gap == 0 {
			score += consecutiveBonus
		} else {
			score -= gapPenalty * gap
		}
	}

	for _, idx := range matches {
		if IsWordBoundary(text, idx) {
			score += wordBoundaryBonus
		}
	}

	// Shorter targets with the same match win slightly
	score += max(0, lengthBonusMax-(len(text)-queryLen))

	return score
}

// IsWordBoundary reports whether the rune at idx starts a word.
// Index 0 is always a boundary. Otherwise the previous rune must be a
// separator, or the position must be a lower-to-upper camelCase transition.
func IsWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx < 0 || idx >= len(runes) {
		return false
	}

	prevChar := runes[idx-1]
	currChar := runes[idx]

	switch prevChar {
	case ' ', '-', '_', '/':
		return true
	}

	return unicode.IsLower(prevChar) && unicode.IsUpper(currChar)
}
