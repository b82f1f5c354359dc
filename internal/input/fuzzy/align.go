package fuzzy

// Local weights used only to choose between candidate alignments.
const (
	alignLeadingPenalty = 2
	alignAdjacentBonus  = 10
	alignGapPenalty     = 2
	alignBoundaryBonus  = 5
)

type cellState uint8

const (
	cellUnknown cellState = iota
	cellSolved
	cellDead
)

// cell memoizes the best continuation from one (queryIdx, textIdx) state.
type cell struct {
	state cellState
	score int
	next  int
}

// search finds the best-scoring alignment of a query inside a text.
// State (qi, ti) means query[qi:] remains to be placed at positions >= ti,
// with the previous match at ti-1 when qi > 0.
type search struct {
	query    []rune
	original []rune
	text     []rune
	width    int
	memo     []cell
}

func newSearch(queryRunes, originalRunes, textRunes []rune) *search {
	width := len(textRunes) + 1
	return &search{
		query:    queryRunes,
		original: originalRunes,
		text:     textRunes,
		width:    width,
		memo:     make([]cell, (len(queryRunes)+1)*width),
	}
}

// align returns the matched indices of the best alignment.
func (s *search) align() ([]int, bool) {
	if _, ok := s.solve(0, 0); !ok {
		return nil, false
	}

	matches := make([]int, 0, len(s.query))
	qi, ti := 0, 0
	for qi < len(s.query) {
		j := s.memo[qi*s.width+ti].next
		matches = append(matches, j)
		qi, ti = qi+1, j+1
	}
	return matches, true
}

// solve returns the best local score for placing query[qi:] at or after ti.
func (s *search) solve(qi, ti int) (int, bool) {
	if qi == len(s.query) {
		return 0, true
	}

	c := &s.memo[qi*s.width+ti]
	switch c.state {
	case cellSolved:
		return c.score, true
	case cellDead:
		return 0, false
	}

	remaining := len(s.query) - qi
	found := false
	best, bestNext := 0, -1

	for j := ti; j+remaining <= len(s.text); j++ {
		if s.text[j] != s.query[qi] {
			continue
		}
		rest, ok := s.solve(qi+1, j+1)
		if !ok {
			continue
		}

		score := rest
		if qi == 0 {
			score -= alignLeadingPenalty * j
		} else if j == ti {
			score += alignAdjacentBonus
		} else {
			score -= alignGapPenalty * (j - ti)
		}
		if IsWordBoundary(s.original, j) {
			score += alignBoundaryBonus
		}

		// Strict comparison keeps the earliest occurrence on ties
		if !found || score > best {
			found = true
			best, bestNext = score, j
		}
	}

	if !found {
		c.state = cellDead
		return 0, false
	}
	c.state = cellSolved
	c.score = best
	c.next = bestNext
	return best, true
}
