package fuzzy

import "fmt"

// Segment is a run of text that is either entirely matched or entirely
// unmatched.
type Segment struct {
	Text        string
	Highlighted bool
}

// Highlight splits text into alternating matched and unmatched segments.
// matches holds rune indices as returned by Match. Concatenating the
// segments reproduces text exactly.
//
// Highlight panics if an index is outside text.
func Highlight(text string, matches []int) []Segment {
	if len(matches) == 0 {
		return []Segment{{Text: text, Highlighted: false}}
	}

	runes := []rune(text)
	matched := make([]bool, len(runes))
	for _, idx := range matches {
		if idx < 0 || idx >= len(runes) {
			panic(fmt.Sprintf("fuzzy: highlight index %d out of range [0,%d)", idx, len(runes)))
		}
		matched[idx] = true
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && matched[i] == matched[start] {
			continue
		}
		segments = append(segments, Segment{
			Text:        string(runes[start:i]),
			Highlighted: matched[start],
		})
		start = i
	}

	return segments
}
