// Package render formats palette results for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brainbreezegames-lang/meos/internal/input/fuzzy"
	"github.com/brainbreezegames-lang/meos/internal/input/palette"
)

// Theme defines the colours used for results.
type Theme struct {
	// Highlight colours matched characters.
	Highlight lipgloss.Color

	// Muted is for types, scores and ranks.
	Muted lipgloss.Color

	// Accent marks the top result.
	Accent lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Highlight: lipgloss.Color("#F9E2AF"), // Yellow
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Accent:    lipgloss.Color("#7C3AED"), // Purple
	}
}

// NewTheme builds a theme from colour strings. Empty values keep the
// defaults.
func NewTheme(highlight, muted, accent string) *Theme {
	t := DefaultTheme()
	if highlight != "" {
		t.Highlight = lipgloss.Color(highlight)
	}
	if muted != "" {
		t.Muted = lipgloss.Color(muted)
	}
	if accent != "" {
		t.Accent = lipgloss.Color(accent)
	}
	return t
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Highlight lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
}

// NewStyles creates styles from a theme for output to w.
// A nil theme uses DefaultTheme; a nil writer uses the default renderer.
func NewStyles(theme *Theme, w io.Writer) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	r := lipgloss.DefaultRenderer()
	if w != nil {
		r = lipgloss.NewRenderer(w)
	}

	return &Styles{
		theme: theme,

		Highlight: r.NewStyle().
			Bold(true).
			Foreground(theme.Highlight),

		Normal: r.NewStyle(),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Accent: r.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
	}
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Segments renders highlight segments, styling the matched ones.
func (s *Styles) Segments(segs []fuzzy.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Highlighted {
			b.WriteString(s.Highlight.Render(seg.Text))
		} else {
			b.WriteString(s.Normal.Render(seg.Text))
		}
	}
	return b.String()
}

// HighlightText renders text with the runes at matches highlighted.
func (s *Styles) HighlightText(text string, matches []int) string {
	return s.Segments(fuzzy.Highlight(text, matches))
}

// ResultLine formats one result: rank, highlighted name, type and score.
// Ranks start at 1.
func (s *Styles) ResultLine(rank int, r palette.Result) string {
	return s.resultLine(rank, r, 0)
}

// Results formats results one per line with the type column aligned.
func (s *Styles) Results(results []palette.Result) string {
	width := 0
	for _, r := range results {
		if w := lipgloss.Width(r.Item.Name); w > width {
			width = w
		}
	}

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = s.resultLine(i+1, r, width)
	}
	return strings.Join(lines, "\n")
}

func (s *Styles) resultLine(rank int, r palette.Result, width int) string {
	marker := s.Muted.Render(fmt.Sprintf("%2d.", rank))
	if rank == 1 {
		marker = s.Accent.Render(fmt.Sprintf("%2d.", rank))
	}

	name := s.Segments(r.Segments())
	if pad := width - lipgloss.Width(r.Item.Name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}

	itemType := r.Item.Type
	if itemType == "" {
		itemType = "-"
	}
	meta := s.Muted.Render(fmt.Sprintf("[%s] %s", itemType, FormatScore(r.Score)))

	return marker + " " + name + "  " + meta
}

// FormatScore prints whole scores without decimals and others with one.
func FormatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}
