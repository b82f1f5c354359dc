// Package palette provides the searchable command palette for the desktop.
//
// The palette gives quick keyboard access to everything on a portfolio
// desktop: apps, open windows, widgets, documents and commands. Key
// features include:
//
//   - Ranked fuzzy search over item names with keyword fallback
//   - Recency and frequency boosts from a usage source
//   - Recently used items for an empty query
//   - Item registration grouped by source (catalog, plugins)
//   - Debounced live search for per-keystroke use
//
// # Ranking
//
// Search is a pure function over a slice of items:
//
//	results := palette.Search("set", items, palette.Options{
//	    MaxResults: 10,
//	    RecentIDs:  []string{"settings"},
//	    Frequent:   map[string]int{"settings": 3},
//	})
//
// A name match scores the fuzzy match score plus a recency bonus of
// max(0, 20-2*position) and a frequency bonus of min(2*count, 20). When the
// name does not match, the first matching keyword scores 0.7 of its match
// score with no highlight. Ties keep input order.
//
// # Palette
//
// Create a palette and register items:
//
//	p := palette.New(palette.WithUsage(tracker))
//	p.Register(&palette.Item{
//	    ID:       "settings",
//	    Name:     "Settings",
//	    Type:     palette.TypeApp,
//	    Keywords: []string{"preferences", "config"},
//	})
//
//	results := p.Search("set", 10)
//	err := p.Open(ctx, "settings")
//
// # Thread Safety
//
// All palette operations are safe for concurrent use.
package palette
