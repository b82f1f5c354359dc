package usage

import "sync"

// DefaultMaxRecent is the history capacity used when none is configured.
const DefaultMaxRecent = 20

// History tracks recently opened item ids.
// Ids are stored in most-recently-used order.
type History struct {
	mu       sync.Mutex
	items    []string
	maxItems int
}

// NewHistory creates a history with the given capacity.
func NewHistory(maxItems int) *History {
	if maxItems <= 0 {
		maxItems = DefaultMaxRecent
	}
	return &History{
		items:    make([]string, 0, maxItems),
		maxItems: maxItems,
	}
}

// Add records an id.
// If the id was already in history, it is moved to the front.
func (h *History) Add(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(id)

	h.items = append(h.items, "")
	copy(h.items[1:], h.items)
	h.items[0] = id

	if len(h.items) > h.maxItems {
		h.items = h.items[:h.maxItems]
	}
}

// Recent returns up to limit ids, most recent first.
// A limit of zero or less returns all of them.
func (h *History) Recent(limit int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.items) {
		limit = len(h.items)
	}

	result := make([]string, limit)
	copy(result, h.items[:limit])
	return result
}

// Contains checks if an id is in history.
func (h *History) Contains(id string) bool {
	return h.Position(id) >= 0
}

// Position returns the position of an id in history (0 = most recent).
// Returns -1 if not found.
func (h *History) Position(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, item := range h.items {
		if item == id {
			return i
		}
	}
	return -1
}

// Remove removes a specific id from history.
func (h *History) Remove(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.removeLocked(id)
}

func (h *History) removeLocked(id string) bool {
	for i, item := range h.items {
		if item == id {
			h.items = append(h.items[:i], h.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all history entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = h.items[:0]
}

// Len returns the number of ids in history.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Cap returns the history capacity.
func (h *History) Cap() int {
	return h.maxItems
}

// replace overwrites the history with ids, oldest entries trimmed.
func (h *History) replace(ids []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = h.items[:0]
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		h.items = append(h.items, id)
		if len(h.items) == h.maxItems {
			break
		}
	}
}
