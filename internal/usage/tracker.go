package usage

import (
	"context"
	"fmt"
	"sync"
)

// Tracker records which items are opened and how often, and supplies the
// recency and frequency signals used by palette ranking.
type Tracker struct {
	// saveMu orders persistence so the newest snapshot is written last
	saveMu sync.Mutex

	mu      sync.Mutex
	history *History
	counts  map[string]int
	store   Store
}

// NewTracker creates a tracker persisting through store.
// A nil store keeps usage in memory only.
func NewTracker(store Store, maxRecent int) *Tracker {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Tracker{
		history: NewHistory(maxRecent),
		counts:  make(map[string]int),
		store:   store,
	}
}

// Load replaces the in-memory state with the stored snapshot.
func (t *Tracker) Load(ctx context.Context) error {
	snap, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading usage: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.history.replace(snap.Recent)
	t.counts = make(map[string]int, len(snap.Counts))
	for id, n := range snap.Counts {
		if n > 0 {
			t.counts[id] = n
		}
	}
	return nil
}

// Record marks id as opened now and persists the new state.
func (t *Tracker) Record(ctx context.Context, id string) error {
	return t.mutate(ctx, func() bool {
		t.history.Add(id)
		t.counts[id]++
		return true
	})
}

// Forget drops all usage of id.
func (t *Tracker) Forget(ctx context.Context, id string) error {
	return t.mutate(ctx, func() bool {
		removed := t.history.Remove(id)
		if _, ok := t.counts[id]; ok {
			delete(t.counts, id)
			removed = true
		}
		return removed
	})
}

// Reset clears all usage.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.mutate(ctx, func() bool {
		t.history.Clear()
		t.counts = make(map[string]int)
		return true
	})
}

// RecentIDs returns the recently opened ids, most recent first.
func (t *Tracker) RecentIDs() []string {
	return t.history.Recent(0)
}

// Frequencies returns a copy of the open counts.
func (t *Tracker) Frequencies() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.counts))
	for id, n := range t.counts {
		out[id] = n
	}
	return out
}

// Count returns how many times id was opened.
func (t *Tracker) Count(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[id]
}

// Close closes the underlying store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		Recent: t.history.Recent(0),
		Counts: make(map[string]int, len(t.counts)),
	}
	for id, n := range t.counts {
		snap.Counts[id] = n
	}
	return snap
}

// mutate applies fn under the state lock and persists the result when fn
// reports a change.
func (t *Tracker) mutate(ctx context.Context, fn func() bool) error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	changed := fn()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if !changed {
		return nil
	}
	if err := t.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("saving usage: %w", err)
	}
	return nil
}
