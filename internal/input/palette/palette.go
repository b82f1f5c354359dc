package palette

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidItem is returned when an item is missing required fields.
	ErrInvalidItem = errors.New("invalid item")

	// ErrUnknownItem is returned when an id is not registered.
	ErrUnknownItem = errors.New("unknown item")
)

// Usage supplies the recency and frequency signals used to boost results,
// and records when an item is opened.
type Usage interface {
	RecentIDs() []string
	Frequencies() map[string]int
	Record(ctx context.Context, id string) error
}

// Palette provides searchable access to desktop items.
type Palette struct {
	mu         sync.RWMutex
	items      []*Item
	index      map[string]int
	usage      Usage
	maxResults int

	// onChange callbacks are called when items are added/removed.
	onChange []func()
}

// Option configures a Palette.
type Option func(*Palette)

// WithUsage sets the usage signals source.
func WithUsage(u Usage) Option {
	return func(p *Palette) {
		p.usage = u
	}
}

// WithMaxResults sets the default result budget for Search.
func WithMaxResults(n int) Option {
	return func(p *Palette) {
		p.maxResults = n
	}
}

// New creates a new palette.
func New(opts ...Option) *Palette {
	p := &Palette{
		index:      make(map[string]int),
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds an item to the palette.
// If an item with the same ID exists, it is replaced in place.
func (p *Palette) Register(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item cannot be nil", ErrInvalidItem)
	}
	if err := item.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.put(item.clone())
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// RegisterAll adds multiple items to the palette.
// Items are validated up front; nothing is registered if any is invalid.
func (p *Palette) RegisterAll(items []*Item) error {
	for _, item := range items {
		if item == nil {
			return fmt.Errorf("%w: item cannot be nil", ErrInvalidItem)
		}
		if err := item.Validate(); err != nil {
			return err
		}
	}

	p.mu.Lock()
	for _, item := range items {
		p.put(item.clone())
	}
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// Replace swaps every item registered by source for items, which are
// tagged with that source.
func (p *Palette) Replace(source string, items []Item) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.removeWhere(func(it *Item) bool { return it.Source == source })
	for i := range items {
		c := items[i].clone()
		c.Source = source
		p.put(c)
	}
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// Unregister removes an item from the palette.
func (p *Palette) Unregister(id string) bool {
	p.mu.Lock()
	removed := p.removeWhere(func(it *Item) bool { return it.ID == id })
	p.mu.Unlock()

	if removed > 0 {
		p.notifyChange()
	}
	return removed > 0
}

// UnregisterBySource removes all items from a specific source.
func (p *Palette) UnregisterBySource(source string) int {
	p.mu.Lock()
	count := p.removeWhere(func(it *Item) bool { return it.Source == source })
	p.mu.Unlock()

	if count > 0 {
		p.notifyChange()
	}
	return count
}

// put inserts or replaces an item. Must be called with lock held.
func (p *Palette) put(item *Item) {
	if i, ok := p.index[item.ID]; ok {
		p.items[i] = item
		return
	}
	p.index[item.ID] = len(p.items)
	p.items = append(p.items, item)
}

// removeWhere drops matching items and rebuilds the index.
// Must be called with lock held.
func (p *Palette) removeWhere(match func(*Item) bool) int {
	kept := p.items[:0]
	removed := 0
	for _, it := range p.items {
		if match(it) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(p.items); i++ {
		p.items[i] = nil
	}
	p.items = kept

	if removed > 0 {
		p.index = make(map[string]int, len(p.items))
		for i, it := range p.items {
			p.index[it.ID] = i
		}
	}
	return removed
}

// Get retrieves an item by ID.
func (p *Palette) Get(id string) *Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i, ok := p.index[id]; ok {
		return p.items[i]
	}
	return nil
}

// Has checks if an item exists.
func (p *Palette) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, exists := p.index[id]
	return exists
}

// All returns all registered items in registration order.
func (p *Palette) All() []*Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*Item, len(p.items))
	copy(result, p.items)
	return result
}

// Count returns the number of registered items.
func (p *Palette) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// snapshot copies the registered items for a lock-free search.
func (p *Palette) snapshot() []Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	items := make([]Item, len(p.items))
	for i, it := range p.items {
		items[i] = *it
	}
	return items
}

// Search ranks registered items against query, boosted by usage.
// A limit of zero uses the palette's default result budget.
func (p *Palette) Search(query string, limit int) []Result {
	if limit <= 0 {
		limit = p.maxResults
	}

	opts := Options{MaxResults: limit}
	if p.usage != nil {
		opts.RecentIDs = p.usage.RecentIDs()
		opts.Frequent = p.usage.Frequencies()
	}

	return Search(query, p.snapshot(), opts)
}

// Open marks an item as used so later searches favor it.
func (p *Palette) Open(ctx context.Context, id string) error {
	_, err := p.OpenItem(ctx, id)
	return err
}

// OpenItem is Open but also returns a copy of the opened item, so callers
// keep a usable value even if the item is replaced right after.
func (p *Palette) OpenItem(ctx context.Context, id string) (Item, error) {
	p.mu.RLock()
	i, ok := p.index[id]
	var item Item
	if ok {
		item = *p.items[i].clone()
	}
	p.mu.RUnlock()

	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if p.usage == nil {
		return item, nil
	}
	if err := p.usage.Record(ctx, id); err != nil {
		return Item{}, fmt.Errorf("recording use of %s: %w", id, err)
	}
	return item, nil
}

// Types returns all unique item types.
func (p *Palette) Types() []string {
	return Types(p.All())
}

// ItemsByType returns items of the specified type in registration order.
func (p *Palette) ItemsByType(itemType string) []*Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*Item, 0)
	for _, it := range p.items {
		if it.Type == itemType {
			result = append(result, it)
		}
	}
	return result
}

// OnChange registers a callback for item list changes.
// Callbacks are invoked after registration/unregistration without locks
// held, so they may read the palette but should not register items.
func (p *Palette) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// notifyChange calls all registered change callbacks.
func (p *Palette) notifyChange() {
	p.mu.RLock()
	callbacks := make([]func(), len(p.onChange))
	copy(callbacks, p.onChange)
	p.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Clear removes all items.
func (p *Palette) Clear() {
	p.mu.Lock()
	p.items = nil
	p.index = make(map[string]int)
	p.mu.Unlock()

	p.notifyChange()
}
