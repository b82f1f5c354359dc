package palette

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the delay LiveSearch waits for typing to settle.
const DefaultDebounce = 30 * time.Millisecond

// Searcher ranks items for a query. *Palette implements it.
type Searcher interface {
	Search(query string, limit int) []Result
}

// Snapshot is the ranked output for one query.
type Snapshot struct {
	Query   string
	Results []Result
}

// LiveSearch runs searches off the caller's goroutine as the user types.
// Each Update cancels the pending or running search for the previous
// query, so only the latest query's results are delivered.
type LiveSearch struct {
	searcher Searcher
	limit    int
	delay    time.Duration

	mu        sync.Mutex
	cancel    context.CancelFunc
	timer     *time.Timer
	lastQuery string
	closed    bool

	results chan Snapshot
	wg      sync.WaitGroup
}

// NewLiveSearch creates a live search over searcher.
// A delay of zero or less uses DefaultDebounce.
// Panics if searcher is nil.
func NewLiveSearch(searcher Searcher, limit int, delay time.Duration) *LiveSearch {
	if searcher == nil {
		panic("palette: NewLiveSearch called with nil searcher")
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &LiveSearch{
		searcher: searcher,
		limit:    limit,
		delay:    delay,
		results:  make(chan Snapshot, 1),
	}
}

// Update schedules a search for query, superseding any earlier query.
func (l *LiveSearch) Update(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.lastQuery = query

	l.wg.Add(1)
	l.timer = time.AfterFunc(l.delay, func() {
		defer l.wg.Done()
		l.run(ctx, query)
	})
}

// Results returns the channel of result snapshots. Only the newest
// undelivered snapshot is kept. The channel is closed by Close.
func (l *LiveSearch) Results() <-chan Snapshot {
	return l.results
}

// LastQuery returns the most recent query string.
func (l *LiveSearch) LastQuery() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastQuery
}

// Close cancels pending work and closes the results channel.
func (l *LiveSearch) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.stopLocked()
	l.mu.Unlock()

	l.wg.Wait()
	close(l.results)
}

// stopLocked cancels the current search. Must be called with lock held.
func (l *LiveSearch) stopLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.timer != nil && l.timer.Stop() {
		// The callback will never run
		l.wg.Done()
	}
	l.timer = nil
}

func (l *LiveSearch) run(ctx context.Context, query string) {
	if ctx.Err() != nil {
		return
	}

	results := l.searcher.Search(query, l.limit)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || ctx.Err() != nil {
		return
	}

	snap := Snapshot{Query: query, Results: results}
	select {
	case l.results <- snap:
	default:
		// Replace the stale undelivered snapshot
		select {
		case <-l.results:
		default:
		}
		l.results <- snap
	}
}
