package usage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	MemoryStore
	loadErr error
	saveErr error
}

func (s *failingStore) Load(ctx context.Context) (Snapshot, error) {
	if s.loadErr != nil {
		return Snapshot{}, s.loadErr
	}
	return s.MemoryStore.Load(ctx)
}

func (s *failingStore) Save(ctx context.Context, snap Snapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(ctx, snap)
}

func TestTracker_Record(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(nil, 10)

	require.NoError(t, tr.Record(ctx, "settings"))
	require.NoError(t, tr.Record(ctx, "blog"))
	require.NoError(t, tr.Record(ctx, "settings"))

	assert.Equal(t, []string{"settings", "blog"}, tr.RecentIDs())
	assert.Equal(t, map[string]int{"settings": 2, "blog": 1}, tr.Frequencies())
	assert.Equal(t, 2, tr.Count("settings"))
}

func TestTracker_FrequenciesIsCopy(t *testing.T) {
	tr := NewTracker(nil, 10)
	require.NoError(t, tr.Record(context.Background(), "a"))

	f := tr.Frequencies()
	f["a"] = 100

	assert.Equal(t, 1, tr.Count("a"))
}

func TestTracker_PersistsAndLoads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	tr := NewTracker(store, 10)
	require.NoError(t, tr.Record(ctx, "a"))
	require.NoError(t, tr.Record(ctx, "b"))

	reloaded := NewTracker(store, 10)
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, []string{"b", "a"}, reloaded.RecentIDs())
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, reloaded.Frequencies())
}

func TestTracker_LoadTrimsToCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Snapshot{
		Recent: []string{"a", "b", "c", "d"},
		Counts: map[string]int{"a": 3, "z": 0},
	}))

	tr := NewTracker(store, 2)
	require.NoError(t, tr.Load(ctx))

	assert.Equal(t, []string{"a", "b"}, tr.RecentIDs())
	assert.Equal(t, map[string]int{"a": 3}, tr.Frequencies())
}

func TestTracker_ForgetAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr := NewTracker(store, 10)

	require.NoError(t, tr.Record(ctx, "a"))
	require.NoError(t, tr.Record(ctx, "b"))
	require.NoError(t, tr.Forget(ctx, "a"))
	require.NoError(t, tr.Forget(ctx, "missing"))

	assert.Equal(t, []string{"b"}, tr.RecentIDs())
	assert.Zero(t, tr.Count("a"))

	require.NoError(t, tr.Reset(ctx))
	assert.Empty(t, tr.RecentIDs())
	assert.Empty(t, tr.Frequencies())

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Recent)
}

func TestTracker_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tr := NewTracker(&failingStore{saveErr: boom}, 10)
	err := tr.Record(ctx, "a")
	assert.ErrorIs(t, err, boom)
	// In-memory state still reflects the open
	assert.Equal(t, []string{"a"}, tr.RecentIDs())

	tr = NewTracker(&failingStore{loadErr: boom}, 10)
	assert.ErrorIs(t, tr.Load(ctx), boom)
}

func TestTracker_ConcurrentRecordPersistsLatest(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "usage.toml"))
	tr := NewTracker(store, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				assert.NoError(t, tr.Record(ctx, "shared"))
			}
		}()
	}
	wg.Wait()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, snap.Counts["shared"])
}
