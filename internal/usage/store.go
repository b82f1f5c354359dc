package usage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Store kinds accepted by Open.
const (
	StoreMemory = "memory"
	StoreTOML   = "toml"
	StoreSQLite = "sqlite"
)

// ErrUnknownStore is returned by Open for an unsupported store kind.
var ErrUnknownStore = errors.New("unknown usage store")

// Snapshot is the persisted usage state.
type Snapshot struct {
	// Recent lists item ids, most recent first.
	Recent []string `toml:"recent"`

	// Counts maps item ids to how many times they were opened.
	Counts map[string]int `toml:"counts"`
}

// Store persists usage snapshots.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}

// Open creates a store of the given kind. path is ignored for memory stores.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreTOML:
		return NewFileStore(path), nil
	case StoreSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, kind)
	}
}

// MemoryStore keeps the snapshot in memory.
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored snapshot.
func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone(), nil
}

// Save replaces the stored snapshot.
func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.clone()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// FileStore keeps the snapshot in a TOML file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the TOML file at path.
// If path is empty, defaults to ~/.meos/usage.toml.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = defaultPath("usage.toml")
	}
	return &FileStore{path: path}
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("reading usage file %s: %w", s.path, err)
	}

	var snap Snapshot
	if err := toml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing usage file %s: %w", s.path, err)
	}
	return snap, nil
}

// Save writes the snapshot atomically through a temp file.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding usage: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating usage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".usage-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing usage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing usage file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing usage file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

func (s Snapshot) clone() Snapshot {
	c := Snapshot{Recent: append([]string(nil), s.Recent...)}
	if s.Counts != nil {
		c.Counts = make(map[string]int, len(s.Counts))
		for k, v := range s.Counts {
			c.Counts[k] = v
		}
	}
	return c
}

// defaultPath returns name inside ~/.meos, or the working directory if
// the home directory is unknown.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".meos", name)
}
