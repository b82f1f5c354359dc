package usage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/brainbreezegames-lang/meos/internal/usage/migrations"
)

// SQLiteStore keeps usage in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates the database at path and applies
// pending migrations. If path is empty, defaults to ~/.meos/usage.db.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = defaultPath("usage.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads recent ids in order and all counts.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id FROM recent_items ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying recent items: %w", err)
	}
	recent, err := scanRecent(rows)
	if err != nil {
		return Snapshot{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT item_id, count FROM item_counts`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying item counts: %w", err)
	}
	counts, err := scanCounts(rows)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Recent: recent, Counts: counts}, nil
}

// rowIterator is the part of *sql.Rows the scanners use.
type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

func scanRecent(rows rowIterator) ([]string, error) {
	defer rows.Close()

	var recent []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning recent item: %w", err)
		}
		recent = append(recent, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recent items: %w", err)
	}
	return recent, nil
}

func scanCounts(rows rowIterator) (map[string]int, error) {
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scanning item count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading item counts: %w", err)
	}
	return counts, nil
}

// Save replaces the stored usage in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM recent_items`); err != nil {
		return fmt.Errorf("clearing recent items: %w", err)
	}
	for i, id := range snap.Recent {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recent_items (item_id, position) VALUES (?, ?)
			 ON CONFLICT(item_id) DO NOTHING`, id, i); err != nil {
			return fmt.Errorf("saving recent item %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_counts`); err != nil {
		return fmt.Errorf("clearing item counts: %w", err)
	}
	for id, count := range snap.Counts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_counts (item_id, count) VALUES (?, ?)`, id, count); err != nil {
			return fmt.Errorf("saving count for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing usage: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *SQLiteStore) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_usage.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
