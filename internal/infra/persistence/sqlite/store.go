// Package sqlite provides a SQLite-backed persistent store. It reuses the
// in-memory implementation for session semantics and snapshots every table
// to a single state table as JSON after each successful apply.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"viewcore/internal/infra/persistence/memory"
	"viewcore/pkg/query"
	"viewcore/pkg/record"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion.
var _ query.Store = (*Store)(nil)

// Store persists committed state to a single SQLite table as JSON blobs,
// one bucket per record table.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the database at path and hydrates the embedded
// in-memory store from any existing snapshot. When the snapshot is empty the
// provided initial state seeds the store.
func NewStore(path string, initial record.State) (*Store, error) {
	if path == "" {
		path = "viewcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(initial), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	state := record.State{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		table, err := memory.DecodeTable(payload)
		if err != nil {
			return fmt.Errorf("decode bucket %s: %w", bucket, err)
		}
		state[bucket] = table
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(state) == 0 {
		return nil
	}
	return s.Store.ImportState(state)
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.Store.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.Exec(`DELETE FROM state`); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	for _, bucket := range memory.Buckets(state) {
		payload, err := memory.EncodeTable(state[bucket])
		if err != nil {
			return fmt.Errorf("encode bucket %s: %w", bucket, err)
		}
		if _, err := tx.Exec(`INSERT INTO state (bucket, payload) VALUES (?, ?)`, bucket, payload); err != nil {
			return fmt.Errorf("insert bucket %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

// Apply delegates to the in-memory store and snapshots to SQLite when the
// session succeeds.
func (s *Store) Apply(ctx context.Context, fn func(*query.Session) error) ([]query.LoggedMutation, error) {
	applied, err := s.Store.Apply(ctx, fn)
	if err != nil {
		return applied, err
	}
	if err := s.persist(); err != nil {
		return applied, err
	}
	return applied, nil
}

// ImportState replaces committed state and snapshots it immediately.
func (s *Store) ImportState(state record.State) error {
	if err := s.Store.ImportState(state); err != nil {
		return err
	}
	return s.persist()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}
