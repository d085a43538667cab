package pathstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLite is a SQLite-backed Store: a single-file database requiring no
// setup, one row per canonical path step.
//
// Schema:
//   - matched_paths: one row per (doc_id, step_index), storing the
//     schema ID, direction, and iteration at that step.
type SQLite struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewSQLite opens (creating if necessary) a SQLite database at path and
// ensures its schema exists. Pass ":memory:" for an ephemeral store.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("pathstore: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pathstore: %s: %w", pragma, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) createTables(ctx context.Context) error {
	const schemaSQL = `
		CREATE TABLE IF NOT EXISTS matched_paths (
			doc_id      TEXT NOT NULL,
			step_index  INTEGER NOT NULL,
			schema_id   TEXT NOT NULL,
			direction   INTEGER NOT NULL,
			iteration   INTEGER NOT NULL,
			PRIMARY KEY (doc_id, step_index)
		)
	`
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("pathstore: create matched_paths table: %w", err)
	}
	return nil
}

// SavePath replaces any path stored for docID with steps, in one
// transaction.
func (s *SQLite) SavePath(ctx context.Context, docID string, steps []Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pathstore: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM matched_paths WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("pathstore: delete existing path: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO matched_paths (doc_id, step_index, schema_id, direction, iteration) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("pathstore: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, step := range steps {
		if _, err := stmt.ExecContext(ctx, docID, i, step.SchemaID, int(step.Direction), step.Iteration); err != nil {
			return fmt.Errorf("pathstore: insert step %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadPath returns the steps stored for docID in step_index order, or
// ErrNotFound if none exist.
func (s *SQLite) LoadPath(ctx context.Context, docID string) ([]Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT schema_id, direction, iteration FROM matched_paths WHERE doc_id = ? ORDER BY step_index ASC", docID)
	if err != nil {
		return nil, fmt.Errorf("pathstore: query path: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var st Step
		var dir int
		if err := rows.Scan(&st.SchemaID, &dir, &st.Iteration); err != nil {
			return nil, fmt.Errorf("pathstore: scan step: %w", err)
		}
		st.Direction = directionOf(dir)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pathstore: iterate rows: %w", err)
	}
	if steps == nil {
		return nil, ErrNotFound
	}
	return steps, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
