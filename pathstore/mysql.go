package pathstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL is a MySQL/MariaDB-backed Store for production deployments that
// need a shared store across multiple matcher processes, one row per
// canonical path step.
type MySQL struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewMySQL opens a MySQL connection using dsn (the standard
// go-sql-driver/mysql DSN format) and ensures the matched_paths table
// exists.
func NewMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("pathstore: open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pathstore: ping mysql: %w", err)
	}

	s := &MySQL{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQL) createTables(ctx context.Context) error {
	const schemaSQL = `
		CREATE TABLE IF NOT EXISTS matched_paths (
			doc_id      VARCHAR(255) NOT NULL,
			step_index  INT NOT NULL,
			schema_id   VARCHAR(255) NOT NULL,
			direction   INT NOT NULL,
			iteration   INT NOT NULL,
			PRIMARY KEY (doc_id, step_index)
		) ENGINE=InnoDB
	`
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("pathstore: create matched_paths table: %w", err)
	}
	return nil
}

// SavePath replaces any path stored for docID with steps, in one
// transaction.
func (s *MySQL) SavePath(ctx context.Context, docID string, steps []Step) error {
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

// LoadPath retrieves the steps stored for docID in step_index order, or
// ErrNotFound if none exist.
func (s *MySQL) LoadPath(ctx context.Context, docID string) ([]Step, error) {
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

// Close closes the underlying connection pool.
func (s *MySQL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
