package trace

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists trace entries to SQLite. It is suitable for
// single-process production use when a run's debug trace needs to survive
// the process and be inspected later.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite trace store.
// The path should be a file path (e.g., "./trace.db") or ":memory:" for
// testing.
//
// The database file is created with restrictive permissions (0600) since a
// trace may include node and key identifiers from a graph the caller
// considers sensitive.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Create file with restrictive permissions BEFORE sql.Open touches it.
	// This prevents a TOCTOU race where the file is briefly world-readable.
	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			f, createErr := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
			if createErr == nil {
				if closeErr := f.Close(); closeErr != nil {
					slog.Warn("failed to close trace file after creation",
						slog.String("path", path),
						slog.String("error", closeErr.Error()))
				}
			}
			// Ignore createErr - file might have been created between Stat and OpenFile (TOCTOU)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trace_entries (
			run_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			depth INTEGER NOT NULL,
			kind TEXT NOT NULL,
			node_id TEXT NOT NULL DEFAULT '',
			key_id TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, sequence)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_trace_entries_run_id
		ON trace_entries(run_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	if path != ":memory:" {
		if err := os.Chmod(path, 0600); err != nil {
			slog.Warn("failed to set restrictive permissions on trace file",
				slog.String("path", path),
				slog.String("error", err.Error()),
				slog.String("security_note", "trace data may be readable by other users"))
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(runID string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO trace_entries (run_id, sequence, timestamp, depth, kind, node_id, key_id, detail)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM trace_entries WHERE run_id = ?), 0) + 1,
			datetime('now'), ?, ?, ?, ?, ?
		)
	`, runID, runID, e.Depth, e.Kind, e.NodeID, e.KeyID, e.Detail)
	if err != nil {
		return fmt.Errorf("append trace entry: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT sequence, timestamp, depth, kind, node_id, key_id, detail
		FROM trace_entries
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list trace entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{Version: Version, RunID: runID}
		var timestamp string
		if err := rows.Scan(&e.Sequence, &timestamp, &e.Depth, &e.Kind, &e.NodeID, &e.KeyID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan trace entry: %w", err)
		}
		if ts, err := time.Parse("2006-01-02 15:04:05", timestamp); err == nil {
			e.Timestamp = ts.UTC()
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace entries: %w", err)
	}

	return entries, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`DELETE FROM trace_entries WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run trace: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
