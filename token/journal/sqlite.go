package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a SQLite database. Each record is one row
// keyed by the deterministic (stream, version) pair, with the JSON encoding
// of the record as payload; the primary key makes concurrent appends to the
// same version fail instead of silently interleaving.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS journal (
	stream  TEXT    NOT NULL,
	version INTEGER NOT NULL,
	record  TEXT    NOT NULL,
	PRIMARY KEY (stream, version)
);`

// NewSQLiteStore opens a journal database at path, creating it if needed.
// Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: opening sqlite store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: initializing sqlite store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, stream string, expectedVersion int64, recs []Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("journal: beginning append: %w", err)
	}
	defer tx.Rollback()

	var cur int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), -1) FROM journal WHERE stream = ?`, stream).Scan(&cur)
	if err != nil {
		return 0, fmt.Errorf("journal: reading stream head: %w", err)
	}
	if cur != expectedVersion {
		return 0, fmt.Errorf("%w: stream %q is at version %d, expected %d",
			ErrVersionConflict, stream, cur, expectedVersion)
	}

	version := cur
	for i := range recs {
		version++
		recs[i].Version = version
		payload, err := json.Marshal(recs[i])
		if err != nil {
			return 0, fmt.Errorf("journal: encoding record %d: %w", version, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO journal (stream, version, record) VALUES (?, ?, ?)`,
			stream, version, string(payload))
		if err != nil {
			return 0, fmt.Errorf("journal: inserting record %d: %w", version, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("journal: committing append: %w", err)
	}
	return version, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, stream string, from int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM journal WHERE stream = ? AND version >= ? ORDER BY version`,
		stream, from)
	if err != nil {
		return nil, fmt.Errorf("journal: reading stream %q: %w", stream, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("journal: scanning record: %w", err)
		}
		var r Record
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("journal: decoding record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
