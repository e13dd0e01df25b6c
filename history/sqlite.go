package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists transition records in a SQLite database. Pass
// ":memory:" as the path for an ephemeral store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The modernc driver is not safe for concurrent writers on one
	// connection pool entry; serialize through a single connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS transitions (
		machine_id TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		state      TEXT NOT NULL,
		event      TEXT NOT NULL,
		new_state  TEXT NOT NULL,
		commands   TEXT NOT NULL DEFAULT '[]',
		at         TIMESTAMP NOT NULL,
		PRIMARY KEY (machine_id, seq)
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds records to the machine's stream inside one transaction.
func (s *SQLiteStore) Append(ctx context.Context, machineID string, expectedSeq int, records []*Record) (int, error) {
	if len(records) == 0 {
		return expectedSeq, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) FROM transitions WHERE machine_id = ?`, machineID).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	if current != expectedSeq {
		return 0, fmt.Errorf("%w: stream %s is at %d, expected %d", ErrSeqConflict, machineID, current, expectedSeq)
	}

	seq := expectedSeq
	for _, r := range records {
		seq++
		commands, err := json.Marshal(r.Commands)
		if err != nil {
			return 0, fmt.Errorf("encode commands: %w", err)
		}
		at := r.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transitions (machine_id, seq, state, event, new_state, commands, at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			machineID, seq, r.State, r.Event, r.NewState, string(commands), at)
		if err != nil {
			return 0, fmt.Errorf("insert record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return seq, nil
}

// Read returns the machine's records with Seq >= fromSeq, in order.
func (s *SQLiteStore) Read(ctx context.Context, machineID string, fromSeq int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT machine_id, seq, state, event, new_state, commands, at
		 FROM transitions WHERE machine_id = ? AND seq >= ? ORDER BY seq`,
		machineID, fromSeq)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var r Record
		var commands string
		if err := rows.Scan(&r.MachineID, &r.Seq, &r.State, &r.Event, &r.NewState, &commands, &r.At); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(commands), &r.Commands); err != nil {
			return nil, fmt.Errorf("decode commands: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
