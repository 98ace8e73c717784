// Package diagsink persists query.Diagnostic rows to an on-disk SQLite
// database, the same ncruces/go-sqlite3 pure-Go driver the teacher's
// storage layer uses (internal/storage/sqlite). The core itself never
// touches disk (spec §1 non-goal: "Persistence to disk"); diagsink is a
// host-side tool for a host process that wants diagnostics to survive
// across runs.
package diagsink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/snapshot"
)

func severityFromInt(v int) snapshot.Severity { return snapshot.Severity(v) }

const schema = `
CREATE TABLE IF NOT EXISTS diagnostics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL,
    severity INTEGER NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    location_hint TEXT NOT NULL DEFAULT '',
    suggestion TEXT NOT NULL DEFAULT '',
    recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Sink persists query engine diagnostics to a SQLite database file.
type Sink struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and ensures
// the diagnostics table exists.
func Open(ctx context.Context, path string) (*Sink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("diagsink: open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("diagsink: create schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Sink) Close() error { return s.db.Close() }

// Record appends one diagnostic row.
func (s *Sink) Record(ctx context.Context, d query.Diagnostic) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO diagnostics (code, severity, message, location_hint, suggestion) VALUES (?, ?, ?, ?, ?)`,
		d.Code, int(d.Severity), d.Message, d.LocationHint, d.Suggestion)
	if err != nil {
		return fmt.Errorf("diagsink: insert: %w", err)
	}
	return nil
}

// RecordAll persists every diagnostic currently held by an engine
// (e.Diagnostics()), in one pass. Intended for a host's end-of-run flush.
func (s *Sink) RecordAll(ctx context.Context, diags []query.Diagnostic) error {
	for _, d := range diags {
		if err := s.Record(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// StoredDiagnostic is one row read back from the database.
type StoredDiagnostic struct {
	query.Diagnostic
	ID int64
}

// All returns every diagnostic recorded so far, oldest first.
func (s *Sink) All(ctx context.Context) ([]StoredDiagnostic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, severity, message, location_hint, suggestion FROM diagnostics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("diagsink: query: %w", err)
	}
	defer rows.Close()

	var out []StoredDiagnostic
	for rows.Next() {
		var row StoredDiagnostic
		var severity int
		if err := rows.Scan(&row.ID, &row.Code, &severity, &row.Message, &row.LocationHint, &row.Suggestion); err != nil {
			return nil, fmt.Errorf("diagsink: scan: %w", err)
		}
		row.Severity = severityFromInt(severity)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diagsink: iterating rows: %w", err)
	}
	return out, nil
}
