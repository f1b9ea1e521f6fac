// Package history stores run results in SQLite so trends and flaky
// checks can be inspected across invocations.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/runner"
	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	manifest    TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	op          TEXT NOT NULL DEFAULT '',
	path        TEXT NOT NULL DEFAULT '',
	passed      INTEGER NOT NULL,
	duration_us INTEGER NOT NULL,
	diagnostic  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_results_run_id ON results (run_id);
CREATE INDEX IF NOT EXISTS idx_runs_manifest ON runs (manifest);
`

// Store is a run history database
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a history database at the given path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores one manifest run and returns its id. Skipped checks
// are counted on the run row but produce no result rows; they are not
// observations of the filesystem.
func (s *Store) Record(result *runner.RunResult) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs (id, started_at, manifest, passed, failed, skipped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), result.File,
		result.Passed, result.Failed, result.Skipped,
		result.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, r := range result.Results {
		if r.Skipped {
			continue
		}

		var op, path, diagnostic string
		if r.Check != nil {
			op = r.Check.Op
			path = r.Check.Path
			if r.Check.Diagnostic != nil {
				diagnostic = r.Check.Diagnostic.String()
			}
		} else if r.Err != nil {
			diagnostic = r.Err.Error()
		}

		_, err = tx.Exec(
			`INSERT INTO results (run_id, name, op, path, passed, duration_us, diagnostic)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, r.Name, op, path, r.Passed, r.Duration.Microseconds(), diagnostic,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	return id, nil
}

// Manifests returns the distinct manifest paths recorded in the store
func (s *Store) Manifests() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT manifest FROM runs ORDER BY manifest`)
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	defer rows.Close()

	var manifests []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan manifest: %w", err)
		}
		manifests = append(manifests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return manifests, nil
}
