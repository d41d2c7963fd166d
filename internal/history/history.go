// Package history records completed analyze runs in a small SQLite database
// so past match quality can be reviewed without re-reading audit logs.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded analyze run.
type Run struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Document  string    `json:"document"`
	BibSource string    `json:"bib_source"`
	Matched   int       `json:"matched"`
	Duplicate int       `json:"duplicates"`
	Unmatched int       `json:"unmatched"`
	Status    string    `json:"status"`
}

// DB wraps the run-history database connection.
type DB struct {
	db *sql.DB
}

// Open opens or creates the run-history database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			document TEXT NOT NULL,
			bib_source TEXT NOT NULL,
			matched INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			unmatched INTEGER NOT NULL,
			status TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts one completed run.
func (d *DB) Record(r Run) (int64, error) {
	res, err := d.db.Exec(`
		INSERT INTO runs (started_at, document, bib_source, matched, duplicates, unmatched, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339), r.Document, r.BibSource,
		r.Matched, r.Duplicate, r.Unmatched, r.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (d *DB) List(limit int) ([]Run, error) {
	query := `
		SELECT id, started_at, document, bib_source, matched, duplicates, unmatched, status
		FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Document, &r.BibSource,
			&r.Matched, &r.Duplicate, &r.Unmatched, &r.Status); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
