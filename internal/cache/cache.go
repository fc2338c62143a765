// Package cache provides a SQLite-backed cache of raw CrossRef work
// responses keyed by normalized DOI, so repeated snowball runs skip the
// network.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the cache database connection. It satisfies the CrossRef
// client's Cache interface.
type DB struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	schema := `
		CREATE TABLE IF NOT EXISTS works (
			doi TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at TEXT NOT NULL
		);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the cache database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Get returns the cached response body for a DOI, if present.
func (d *DB) Get(doi string) ([]byte, bool) {
	var body []byte
	err := d.db.QueryRow(`SELECT body FROM works WHERE doi = ?`, doi).Scan(&body)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Put stores the response body for a DOI, replacing any previous entry.
// Cache failures are deliberately silent: the cache is an optimization,
// not a store of record.
func (d *DB) Put(doi string, body []byte) {
	_, _ = d.db.Exec(
		`INSERT OR REPLACE INTO works (doi, body, fetched_at) VALUES (?, ?, ?)`,
		doi, body, time.Now().UTC().Format(time.RFC3339),
	)
}

// Count returns the number of cached works.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM works`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached works: %w", err)
	}
	return n, nil
}
