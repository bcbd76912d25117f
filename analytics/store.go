// Package analytics provides a minimal, privacy-preserving page-view
// counter backed by SQLite. Views are aggregated per path per day; no
// visitor identifiers of any kind are stored.
package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides database operations for page-view counters.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open pageviews db: %w", err)
	}
	// WAL lets reads proceed while the middleware records views; a busy
	// timeout makes concurrent writers wait instead of failing.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, fmt.Errorf("configure pageviews db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pageviews (
			path TEXT NOT NULL,
			day TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (path, day)
		);
		CREATE INDEX IF NOT EXISTS idx_pageviews_day ON pageviews(day);
	`)
	return err
}

// Record increments today's counter for path.
func (s *Store) Record(path string) error {
	day := time.Now().UTC().Format("2006-01-02")
	_, err := s.db.Exec(`
		INSERT INTO pageviews (path, day, count) VALUES (?, ?, 1)
		ON CONFLICT(path, day) DO UPDATE SET count = count + 1
	`, path, day)
	return err
}

// PathCount is one row of the top-paths report.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// TopPaths returns the most-viewed paths over the last days, highest first.
func (s *Store) TopPaths(days, limit int) ([]PathCount, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := s.db.Query(`
		SELECT path, SUM(count) AS views FROM pageviews
		WHERE day >= ?
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// Total returns the total view count over the last days.
func (s *Store) Total(days int) (int64, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(count) FROM pageviews WHERE day >= ?`, since).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// Prune deletes counters older than the retention window.
func (s *Store) Prune(retainDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retainDays).Format("2006-01-02")
	_, err := s.db.Exec(`DELETE FROM pageviews WHERE day < ?`, cutoff)
	return err
}
