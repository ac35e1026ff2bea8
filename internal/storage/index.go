package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const indexFile = "runs.db"

const indexSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		routine TEXT NOT NULL,
		preset TEXT,
		created_ns INTEGER NOT NULL,
		seed INTEGER,
		dt REAL,
		duration REAL,
		integrator TEXT,
		outcome TEXT NOT NULL,
		ticks INTEGER
	);
	CREATE INDEX IF NOT EXISTS runs_routine ON runs (routine, created_ns);
`

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Routine string
	Outcome string
	Limit   int
}

func (s *Store) openIndex() (*sql.DB, error) {
	db, err := sql.Open("sqlite", filepath.Join(s.baseDir, indexFile))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return db, nil
}

func indexRun(db *sql.DB, meta RunMetadata) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO runs (id, routine, preset, created_ns, seed, dt, duration, integrator, outcome, ticks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Routine, meta.Preset, meta.Timestamp.UnixNano(),
		meta.Seed, meta.Dt, meta.Duration, meta.Integrator, meta.Outcome, meta.Ticks,
	)
	if err != nil {
		return fmt.Errorf("index run %s: %w", meta.ID, err)
	}
	return nil
}

func (s *Store) index(meta RunMetadata) error {
	db, err := s.openIndex()
	if err != nil {
		return err
	}
	defer db.Close()
	return indexRun(db, meta)
}

// Query returns indexed runs matching f, newest first. Runs whose files
// have since been removed are skipped.
func (s *Store) Query(f Filter) ([]RunMetadata, error) {
	if _, err := os.Stat(s.baseDir); errors.Is(err, os.ErrNotExist) {
		return []RunMetadata{}, nil
	}
	db, err := s.openIndex()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var where []string
	var args []any
	if f.Routine != "" {
		where = append(where, "routine = ?")
		args = append(args, f.Routine)
	}
	if f.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, f.Outcome)
	}
	q := "SELECT id FROM runs"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_ns DESC, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(ids))
	for _, id := range ids {
		meta, err := s.Load(id)
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Reindex rebuilds the index from the run directories and returns how many
// runs it found.
func (s *Store) Reindex() (int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	db, err := s.openIndex()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM runs"); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		if err := indexRun(db, *meta); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
