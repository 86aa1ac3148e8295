package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// The whole collection persists as one named document so it round-trips
// exactly, nested notes and ordering included.
const storeName = "job-storage"

// ErrLocked means another process holds the data directory.
var ErrLocked = errors.New("data directory is locked by another process")

func loadDoc(db *sql.DB) ([]Job, error) {
	var raw string
	err := db.QueryRow(`SELECT value FROM documents WHERE name = ?;`, storeName).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []Job{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", storeName, err)
	}

	var jobs []Job
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", storeName, err)
	}
	if jobs == nil {
		jobs = []Job{}
	}
	return jobs, nil
}

func writeDoc(db *sql.DB, jobs []Job) error {
	b, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storeName, err)
	}

	_, err = db.Exec(`
INSERT INTO documents (name, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`,
		storeName, string(b), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", storeName, err)
	}
	return nil
}
