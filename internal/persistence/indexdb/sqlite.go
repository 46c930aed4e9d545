// Package indexdb keeps a small SQLite index of generation runs: seed,
// size, grid digest, and where the snapshot landed. It is a read-model for
// tooling; deleting it loses nothing that a replay cannot rebuild.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type RunIndex struct {
	db *sql.DB
}

type Run struct {
	RunID        string
	CreatedAt    string
	Seed         int64
	SizeKey      string
	Width        int
	Height       int
	GridDigest   string
	SnapshotPath string
}

func Open(path string) (*RunIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &RunIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL is enough durability for
	// a rebuildable index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			size_key TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			grid_digest TEXT NOT NULL,
			snapshot_path TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (x *RunIndex) Close() error { return x.db.Close() }

func (x *RunIndex) RecordRun(r Run) error {
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO runs
		 (run_id, created_at, seed, size_key, width, height, grid_digest, snapshot_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt, r.Seed, r.SizeKey, r.Width, r.Height, r.GridDigest, r.SnapshotPath,
	)
	return err
}

// Runs returns the most recent runs, newest first.
func (x *RunIndex) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := x.db.Query(
		`SELECT run_id, created_at, seed, size_key, width, height, grid_digest, snapshot_path
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.Seed, &r.SizeKey, &r.Width, &r.Height, &r.GridDigest, &r.SnapshotPath); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunByID fetches one run row; sql.ErrNoRows when absent.
func (x *RunIndex) RunByID(runID string) (Run, error) {
	var r Run
	err := x.db.QueryRow(
		`SELECT run_id, created_at, seed, size_key, width, height, grid_digest, snapshot_path
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.CreatedAt, &r.Seed, &r.SizeKey, &r.Width, &r.Height, &r.GridDigest, &r.SnapshotPath)
	return r, err
}
