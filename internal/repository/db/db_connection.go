package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer; batch assessments queue on this connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaAssessments = `
CREATE TABLE IF NOT EXISTS assessments (
    id TEXT PRIMARY KEY,
    assessed_at TEXT NOT NULL,
    source TEXT NOT NULL,
    worker_id TEXT NOT NULL,
    decision TEXT NOT NULL,
    reading TEXT NOT NULL,
    verdict TEXT NOT NULL
);
`

const indexAssessmentsTime = `
CREATE INDEX IF NOT EXISTS idx_assessments_assessed_at ON assessments (assessed_at);
`

const indexAssessmentsWorker = `
CREATE INDEX IF NOT EXISTS idx_assessments_worker ON assessments (worker_id, assessed_at);
`

const schemaWorkerStatus = `
CREATE TABLE IF NOT EXISTS worker_status (
    worker_id TEXT PRIMARY KEY,
    zone TEXT NOT NULL,
    decision TEXT NOT NULL,
    risk_score REAL NOT NULL,
    gas_ppm REAL NOT NULL,
    heart_rate_bpm REAL NOT NULL,
    fire_detected BOOLEAN NOT NULL,
    last_assessment_id TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

// EnsureSchema creates every table and index in one transaction.
func EnsureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaAssessments,
		indexAssessmentsTime,
		indexAssessmentsWorker,
		schemaWorkerStatus,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
