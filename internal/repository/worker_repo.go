package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"suraksha_mesh/internal/models"
)

type WorkerStatusSQLite struct {
	db *sql.DB
}

func NewWorkerStatusSQLite(db *sql.DB) *WorkerStatusSQLite {
	return &WorkerStatusSQLite{db: db}
}

var _ WorkerStatusRepo = (*WorkerStatusSQLite)(nil)

const (
	// An older assessment never overwrites a newer one, so concurrent
	// batch writes settle on the latest reading.
	upsertWorkerStatusSQL = `
		INSERT INTO worker_status (worker_id, zone, decision, risk_score, gas_ppm, heart_rate_bpm, fire_detected, last_assessment_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id) DO UPDATE SET
			zone=excluded.zone,
			decision=excluded.decision,
			risk_score=excluded.risk_score,
			gas_ppm=excluded.gas_ppm,
			heart_rate_bpm=excluded.heart_rate_bpm,
			fire_detected=excluded.fire_detected,
			last_assessment_id=excluded.last_assessment_id,
			updated_at=excluded.updated_at
		WHERE excluded.updated_at >= worker_status.updated_at
	`

	selectWorkerStatusColumns = `
		SELECT worker_id, zone, decision, risk_score, gas_ppm, heart_rate_bpm, fire_detected, last_assessment_id, updated_at
		FROM worker_status`

	selectWorkerStatusSQL   = selectWorkerStatusColumns + ` WHERE worker_id = ?`
	selectWorkerStatusesSQL = selectWorkerStatusColumns + ` ORDER BY worker_id ASC`
)

// Save upserts the status row for s.WorkerID.
func (r *WorkerStatusSQLite) Save(ctx context.Context, s models.WorkerStatus) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.ExecContext(ctx, upsertWorkerStatusSQL,
		s.WorkerID,
		s.Zone,
		string(s.Decision),
		s.RiskScore,
		s.GasPPM,
		s.HeartRateBPM,
		s.FireDetected,
		s.LastAssessmentID,
		formatTimestamp(ts),
	)
	if err != nil {
		return fmt.Errorf("upsert worker status %q: %w", s.WorkerID, err)
	}
	return nil
}

// Load returns ErrNotFound when the worker has never been assessed.
func (r *WorkerStatusSQLite) Load(ctx context.Context, workerID string) (models.WorkerStatus, error) {
	s, err := scanWorkerStatus(r.db.QueryRowContext(ctx, selectWorkerStatusSQL, workerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WorkerStatus{}, ErrNotFound
		}
		return models.WorkerStatus{}, fmt.Errorf("select worker status %q: %w", workerID, err)
	}
	return s, nil
}

// List returns every known worker ordered by ID.
func (r *WorkerStatusSQLite) List(ctx context.Context) ([]models.WorkerStatus, error) {
	rows, err := r.db.QueryContext(ctx, selectWorkerStatusesSQL)
	if err != nil {
		return nil, fmt.Errorf("query worker status: %w", err)
	}
	defer rows.Close()

	out := make([]models.WorkerStatus, 0, 16)
	for rows.Next() {
		s, err := scanWorkerStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker status: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worker status: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkerStatus(row rowScanner) (models.WorkerStatus, error) {
	var (
		s        models.WorkerStatus
		decision string
		ts       string
	)
	if err := row.Scan(
		&s.WorkerID,
		&s.Zone,
		&decision,
		&s.RiskScore,
		&s.GasPPM,
		&s.HeartRateBPM,
		&s.FireDetected,
		&s.LastAssessmentID,
		&ts,
	); err != nil {
		return models.WorkerStatus{}, err
	}
	s.Decision = models.Decision(decision)

	updated, err := parseTimestamp(ts)
	if err != nil {
		return models.WorkerStatus{}, err
	}
	s.UpdatedAt = updated
	return s, nil
}
