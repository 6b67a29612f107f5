package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"suraksha_mesh/internal/models"
)

type AssessmentSQLite struct {
	db *sql.DB
}

func NewAssessmentSQLite(db *sql.DB) *AssessmentSQLite { return &AssessmentSQLite{db: db} }

var _ AssessmentRepo = (*AssessmentSQLite)(nil)

const (
	insertAssessmentSQL = `
		INSERT INTO assessments (id, assessed_at, source, worker_id, decision, reading, verdict)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectAssessmentsSQL = `SELECT id, assessed_at, source, reading, verdict FROM assessments`
)

// Append inserts a. Missing ID or timestamp are filled in.
func (r *AssessmentSQLite) Append(ctx context.Context, a models.Assessment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AssessedAt.IsZero() {
		a.AssessedAt = time.Now()
	}

	reading, err := json.Marshal(a.Reading)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}
	verdict, err := json.Marshal(a.Verdict)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertAssessmentSQL,
		a.ID,
		formatTimestamp(a.AssessedAt),
		a.Source,
		a.Reading.WorkerID,
		string(a.Verdict.Decision),
		string(reading),
		string(verdict),
	)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// List returns assessments matching q, oldest first. Both time bounds are inclusive.
func (r *AssessmentSQLite) List(ctx context.Context, q AssessmentQuery) ([]models.Assessment, error) {
	var (
		conds []string
		args  []any
	)

	if !q.From.IsZero() {
		conds = append(conds, "assessed_at >= ?")
		args = append(args, formatTimestamp(q.From))
	}
	if !q.To.IsZero() {
		conds = append(conds, "assessed_at <= ?")
		args = append(args, formatTimestamp(q.To))
	}
	if q.Decision != "" {
		conds = append(conds, "decision = ?")
		args = append(args, string(q.Decision))
	}
	if q.WorkerID != "" {
		conds = append(conds, "worker_id = ?")
		args = append(args, q.WorkerID)
	}

	query := selectAssessmentsSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY assessed_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Assessment, 0, 64)
	for rows.Next() {
		var (
			a                    models.Assessment
			ts, reading, verdict string
		)
		if err := rows.Scan(&a.ID, &ts, &a.Source, &reading, &verdict); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if a.AssessedAt, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(reading), &a.Reading); err != nil {
			return nil, fmt.Errorf("decode reading of %s: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(verdict), &a.Verdict); err != nil {
			return nil, fmt.Errorf("decode verdict of %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}
