package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"suraksha_mesh/internal/models"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AssessmentQuery narrows List. Zero values mean "no constraint".
type AssessmentQuery struct {
	From     time.Time
	To       time.Time
	Decision models.Decision
	WorkerID string
}

type AssessmentRepo interface {
	Append(ctx context.Context, a models.Assessment) error
	List(ctx context.Context, q AssessmentQuery) ([]models.Assessment, error)
}

type WorkerStatusRepo interface {
	Save(ctx context.Context, s models.WorkerStatus) error
	Load(ctx context.Context, workerID string) (models.WorkerStatus, error)
	List(ctx context.Context) ([]models.WorkerStatus, error)
}

type Repository struct {
	Assessments AssessmentRepo
	Workers     WorkerStatusRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Assessments: NewAssessmentSQLite(db),
		Workers:     NewWorkerStatusSQLite(db),
		Auth:        NewUserRepository(db),
	}
}

// Timestamps are stored as fixed-width UTC text so that string comparison
// in SQL matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
