package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/repository"
)

// LogFilter narrows the assessment history.
type LogFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Decision string    // "", "CRITICAL", "MONITOR", "NORMAL" (any case)
	WorkerID string
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidDecision  = errors.New("invalid decision")
)

type AssessmentLogService struct {
	repo repository.AssessmentRepo
}

func NewAssessmentLogService(repo repository.AssessmentRepo) *AssessmentLogService {
	return &AssessmentLogService{repo: repo}
}

func (s *AssessmentLogService) List(ctx context.Context, f LogFilter) ([]models.Assessment, error) {
	q, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeFilter(f LogFilter) (repository.AssessmentQuery, error) {
	q := repository.AssessmentQuery{
		From:     normalizeToUTC(f.From),
		To:       normalizeToUTC(f.To),
		WorkerID: strings.TrimSpace(f.WorkerID),
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.AssessmentQuery{}, ErrInvalidTimeRange
	}

	if strings.TrimSpace(f.Decision) != "" {
		d, ok := models.ParseDecision(f.Decision)
		if !ok {
			return repository.AssessmentQuery{}, fmt.Errorf("%w: %q", ErrInvalidDecision, f.Decision)
		}
		q.Decision = d
	}
	return q, nil
}
