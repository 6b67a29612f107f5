package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"suraksha_mesh/internal/classifier"
	"suraksha_mesh/internal/logger"
	"suraksha_mesh/internal/metrics"
	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/repository"
)

const defaultBatchWorkers = 4

// AssessmentService runs the classifier and records its verdicts.
type AssessmentService struct {
	assessments repository.AssessmentRepo
	workers     repository.WorkerStatusRepo
	metrics     *metrics.Metrics
	log         *logger.Logger

	batchWorkers int
	now          func() time.Time
	newID        func() string
}

func NewAssessmentService(
	assessments repository.AssessmentRepo,
	workers repository.WorkerStatusRepo,
	m *metrics.Metrics,
	log *logger.Logger,
	batchWorkers int,
) *AssessmentService {
	if batchWorkers <= 0 {
		batchWorkers = defaultBatchWorkers
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AssessmentService{
		assessments:  assessments,
		workers:      workers,
		metrics:      m,
		log:          log,
		batchWorkers: batchWorkers,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Assess classifies r and records the result. The returned assessment is
// always complete; a non-nil error only means it could not be stored.
func (s *AssessmentService) Assess(ctx context.Context, r models.TelemetryReading, source string) (models.Assessment, error) {
	a := s.classify(r, source, s.now().UTC())
	return a, s.record(ctx, a)
}

// AssessBatch assesses rs concurrently. Results keep the input order and
// storage errors are joined. Timestamps are taken from one clock reading and
// advance by a nanosecond per index, so a later reading of the same worker
// always wins the status board. Once ctx is done no further readings are
// started; the assessments finished so far are returned with ctx's error.
func (s *AssessmentService) AssessBatch(ctx context.Context, rs []models.TelemetryReading, source string) ([]models.Assessment, error) {
	out := make([]models.Assessment, len(rs))
	errs := make([]error, len(rs))
	base := s.now().UTC()

	sem := make(chan struct{}, s.batchWorkers)
	var wg sync.WaitGroup
	launched := 0
launch:
	for i := range rs {
		select {
		case <-ctx.Done():
			break launch
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			<-sem
			break
		}

		launched++
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = s.classify(rs[i], source, base.Add(time.Duration(i)))
			errs[i] = s.record(ctx, out[i])
		}(i)
	}
	wg.Wait()

	if launched < len(rs) {
		s.log.Infow("assessment_batch_canceled", "done", launched, "total", len(rs), "err", ctx.Err())
		stopped := fmt.Errorf("batch stopped after %d of %d readings: %w", launched, len(rs), ctx.Err())
		return out[:launched], errors.Join(append(errs[:launched], stopped)...)
	}
	return out, errors.Join(errs...)
}

func (s *AssessmentService) classify(r models.TelemetryReading, source string, at time.Time) models.Assessment {
	_, clamped := classifier.ClampRiskScore(r.RiskScore)
	a := models.Assessment{
		ID:         s.newID(),
		AssessedAt: at,
		Source:     source,
		Reading:    r,
		Verdict:    classifier.Classify(r),
	}
	s.metrics.ObserveAssessment(a, clamped)

	if a.Verdict.Decision == models.DecisionCritical {
		s.log.Warnw("critical_assessment",
			"assessment_id", a.ID,
			"worker_id", r.WorkerID,
			"zone", r.Zone,
			"reasons", a.Verdict.Reasons,
		)
	}
	return a
}

func (s *AssessmentService) record(ctx context.Context, a models.Assessment) error {
	if err := s.assessments.Append(ctx, a); err != nil {
		s.persistFailed(a, err)
		return fmt.Errorf("record assessment %s: %w", a.ID, err)
	}
	if err := s.workers.Save(ctx, models.StatusFromAssessment(a)); err != nil {
		s.persistFailed(a, err)
		return fmt.Errorf("update status of worker %q: %w", a.Reading.WorkerID, err)
	}
	return nil
}

func (s *AssessmentService) persistFailed(a models.Assessment, err error) {
	s.metrics.IncPersistFailure()
	s.log.Errorw("assessment_persist_failed",
		"assessment_id", a.ID,
		"worker_id", a.Reading.WorkerID,
		"err", err,
	)
}
