package service

import (
	"context"
	"time"

	"suraksha_mesh/internal/logger"
	"suraksha_mesh/internal/metrics"
	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/narrator"
)

// narratorClient is satisfied by *narrator.Narrator.
type narratorClient interface {
	Narrate(ctx context.Context, a models.Assessment) (narrator.Narrative, error)
}

type NarrationService struct {
	narrator narratorClient
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewNarrationService falls back to a key-less narrator that only renders demo text.
func NewNarrationService(n *narrator.Narrator, m *metrics.Metrics, log *logger.Logger) *NarrationService {
	var client narratorClient = n
	if n == nil {
		client = narrator.New(narrator.Config{})
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NarrationService{narrator: client, metrics: m, log: log, now: time.Now}
}

func (s *NarrationService) Narrate(ctx context.Context, a models.Assessment) (narrator.Narrative, error) {
	start := s.now()
	n, err := s.narrator.Narrate(ctx, a)
	elapsed := s.now().Sub(start)

	s.metrics.ObserveNarration(elapsed, n.Demo, err)
	if err != nil {
		s.log.Errorw("narration_failed",
			"assessment_id", a.ID,
			"decision", a.Verdict.Decision,
			"elapsed_ms", elapsed.Milliseconds(),
			"err", err,
		)
		return narrator.Narrative{}, err
	}

	s.log.Infow("narration_ready",
		"assessment_id", a.ID,
		"model", n.Model,
		"demo", n.Demo,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return n, nil
}
