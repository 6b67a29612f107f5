package service

import (
	"context"
	"time"

	"suraksha_mesh/internal/logger"
	"suraksha_mesh/internal/metrics"
	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/narrator"
	"suraksha_mesh/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Assessment classifies readings and records the outcome.
type Assessment interface {
	Assess(ctx context.Context, r models.TelemetryReading, source string) (models.Assessment, error)
	AssessBatch(ctx context.Context, rs []models.TelemetryReading, source string) ([]models.Assessment, error)
}

// Monitoring exposes the per-worker status board.
type Monitoring interface {
	ListWorkers(ctx context.Context) ([]models.WorkerStatus, error)
	GetWorker(ctx context.Context, workerID string) (models.WorkerStatus, error)
}

// AssessmentLog exposes assessment history with filtering.
type AssessmentLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Assessment, error)
}

// Narration turns an assessment into commander prose.
type Narration interface {
	Narrate(ctx context.Context, a models.Assessment) (narrator.Narrative, error)
}

// Simulator feeds synthetic telemetry through Assessment until ctx is canceled.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Assessment
	Monitoring
	AssessmentLog
	Narration
	Simulator
	Authorization
}

// Options carries everything NewService needs besides the repositories.
type Options struct {
	Log          *logger.Logger
	Metrics      *metrics.Metrics
	Narrator     *narrator.Narrator
	Auth         AuthConfig
	BatchWorkers int
	SimWorkers   []SimWorker
	SimSeed      int64
}

func NewService(repos *repository.Repository, opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	assessment := NewAssessmentService(repos.Assessments, repos.Workers, opts.Metrics, log, opts.BatchWorkers)
	return &Service{
		Assessment:    assessment,
		Monitoring:    NewMonitoringService(repos.Workers),
		AssessmentLog: NewAssessmentLogService(repos.Assessments),
		Narration:     NewNarrationService(opts.Narrator, opts.Metrics, log),
		Simulator:     NewSimulatorService(assessment, opts.SimWorkers, newSeededRand(opts.SimSeed), log),
		Authorization: NewAuthService(repos.Auth, opts.Auth),
	}
}
