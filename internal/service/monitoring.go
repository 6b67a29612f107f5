package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/repository"
)

var ErrWorkerNotFound = errors.New("worker not found")

type MonitoringService struct {
	workers repository.WorkerStatusRepo
}

func NewMonitoringService(workers repository.WorkerStatusRepo) *MonitoringService {
	return &MonitoringService{workers: workers}
}

// ListWorkers returns the latest status of every worker, ordered by ID.
func (s *MonitoringService) ListWorkers(ctx context.Context) ([]models.WorkerStatus, error) {
	list, err := s.workers.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].UpdatedAt = normalizeToUTC(list[i].UpdatedAt)
	}
	return list, nil
}

// GetWorker returns ErrWorkerNotFound for IDs that were never assessed.
func (s *MonitoringService) GetWorker(ctx context.Context, workerID string) (models.WorkerStatus, error) {
	id := strings.TrimSpace(workerID)
	if id == "" {
		return models.WorkerStatus{}, ErrWorkerNotFound
	}

	st, err := s.workers.Load(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.WorkerStatus{}, fmt.Errorf("%w: %q", ErrWorkerNotFound, id)
		}
		return models.WorkerStatus{}, err
	}
	st.UpdatedAt = normalizeToUTC(st.UpdatedAt)
	return st, nil
}
