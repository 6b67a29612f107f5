package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/repository"
	"suraksha_mesh/internal/repository/db"
)

func openRepos(t *testing.T) *repository.Repository {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return repository.NewRepository(conn)
}

func TestSQLite_AssessmentRoundTripAndFilters(t *testing.T) {
	repos := openRepos(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	seed := []models.Assessment{
		{ID: "a-1", AssessedAt: base, Source: models.SourceAPI,
			Reading: models.TelemetryReading{WorkerID: "W-1", RiskScore: 30},
			Verdict: models.Verdict{Decision: models.DecisionNormal, Reasons: []string{"r"}, RecommendedActions: []string{"No action required"}}},
		{ID: "a-2", AssessedAt: base.Add(time.Minute), Source: models.SourceBatch,
			Reading: models.TelemetryReading{WorkerID: "W-2", RiskScore: 85, DurationSeconds: 2},
			Verdict: models.Verdict{Decision: models.DecisionMonitor}},
		{ID: "a-3", AssessedAt: base.Add(2 * time.Minute), Source: models.SourceSimulator,
			Reading: models.TelemetryReading{WorkerID: "W-1", GasPPM: 450},
			Verdict: models.Verdict{Decision: models.DecisionCritical}},
	}
	// insert out of order; List must sort
	for _, i := range []int{2, 0, 1} {
		if err := repos.Assessments.Append(ctx, seed[i]); err != nil {
			t.Fatalf("append %s: %v", seed[i].ID, err)
		}
	}

	all, err := repos.Assessments.List(ctx, repository.AssessmentQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "a-1" || all[2].ID != "a-3" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[0].Verdict.RecommendedActions[0] != "No action required" {
		t.Fatalf("verdict not round-tripped: %+v", all[0].Verdict)
	}

	inclusive, err := repos.Assessments.List(ctx, repository.AssessmentQuery{From: base, To: base.Add(time.Minute)})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(inclusive) != 2 {
		t.Fatalf("range bounds must be inclusive, got %d rows", len(inclusive))
	}

	w1, err := repos.Assessments.List(ctx, repository.AssessmentQuery{WorkerID: "W-1", Decision: models.DecisionCritical})
	if err != nil {
		t.Fatalf("list worker: %v", err)
	}
	if len(w1) != 1 || w1[0].ID != "a-3" {
		t.Fatalf("unexpected worker filter result: %+v", w1)
	}
}

func TestSQLite_WorkerStatusKeepsNewest(t *testing.T) {
	repos := openRepos(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	newer := models.WorkerStatus{WorkerID: "W-1", Zone: "Zone_A", Decision: models.DecisionCritical, LastAssessmentID: "a-2", UpdatedAt: base.Add(time.Second)}
	older := models.WorkerStatus{WorkerID: "W-1", Zone: "Zone_A", Decision: models.DecisionNormal, LastAssessmentID: "a-1", UpdatedAt: base}

	if err := repos.Workers.Save(ctx, newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}
	if err := repos.Workers.Save(ctx, older); err != nil {
		t.Fatalf("save older: %v", err)
	}

	got, err := repos.Workers.Load(ctx, "W-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LastAssessmentID != "a-2" || got.Decision != models.DecisionCritical {
		t.Fatalf("older status overwrote newer: %+v", got)
	}

	if _, err := repos.Workers.Load(ctx, "W-404"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repos.Workers.Save(ctx, models.WorkerStatus{WorkerID: "W-0", UpdatedAt: base}); err != nil {
		t.Fatalf("save W-0: %v", err)
	}
	list, err := repos.Workers.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].WorkerID != "W-0" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestSQLite_Users(t *testing.T) {
	repos := openRepos(t)
	ctx := context.Background()

	id, err := repos.Auth.Create(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repos.Auth.Create(ctx, "alice", "other"); err == nil {
		t.Fatalf("duplicate username must fail")
	}

	u, err := repos.Auth.GetByUsername(ctx, "alice")
	if err != nil || u == nil {
		t.Fatalf("get: %v %v", u, err)
	}
	if u.ID != id || u.PasswordHash != "hash" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", u)
	}

	missing, err := repos.Auth.GetByUsername(ctx, "bob")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", missing, err)
	}
}
