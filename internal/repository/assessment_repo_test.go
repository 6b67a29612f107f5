package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"suraksha_mesh/internal/models"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMockDB(t *testing.T) (*AssessmentSQLite, *WorkerStatusSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewAssessmentSQLite(db), NewWorkerStatusSQLite(db), mock
}

type argFunc func(driver.Value) bool

func (f argFunc) Match(v driver.Value) bool { return f(v) }

func sampleAssessment() models.Assessment {
	return models.Assessment{
		ID:         "a-1",
		AssessedAt: time.Date(2025, 3, 1, 10, 0, 0, 500, time.FixedZone("IST", 19800)),
		Source:     models.SourceAPI,
		Reading:    models.TelemetryReading{WorkerID: "W-102", RiskScore: 92, GasPPM: 450, DurationSeconds: 12, Zone: "Furnace_B"},
		Verdict: models.Verdict{
			Decision:           models.DecisionCritical,
			Reasons:            []string{"gas concentration 450ppm exceeds 300ppm threshold"},
			RecommendedActions: []string{"Evacuate Furnace_B immediately"},
		},
	}
}

func TestAssessmentAppend_Success(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)
	a := sampleAssessment()

	reading, _ := json.Marshal(a.Reading)
	verdict, _ := json.Marshal(a.Verdict)

	mock.ExpectExec(regexp.QuoteMeta(insertAssessmentSQL)).
		WithArgs("a-1", "2025-03-01T04:30:00.000000500Z", "api", "W-102", "CRITICAL", string(reading), string(verdict)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(ctx(t), a); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAssessmentAppend_FillsDefaults(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)

	nonEmpty := argFunc(func(v driver.Value) bool { s, ok := v.(string); return ok && s != "" })
	recentUTC := argFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		ts, err := parseTimestamp(s)
		return err == nil && time.Since(ts) < 5*time.Second
	})

	mock.ExpectExec(regexp.QuoteMeta(insertAssessmentSQL)).
		WithArgs(nonEmpty, recentUTC, "simulator", "W-1", "NORMAL", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.Assessment{
		Source:  models.SourceSimulator,
		Reading: models.TelemetryReading{WorkerID: "W-1"},
		Verdict: models.Verdict{Decision: models.DecisionNormal},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAssessmentAppend_DBError(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO assessments").WillReturnError(errors.New("disk full"))

	err := repo.Append(ctx(t), sampleAssessment())
	if err == nil || !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), "insert assessment a-1") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestAssessmentList_NoFilters(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)
	a := sampleAssessment()
	reading, _ := json.Marshal(a.Reading)
	verdict, _ := json.Marshal(a.Verdict)

	rows := sqlmock.NewRows([]string{"id", "assessed_at", "source", "reading", "verdict"}).
		AddRow("a-1", "2025-03-01T04:30:00.000000000Z", "api", string(reading), string(verdict)).
		AddRow("a-2", "2025-03-01T04:31:00.000000000Z", "batch", string(reading), string(verdict))

	mock.ExpectQuery(regexp.QuoteMeta(selectAssessmentsSQL + " ORDER BY assessed_at ASC, id ASC")).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), AssessmentQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a-1" || got[1].Source != "batch" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got[0].Verdict.Decision != models.DecisionCritical || got[0].Reading.GasPPM != 450 {
		t.Fatalf("payload not decoded: %+v", got[0])
	}
	if !got[0].AssessedAt.Equal(time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC)) {
		t.Fatalf("timestamp not decoded: %v", got[0].AssessedAt)
	}
}

func TestAssessmentList_WithFilters(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectAssessmentsSQL +
		" WHERE assessed_at >= ? AND assessed_at <= ? AND decision = ? AND worker_id = ? ORDER BY assessed_at ASC, id ASC"

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01T11:00:00.000000000Z", "2025-01-01T12:00:00.000000000Z", "MONITOR", "W-5").
		WillReturnRows(sqlmock.NewRows([]string{"id", "assessed_at", "source", "reading", "verdict"}))

	got, err := repo.List(ctx(t), AssessmentQuery{From: from, To: to, Decision: models.DecisionMonitor, WorkerID: "W-5"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

func TestAssessmentList_BadPayload(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "assessed_at", "source", "reading", "verdict"}).
		AddRow("x", "2025-03-01T04:30:00.000000000Z", "api", "{not json", "{}")

	mock.ExpectQuery("SELECT id, assessed_at").WillReturnRows(rows)

	if _, err := repo.List(ctx(t), AssessmentQuery{}); err == nil || !strings.Contains(err.Error(), "decode reading of x") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestAssessmentList_BadTimestamp(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "assessed_at", "source", "reading", "verdict"}).
		AddRow("x", "yesterday", "api", "{}", "{}")

	mock.ExpectQuery("SELECT id, assessed_at").WillReturnRows(rows)

	if _, err := repo.List(ctx(t), AssessmentQuery{}); err == nil || !strings.Contains(err.Error(), "parse timestamp") {
		t.Fatalf("expected timestamp error, got %v", err)
	}
}

func TestAssessmentList_QueryError(t *testing.T) {
	t.Parallel()
	repo, _, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, assessed_at").WillReturnError(errors.New("locked"))

	if _, err := repo.List(ctx(t), AssessmentQuery{}); err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected query error, got %v", err)
	}
}
