package handlers

import (
	"context"
	"net/http"
	"sync"

	"suraksha_mesh/internal/classifier"
	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/narrator"
	"suraksha_mesh/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockAssessment classifies for real and records what it was given.
type mockAssessment struct {
	mu         sync.Mutex
	persistErr error
	readings   []models.TelemetryReading
	sources    []string
}

func (m *mockAssessment) Assess(_ context.Context, r models.TelemetryReading, source string) (models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	m.sources = append(m.sources, source)
	return models.Assessment{
		ID:      "a-" + r.WorkerID,
		Source:  source,
		Reading: r,
		Verdict: classifier.Classify(r),
	}, m.persistErr
}

func (m *mockAssessment) AssessBatch(ctx context.Context, rs []models.TelemetryReading, source string) ([]models.Assessment, error) {
	out := make([]models.Assessment, 0, len(rs))
	for _, r := range rs {
		a, _ := m.Assess(ctx, r, source)
		out = append(out, a)
	}
	return out, m.persistErr
}

func (m *mockAssessment) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readings)
}

type mockMonitoring struct {
	mu      sync.Mutex
	workers []models.WorkerStatus
	worker  models.WorkerStatus
	err     error
	lastID  string
}

func (m *mockMonitoring) ListWorkers(context.Context) ([]models.WorkerStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.WorkerStatus(nil), m.workers...), m.err
}

func (m *mockMonitoring) setWorkers(ws []models.WorkerStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = ws
}

func (m *mockMonitoring) GetWorker(_ context.Context, id string) (models.WorkerStatus, error) {
	m.lastID = id
	return m.worker, m.err
}

type mockAssessmentLog struct {
	resp []models.Assessment
	err  error
	last service.LogFilter
}

func (m *mockAssessmentLog) List(_ context.Context, f service.LogFilter) ([]models.Assessment, error) {
	m.last = f
	return m.resp, m.err
}

type mockNarration struct {
	out  narrator.Narrative
	err  error
	last models.Assessment
}

func (m *mockNarration) Narrate(_ context.Context, a models.Assessment) (narrator.Narrative, error) {
	m.last = a
	return m.out, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// authedRequest builds a request carrying a bearer token accepted by mockAuth.
func authedRequest(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
