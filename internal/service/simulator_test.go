package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"suraksha_mesh/internal/classifier"
	"suraksha_mesh/internal/models"
)

// ---- Test doubles ----

// fixedRand returns the same value forever.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// seqRand replays values, then repeats the last one.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

type recordingAssessor struct {
	mu       sync.Mutex
	readings []models.TelemetryReading
	sources  []string
}

func (r *recordingAssessor) Assess(_ context.Context, rd models.TelemetryReading, source string) (models.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, rd)
	r.sources = append(r.sources, source)
	return models.Assessment{Reading: rd, Verdict: classifier.Classify(rd)}, nil
}

func (r *recordingAssessor) AssessBatch(ctx context.Context, rs []models.TelemetryReading, source string) ([]models.Assessment, error) {
	out := make([]models.Assessment, 0, len(rs))
	for _, rd := range rs {
		a, _ := r.Assess(ctx, rd, source)
		out = append(out, a)
	}
	return out, nil
}

func (r *recordingAssessor) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.readings)
}

// ---- Tests ----

func TestSimulatorStep_QuietWorkerStaysNormal(t *testing.T) {
	// 0.5 means zero noise and no leak/fire rolls.
	svc := NewSimulatorService(&recordingAssessor{}, nil, fixedRand(0.5), nil)
	st := &simState{worker: SimWorker{ID: "W-1", Zone: "Zone_A"}, gas: BaselineGasPPM, heart: BaselineHeartRate}

	for i := 0; i < 10; i++ {
		r := svc.step(st, 1)
		if r.WorkerID != "W-1" || r.Zone != "Zone_A" {
			t.Fatalf("identity lost: %+v", r)
		}
		if r.GasPPM != BaselineGasPPM || r.HeartRateBPM != BaselineHeartRate || r.FireDetected {
			t.Fatalf("quiet worker drifted: %+v", r)
		}
		if r.DurationSeconds != 0 {
			t.Fatalf("no anomaly expected, got duration %v", r.DurationSeconds)
		}
		if got := classifier.Classify(r).Decision; got != models.DecisionNormal {
			t.Fatalf("quiet worker should be NORMAL, got %s", got)
		}
	}
}

func TestSimulatorStep_FireAccumulatesAnomalyDuration(t *testing.T) {
	// gas noise, leak roll, heart noise, fire roll (0 triggers fire)
	rnd := &seqRand{vals: []float64{0.5, 0.9, 0.5, 0.0, 0.5, 0.9, 0.5, 0.5, 0.5, 0.9, 0.5, 0.5, 0.5, 0.9, 0.5, 0.5, 0.5, 0.9, 0.5, 0.9}}
	svc := NewSimulatorService(&recordingAssessor{}, nil, rnd, nil)
	st := &simState{worker: SimWorker{ID: "W-2"}, gas: BaselineGasPPM, heart: BaselineHeartRate}

	wantFire := []bool{true, true, true, false}
	wantDuration := []float64{2, 4, 6, 0}
	for i := range wantFire {
		r := svc.step(st, 2)
		if r.FireDetected != wantFire[i] {
			t.Fatalf("tick %d: fire=%v, want %v", i, r.FireDetected, wantFire[i])
		}
		if r.DurationSeconds != wantDuration[i] {
			t.Fatalf("tick %d: duration=%v, want %v", i, r.DurationSeconds, wantDuration[i])
		}
		if r.FireDetected && r.RiskScore != classifier.MaxRiskScore {
			t.Fatalf("tick %d: fire should pin risk at max, got %v", i, r.RiskScore)
		}
	}
}

func TestSimulatorStep_GasLeak(t *testing.T) {
	// gas noise, leak roll (0 triggers), leak size, heart noise, fire roll
	rnd := &seqRand{vals: []float64{0.5, 0.0, 1.0, 0.5, 0.9}}
	svc := NewSimulatorService(&recordingAssessor{}, nil, rnd, nil)
	st := &simState{worker: SimWorker{ID: "W-3"}, gas: BaselineGasPPM, heart: BaselineHeartRate}

	r := svc.step(st, 1)
	if r.GasPPM != leakMaxPPM {
		t.Fatalf("expected leak at %v ppm, got %v", leakMaxPPM, r.GasPPM)
	}
	if r.HeartRateBPM <= BaselineHeartRate {
		t.Fatalf("heart rate should rise under high gas, got %v", r.HeartRateBPM)
	}
	if got := classifier.Classify(r).Decision; got != models.DecisionCritical {
		t.Fatalf("gas leak should be CRITICAL, got %s", got)
	}
}

func TestDeriveRiskScore(t *testing.T) {
	cases := []struct {
		gas, heart float64
		fire       bool
		want       float64
	}{
		{0, BaselineHeartRate, false, 0},
		{200, BaselineHeartRate, false, 30},
		{400, BaselineHeartRate, false, 60},
		{1000, 200, false, 100},
		{0, 110, false, 20},
		{0, 60, true, 100},
	}
	for _, tc := range cases {
		if got := deriveRiskScore(tc.gas, tc.heart, tc.fire); got != tc.want {
			t.Fatalf("deriveRiskScore(%v, %v, %v) = %v, want %v", tc.gas, tc.heart, tc.fire, got, tc.want)
		}
	}
}

func TestSimulatorRun_AssessesRosterUntilCanceled(t *testing.T) {
	rec := &recordingAssessor{}
	workers := []SimWorker{{ID: "W-1", Zone: "A"}, {ID: "W-2", Zone: "B"}}
	svc := NewSimulatorService(rec, workers, newSeededRand(7), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for rec.count() < 4 {
		select {
		case <-deadline:
			t.Fatalf("simulator produced only %d readings", rec.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, src := range rec.sources {
		if src != models.SourceSimulator {
			t.Fatalf("reading %d: source %q", i, src)
		}
	}
	if rec.readings[0].WorkerID != "W-1" || rec.readings[1].WorkerID != "W-2" {
		t.Fatalf("roster order not preserved: %+v", rec.readings[:2])
	}
}

func TestSimulatorRun_NoWorkersReturnsImmediately(t *testing.T) {
	svc := NewSimulatorService(&recordingAssessor{}, nil, fixedRand(0.5), nil)
	done := make(chan struct{})
	go func() {
		svc.Run(context.Background(), time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run with empty roster should return")
	}
}
