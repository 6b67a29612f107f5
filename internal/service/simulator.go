package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"suraksha_mesh/internal/classifier"
	"suraksha_mesh/internal/logger"
	"suraksha_mesh/internal/models"
)

// Simulation constants.
const (
	BaselineGasPPM    = 20.0
	BaselineHeartRate = 80.0
	MaxGasPPM         = 1000.0
	MinHeartRate      = 45.0
	MaxHeartRate      = 190.0

	gasNoisePPM     = 12.0 // peak-to-peak per tick
	heartNoiseBPM   = 6.0
	meanReversion   = 0.15 // share of the distance to baseline recovered per tick
	gasLeakChance   = 0.01
	fireChance      = 0.002
	fireTicks       = 3
	leakMinPPM      = 320.0
	leakMaxPPM      = 650.0
	heartStressRate = 0.4 // bpm gained per ppm above the gas threshold, scaled by 1/100
)

// SimWorker is one worker driven by the simulator.
type SimWorker struct {
	ID   string
	Zone string
}

// randSource is the part of *rand.Rand the simulator uses.
type randSource interface {
	Float64() float64
}

func newSeededRand(seed int64) randSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// simState is the evolving sensor state of one worker.
type simState struct {
	worker   SimWorker
	gas      float64
	heart    float64
	fireLeft int
	anomalyS float64
}

// SimulatorService produces telemetry for a fixed roster and assesses it.
type SimulatorService struct {
	assessor Assessment
	workers  []SimWorker
	rnd      randSource
	log      *logger.Logger
}

func NewSimulatorService(assessor Assessment, workers []SimWorker, rnd randSource, log *logger.Logger) *SimulatorService {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulatorService{assessor: assessor, workers: workers, rnd: rnd, log: log}
}

// Run ticks at the given interval until ctx is canceled. All simulated
// state is owned by this goroutine.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if len(s.workers) == 0 || tick <= 0 {
		return
	}

	states := make([]*simState, len(s.workers))
	for i, w := range s.workers {
		states[i] = &simState{worker: w, gas: BaselineGasPPM, heart: BaselineHeartRate}
	}

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, st := range states {
				r := s.step(st, tick.Seconds())
				a, err := s.assessor.Assess(ctx, r, models.SourceSimulator)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.log.Errorw("simulator_assess_failed", "worker_id", r.WorkerID, "err", err)
					continue
				}
				s.log.Debugw("simulator_tick",
					"worker_id", r.WorkerID,
					"decision", a.Verdict.Decision,
					"risk_score", r.RiskScore,
				)
			}
		}
	}
}

// step advances st by dt seconds and returns the resulting reading.
func (s *SimulatorService) step(st *simState, dt float64) models.TelemetryReading {
	// gas: noisy walk back toward baseline, with rare leaks
	st.gas += (s.rnd.Float64() - 0.5) * gasNoisePPM
	st.gas += (BaselineGasPPM - st.gas) * meanReversion
	if s.rnd.Float64() < gasLeakChance {
		st.gas = leakMinPPM + s.rnd.Float64()*(leakMaxPPM-leakMinPPM)
	}
	st.gas = clamp(st.gas, 0, MaxGasPPM)

	// heart rate: noisy walk, pushed up while gas is high
	st.heart += (s.rnd.Float64() - 0.5) * heartNoiseBPM
	st.heart += (BaselineHeartRate - st.heart) * meanReversion
	if st.gas > classifier.GasThresholdPPM {
		st.heart += (st.gas - classifier.GasThresholdPPM) * heartStressRate / 100
	}
	st.heart = clamp(st.heart, MinHeartRate, MaxHeartRate)

	// fire lasts a few ticks once triggered
	if st.fireLeft > 0 {
		st.fireLeft--
	} else if s.rnd.Float64() < fireChance {
		st.fireLeft = fireTicks
	}
	fire := st.fireLeft > 0

	risk := deriveRiskScore(st.gas, st.heart, fire)
	if risk > classifier.HighRiskScore {
		st.anomalyS += dt
	} else {
		st.anomalyS = 0
	}

	return models.TelemetryReading{
		WorkerID:        st.worker.ID,
		RiskScore:       risk,
		GasPPM:          round1(st.gas),
		HeartRateBPM:    round1(st.heart),
		FireDetected:    fire,
		DurationSeconds: st.anomalyS,
		Zone:            st.worker.Zone,
	}
}

// deriveRiskScore weights gas at 60 points and heart-rate excess at 40.
// Fire pins the score at the maximum.
func deriveRiskScore(gas, heart float64, fire bool) float64 {
	if fire {
		return classifier.MaxRiskScore
	}
	gasPart := clamp(gas/(classifier.GasThresholdPPM+100), 0, 1) * 60
	heartPart := clamp((heart-BaselineHeartRate)/60, 0, 1) * 40
	return round1(gasPart + heartPart)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
