package models

import "time"

// Assessment sources.
const (
	SourceAPI       = "api"
	SourceBatch     = "batch"
	SourceSimulator = "simulator"
	SourceCLI       = "cli"
)

// Assessment is one persisted classification.
type Assessment struct {
	ID         string           `json:"id" yaml:"id"`
	AssessedAt time.Time        `json:"assessed_at" yaml:"assessed_at"`
	Source     string           `json:"source" yaml:"source"` // api | batch | simulator | cli
	Reading    TelemetryReading `json:"reading" yaml:"reading"`
	Verdict    Verdict          `json:"verdict" yaml:"verdict"`
}

// WorkerStatus is the latest assessment summary for a single worker.
type WorkerStatus struct {
	WorkerID         string    `json:"worker_id"`
	Zone             string    `json:"zone"`
	Decision         Decision  `json:"decision"`
	RiskScore        float64   `json:"risk_score"`
	GasPPM           float64   `json:"gas_ppm"`
	HeartRateBPM     float64   `json:"heart_rate_bpm"`
	FireDetected     bool      `json:"fire_detected"`
	LastAssessmentID string    `json:"last_assessment_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StatusFromAssessment projects an assessment onto the status board row.
func StatusFromAssessment(a Assessment) WorkerStatus {
	return WorkerStatus{
		WorkerID:         a.Reading.WorkerID,
		Zone:             a.Reading.Zone,
		Decision:         a.Verdict.Decision,
		RiskScore:        a.Reading.RiskScore,
		GasPPM:           a.Reading.GasPPM,
		HeartRateBPM:     a.Reading.HeartRateBPM,
		FireDetected:     a.Reading.FireDetected,
		LastAssessmentID: a.ID,
		UpdatedAt:        a.AssessedAt,
	}
}
