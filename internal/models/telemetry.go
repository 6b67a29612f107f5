package models

// TelemetryReading is one snapshot reported by or about a worker.
// It is passed by value; nothing downstream of ingestion mutates it.
type TelemetryReading struct {
	WorkerID        string  `json:"worker_id" yaml:"worker_id"`
	RiskScore       float64 `json:"risk_score" yaml:"risk_score"` // 0..100, clamped by the classifier
	GasPPM          float64 `json:"gas_ppm" yaml:"gas_ppm"`
	HeartRateBPM    float64 `json:"heart_rate_bpm" yaml:"heart_rate_bpm"`
	FireDetected    bool    `json:"fire_detected" yaml:"fire_detected"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"` // how long the anomaly has persisted
	Zone            string  `json:"zone" yaml:"zone"`
}
