// Package ingest turns raw telemetry records into validated readings.
// Anything that reaches the classifier has passed through here.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"suraksha_mesh/internal/models"
)

// Issue is one problem with one field of a record.
type Issue struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// ValidationError lists every problem found in a record.
// Index is the record position inside a batch, or -1 for a single record.
type ValidationError struct {
	Index  int
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+" "+is.Problem)
	}
	prefix := "invalid telemetry"
	if e.Index >= 0 {
		prefix = fmt.Sprintf("invalid telemetry record %d", e.Index)
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, problem string) {
	e.Issues = append(e.Issues, Issue{Field: field, Problem: problem})
}

// record accepts both the flat shape and the dashboard shape with a nested
// "sensors" object. Top-level fields win.
type record struct {
	WorkerID        json.RawMessage `json:"worker_id"`
	RiskScore       json.RawMessage `json:"risk_score"`
	GasPPM          json.RawMessage `json:"gas_ppm"`
	HeartRateBPM    json.RawMessage `json:"heart_rate_bpm"`
	HeartRate       json.RawMessage `json:"heart_rate"`
	FireDetected    json.RawMessage `json:"fire_detected"`
	Fire            json.RawMessage `json:"fire"`
	DurationSeconds json.RawMessage `json:"duration_seconds"`
	Zone            json.RawMessage `json:"zone"`
	Sensors         json.RawMessage `json:"sensors"`
}

type sensors struct {
	GasPPM       json.RawMessage `json:"gas_ppm"`
	HeartRateBPM json.RawMessage `json:"heart_rate_bpm"`
	HeartRate    json.RawMessage `json:"heart_rate"`
	FireDetected json.RawMessage `json:"fire_detected"`
	Fire         json.RawMessage `json:"fire"`
}

// Parse validates a single JSON object.
func Parse(raw []byte) (models.TelemetryReading, error) {
	if !json.Valid(raw) {
		return models.TelemetryReading{}, malformed(raw)
	}
	return parseRecord(raw, -1)
}

// ParseBatch validates a JSON array of objects. A single object is accepted
// as a batch of one. The first invalid record fails the whole batch.
func ParseBatch(raw []byte) ([]models.TelemetryReading, error) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return nil, malformed(trimmed)
	}
	if isObject(trimmed) {
		r, err := parseRecord(trimmed, -1)
		if err != nil {
			return nil, err
		}
		return []models.TelemetryReading{r}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		verr := &ValidationError{Index: -1}
		verr.add("body", "must be a JSON array or object")
		return nil, verr
	}
	if len(elems) == 0 {
		verr := &ValidationError{Index: -1}
		verr.add("batch", "must contain at least one record")
		return nil, verr
	}

	out := make([]models.TelemetryReading, 0, len(elems))
	for i, elem := range elems {
		r, err := parseRecord(elem, i)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// malformed reports syntactically broken input; raw must fail json.Valid.
func malformed(raw []byte) *ValidationError {
	var v any
	err := json.Unmarshal(raw, &v)
	verr := &ValidationError{Index: -1}
	problem := "is not valid JSON"
	if err != nil {
		problem += ": " + err.Error()
	}
	verr.add("body", problem)
	return verr
}

func isObject(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '{'
}

// parseRecord validates one well-formed JSON value as a reading.
func parseRecord(raw json.RawMessage, index int) (models.TelemetryReading, error) {
	verr := &ValidationError{Index: index}
	if !isObject(raw) {
		field := "record"
		if index < 0 {
			field = "body"
		}
		verr.add(field, "must be a JSON object")
		return models.TelemetryReading{}, verr
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		verr.add("body", "is not valid JSON: "+err.Error())
		return models.TelemetryReading{}, verr
	}

	var s sensors
	if present(rec.Sensors) {
		if !isObject(rec.Sensors) || json.Unmarshal(rec.Sensors, &s) != nil {
			verr.add("sensors", "must be an object")
			s = sensors{}
		}
	}

	var out models.TelemetryReading
	out.WorkerID = requiredString(verr, "worker_id", rec.WorkerID)
	out.RiskScore = requiredNumber(verr, "risk_score", rec.RiskScore, false)
	out.GasPPM = requiredNumber(verr, "gas_ppm", first(rec.GasPPM, s.GasPPM), true)
	out.HeartRateBPM = requiredNumber(verr, "heart_rate_bpm",
		first(rec.HeartRateBPM, rec.HeartRate, s.HeartRateBPM, s.HeartRate), true)
	out.DurationSeconds = requiredNumber(verr, "duration_seconds", rec.DurationSeconds, true)
	out.FireDetected = optionalBool(verr, "fire_detected", first(rec.FireDetected, rec.Fire, s.FireDetected, s.Fire))
	out.Zone = optionalString(verr, "zone", rec.Zone)

	if len(verr.Issues) > 0 {
		return models.TelemetryReading{}, verr
	}
	return out, nil
}

// first returns the first present value; JSON null counts as absent.
func first(vals ...json.RawMessage) json.RawMessage {
	for _, v := range vals {
		if present(v) {
			return v
		}
	}
	return nil
}

func present(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

func requiredString(verr *ValidationError, field string, v json.RawMessage) string {
	if !present(v) {
		verr.add(field, "is required")
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		verr.add(field, "must be a string")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		verr.add(field, "must not be empty")
	}
	return s
}

func optionalString(verr *ValidationError, field string, v json.RawMessage) string {
	if !present(v) {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		verr.add(field, "must be a string")
		return ""
	}
	return strings.TrimSpace(s)
}

func requiredNumber(verr *ValidationError, field string, v json.RawMessage, nonNegative bool) float64 {
	if !present(v) {
		verr.add(field, "is required")
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		verr.add(field, "must be numeric")
		return 0
	}
	if nonNegative && f < 0 {
		verr.add(field, "must be non-negative")
		return 0
	}
	return f
}

func optionalBool(verr *ValidationError, field string, v json.RawMessage) bool {
	if !present(v) {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		verr.add(field, "must be a boolean")
		return false
	}
	return b
}
