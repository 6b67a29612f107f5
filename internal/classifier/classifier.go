// Package classifier evaluates worker telemetry against fixed safety
// thresholds. It performs no I/O and keeps no state, so Classify is safe to
// call from any number of goroutines.
package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"suraksha_mesh/internal/models"
)

// Thresholds used by the rule ladder.
const (
	GasThresholdPPM    = 300.0
	HighRiskScore      = 80.0
	LowRiskScore       = 50.0
	SpikeWindowSeconds = 5.0

	MinRiskScore = 0.0
	MaxRiskScore = 100.0
)

const blankZoneLabel = "affected zone"

// Classify applies the rule ladder to r and returns a verdict.
// Evaluation stops at the first matching category.
func Classify(r models.TelemetryReading) models.Verdict {
	score, clamped := ClampRiskScore(r.RiskScore)

	decision, reasons := evaluate(r, score)
	if clamped {
		reasons = append(reasons, fmt.Sprintf("riskScore clamped from %s to %s", num(r.RiskScore), num(score)))
	}

	return models.Verdict{
		Decision:           decision,
		Reasons:            reasons,
		RecommendedActions: Actions(decision, r),
	}
}

func evaluate(r models.TelemetryReading, score float64) (models.Decision, []string) {
	// 1) Emergency override: gas or fire, regardless of score.
	if reasons := emergencyReasons(r); len(reasons) > 0 {
		return models.DecisionCritical, reasons
	}

	// 2) and 3) High score: persistence decides between danger and spike.
	if score > HighRiskScore {
		if r.DurationSeconds > SpikeWindowSeconds {
			return models.DecisionCritical, []string{
				fmt.Sprintf("sustained elevated risk score %s%% for %ss", num(score), num(r.DurationSeconds)),
			}
		}
		return models.DecisionMonitor, []string{
			fmt.Sprintf("risk score spike %s%% of short duration %ss — likely sensor noise", num(score), num(r.DurationSeconds)),
		}
	}

	// 4) Low risk.
	if score < LowRiskScore {
		return models.DecisionNormal, []string{
			fmt.Sprintf("risk score %s%% below safety threshold", num(score)),
		}
	}

	// 5) 50..80 inclusive is not covered by any documented rule.
	return models.DecisionMonitor, []string{
		fmt.Sprintf("risk score %s%% in ambiguous band, manual review recommended", num(score)),
	}
}

func emergencyReasons(r models.TelemetryReading) []string {
	var reasons []string
	if r.GasPPM > GasThresholdPPM {
		reasons = append(reasons, fmt.Sprintf("gas concentration %sppm exceeds %sppm threshold", num(r.GasPPM), num(GasThresholdPPM)))
	}
	if r.FireDetected {
		reasons = append(reasons, "fire detected")
	}
	return reasons
}

// Actions returns the recommended actions for a decision about r.
// Unknown decisions get no actions.
func Actions(d models.Decision, r models.TelemetryReading) []string {
	switch d {
	case models.DecisionCritical:
		return []string{
			"Evacuate " + zoneLabel(r.Zone) + " immediately",
			"Notify safety officer",
			"Isolate hazard source",
		}
	case models.DecisionMonitor:
		return []string{
			"Continue monitoring " + r.WorkerID,
			"Flag for supervisor review",
		}
	case models.DecisionNormal:
		return []string{"No action required"}
	default:
		return nil
	}
}

// ClampRiskScore bounds score to [MinRiskScore, MaxRiskScore] and reports
// whether it had to move.
func ClampRiskScore(score float64) (float64, bool) {
	switch {
	case score < MinRiskScore:
		return MinRiskScore, true
	case score > MaxRiskScore:
		return MaxRiskScore, true
	default:
		return score, false
	}
}

func zoneLabel(zone string) string {
	if z := strings.TrimSpace(zone); z != "" {
		return z
	}
	return blankZoneLabel
}

// num renders v in its shortest form: 450, 5.001, 92.5.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
