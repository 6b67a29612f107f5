package models

import "strings"

// Decision is the closed set of classifier outcomes.
type Decision string

const (
	DecisionCritical Decision = "CRITICAL"
	DecisionMonitor  Decision = "MONITOR"
	DecisionNormal   Decision = "NORMAL"
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionCritical, DecisionMonitor, DecisionNormal:
		return true
	}
	return false
}

// ParseDecision normalizes s (trim + upper) and reports whether it names a decision.
func ParseDecision(s string) (Decision, bool) {
	d := Decision(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Verdict is the classifier output.
type Verdict struct {
	Decision           Decision `json:"decision" yaml:"decision"`
	Reasons            []string `json:"reasons" yaml:"reasons"`
	RecommendedActions []string `json:"recommended_actions" yaml:"recommended_actions"`
}
