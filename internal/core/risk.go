package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// RiskLevel is the display category of a likelihood string
type RiskLevel string

const (
	RiskHigh    RiskLevel = "high"
	RiskMedium  RiskLevel = "medium"
	RiskLow     RiskLevel = "low"
	RiskUnknown RiskLevel = "unknown"
)

var fold = cases.Fold()

// ClassifyRisk maps a likelihood string to its risk level, ignoring case and
// surrounding whitespace. Unrecognized values map to RiskUnknown.
func ClassifyRisk(likelihood string) RiskLevel {
	switch fold.String(strings.TrimSpace(likelihood)) {
	case "high":
		return RiskHigh
	case "medium":
		return RiskMedium
	case "low":
		return RiskLow
	default:
		return RiskUnknown
	}
}

// Label is the badge text of the level, e.g. "High Risk"
func (r RiskLevel) Label() string {
	switch r {
	case RiskHigh:
		return "High Risk"
	case RiskMedium:
		return "Medium Risk"
	case RiskLow:
		return "Low Risk"
	default:
		return "Unknown Risk"
	}
}

// DisplayLikelihood returns the text to show for a likelihood, keeping unrecognized
// values verbatim and substituting "Unknown" for an empty one.
func DisplayLikelihood(likelihood string) string {
	if strings.TrimSpace(likelihood) == "" {
		return UnknownLikelihood
	}
	return likelihood
}
