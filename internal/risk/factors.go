// Package risk implements the five-factor weighted composite risk score
// (spec §4.G) as a pure function over an explicit factor struct, plus a
// Recompute helper that assembles that struct from stored entities at the
// documented trigger points (finding creation, status change, relationship
// add, SLA recalculation).
//
// Grounded in modules/scanning/service/ingestion_service.go's
// calculateComprehensiveRiskScore/calculateDynamicSeverity (near-identical
// weighted-subscore-table shape); this repo's scorer generalizes from the
// teacher's fixed 3-factor blend to the spec's 5-factor one.
package risk

import "github.com/synapsec/core/internal/domain/entity"

// Factors is every signal the composite score consumes, already resolved
// from whatever entity it originated in (spec §4.G subscore tables).
type Factors struct {
	Severity entity.Severity

	AssetCriticality entity.AssetCriticality

	// Exploitability signals, evaluated in the spec's documented priority
	// order; the first populated one wins.
	KnownExploited      bool
	DastConfirmed       bool
	ExploitMaturity     entity.ExploitMaturity
	EPSS                *float64
	SASTTaintConfidence string // "High" | "Medium" | "Low"

	// SLARatio is elapsed-time-since-first-seen divided by the SLA window
	// (time between first_seen and sla_due_date). Nil when no SLA applies.
	SLARatio *float64

	DistinctTools      int
	CorrelatedFindings int
}

// Weights are the linear blend coefficients; they must sum to 1.0. Defaults
// match spec §4.G.
type Weights struct {
	Severity         float64
	AssetCriticality float64
	Exploitability   float64
	Age              float64
	Correlation      float64
}

// DefaultWeights is the configured default blend (spec §4.G).
var DefaultWeights = Weights{
	Severity:         0.30,
	AssetCriticality: 0.25,
	Exploitability:   0.20,
	Age:              0.15,
	Correlation:      0.10,
}

func severitySubscore(s entity.Severity) float64 {
	switch s {
	case entity.SeverityCritical:
		return 100
	case entity.SeverityHigh:
		return 80
	case entity.SeverityMedium:
		return 50
	case entity.SeverityLow:
		return 25
	case entity.SeverityInfo:
		return 5
	default:
		return 5
	}
}

func assetCriticalitySubscore(c entity.AssetCriticality) float64 {
	switch c {
	case entity.CriticalityVeryHigh:
		return 100
	case entity.CriticalityHigh:
		return 85
	case entity.CriticalityMediumHigh:
		return 70
	case entity.CriticalityMedium:
		return 55
	case entity.CriticalityMediumLow:
		return 35
	case entity.CriticalityLow:
		return 15
	default:
		return 55
	}
}

// exploitabilitySubscore walks the spec's priority-ordered signal list and
// returns the first one that applies.
func exploitabilitySubscore(f Factors) float64 {
	if f.KnownExploited || f.DastConfirmed {
		return 100
	}
	switch f.ExploitMaturity {
	case entity.ExploitMaturityWeaponized:
		return 100
	case entity.ExploitMaturityFunctional:
		return 80
	case entity.ExploitMaturityPoC:
		return 50
	case entity.ExploitMaturityUnknown:
		return 20
	}
	if f.EPSS != nil {
		epss := *f.EPSS
		if epss < 0 {
			epss = 0
		}
		if epss > 1 {
			epss = 1
		}
		return epss * 100
	}
	switch f.SASTTaintConfidence {
	case "High":
		return 80
	case "Medium", "Med":
		return 50
	case "Low":
		return 20
	}
	return 20
}

func ageSubscore(f Factors) float64 {
	if f.SLARatio == nil {
		return 20
	}
	ratio := *f.SLARatio
	switch {
	case ratio >= 2.0:
		return 100
	case ratio >= 1.0:
		return 80
	case ratio >= 0.75:
		return 60
	case ratio >= 0.50:
		return 40
	default:
		return 20
	}
}

func correlationSubscore(f Factors) float64 {
	if f.DistinctTools >= 3 || f.CorrelatedFindings >= 3 {
		return 100
	}
	if f.DistinctTools >= 2 {
		return 70
	}
	if f.CorrelatedFindings >= 2 {
		return 40
	}
	return 10
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// Compute returns the composite score (clamped to [0,100], rounded to one
// decimal) and its priority bucket (spec §4.G).
func Compute(f Factors, w Weights) (float64, entity.Priority) {
	composite := w.Severity*severitySubscore(f.Severity) +
		w.AssetCriticality*assetCriticalitySubscore(f.AssetCriticality) +
		w.Exploitability*exploitabilitySubscore(f) +
		w.Age*ageSubscore(f) +
		w.Correlation*correlationSubscore(f)

	composite = round1(clamp(composite, 0, 100))
	return composite, bucket(composite)
}

func bucket(score float64) entity.Priority {
	switch {
	case score >= 80:
		return entity.PriorityP1
	case score >= 60:
		return entity.PriorityP2
	case score >= 40:
		return entity.PriorityP3
	case score >= 20:
		return entity.PriorityP4
	default:
		return entity.PriorityP5
	}
}
