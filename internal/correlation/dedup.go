package correlation

import (
	"fmt"

	"github.com/synapsec/core/internal/domain/entity"
)

// DedupMatch is the result of the cross-tool dedup pure function: a
// duplicate_of relationship candidate, or none.
type DedupMatch struct {
	Confidence entity.ConfidenceLevel
	Reason     string
}

// CrossToolDedup implements spec §4.E's "Cross-tool dedup (same category,
// different tool)" rules. Both candidates must already be known to belong to
// the same application; this function does not check that itself (callers
// filter the candidate set first).
func CrossToolDedup(a, b Candidate) (DedupMatch, bool) {
	if a.Category != b.Category || a.SourceTool == b.SourceTool {
		return DedupMatch{}, false
	}

	switch a.Category {
	case "SCA":
		return scaDedup(a, b)
	case "SAST":
		return sastDedup(a, b)
	case "DAST":
		return dastDedup(a, b)
	default:
		return DedupMatch{}, false
	}
}

func scaDedup(a, b Candidate) (DedupMatch, bool) {
	if !shareAny(a.CVEIDs, b.CVEIDs) {
		return DedupMatch{}, false
	}
	confidence := entity.ConfidenceMedium
	if a.PackageName != "" && a.PackageName == b.PackageName {
		confidence = entity.ConfidenceHigh
	}
	return DedupMatch{
		Confidence: confidence,
		Reason:     fmt.Sprintf("shared CVE between %s and %s", a.SourceTool, b.SourceTool),
	}, true
}

func sastDedup(a, b Candidate) (DedupMatch, bool) {
	if !shareAny(a.CWEIDs, b.CWEIDs) {
		return DedupMatch{}, false
	}
	if a.Branch == "" || b.Branch == "" || a.Branch != b.Branch {
		return DedupMatch{}, false
	}
	if a.FilePath == "" || b.FilePath == "" || a.FilePath != b.FilePath {
		return DedupMatch{}, false
	}

	confidence := entity.ConfidenceMedium
	if a.LineNumber != nil && b.LineNumber != nil {
		delta := *a.LineNumber - *b.LineNumber
		if delta < 0 {
			delta = -delta
		}
		if delta <= 5 {
			confidence = entity.ConfidenceHigh
		}
	}
	return DedupMatch{
		Confidence: confidence,
		Reason:     fmt.Sprintf("shared CWE and file_path between %s and %s", a.SourceTool, b.SourceTool),
	}, true
}

func dastDedup(a, b Candidate) (DedupMatch, bool) {
	if !shareAny(a.CWEIDs, b.CWEIDs) {
		return DedupMatch{}, false
	}
	if a.TargetURL == "" || b.TargetURL == "" || a.TargetURL != b.TargetURL {
		return DedupMatch{}, false
	}

	confidence := entity.ConfidenceMedium
	if a.Parameter != "" && b.Parameter != "" && a.Parameter == b.Parameter {
		confidence = entity.ConfidenceHigh
	}
	return DedupMatch{
		Confidence: confidence,
		Reason:     fmt.Sprintf("shared CWE and target_url between %s and %s", a.SourceTool, b.SourceTool),
	}, true
}
