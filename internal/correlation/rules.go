package correlation

import (
	"strings"

	"github.com/synapsec/core/internal/domain/entity"
)

// Match is one correlation hit between two candidates.
type Match struct {
	RelationshipType entity.RelationshipType
	Confidence       entity.ConfidenceLevel
	Rule             string
}

// Correlate applies all six rules (spec §4.E) to a (new, existing) pair and
// returns every match. Rules that require fields only hold when both sides
// have them; missing fields suppress that rule, never panic.
func Correlate(new, existing Candidate) []Match {
	var matches []Match
	for _, rule := range []func(Candidate, Candidate) (Match, bool){
		cr1, cr2, cr3, cr4, cr5, cr6,
	} {
		if m, ok := rule(new, existing); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

// cr1: different categories in {SCA, DAST}; same app; share a CVE.
func cr1(a, b Candidate) (Match, bool) {
	if !isPair(a.Category, b.Category, "SCA", "DAST") {
		return Match{}, false
	}
	if a.ApplicationID != b.ApplicationID {
		return Match{}, false
	}
	if !shareAny(a.CVEIDs, b.CVEIDs) {
		return Match{}, false
	}
	return Match{RelationshipType: entity.RelationshipCorrelatedWith, Confidence: entity.ConfidenceHigh, Rule: "CR-1"}, true
}

// cr2: different categories in {SAST, DAST}; same app; share a CWE; the SAST
// side has branch main.
func cr2(a, b Candidate) (Match, bool) {
	if !isPair(a.Category, b.Category, "SAST", "DAST") {
		return Match{}, false
	}
	if a.ApplicationID != b.ApplicationID {
		return Match{}, false
	}
	if !shareAny(a.CWEIDs, b.CWEIDs) {
		return Match{}, false
	}
	sast, ok := pick(a, b, "SAST")
	if !ok || sast.Branch != productionBranch {
		return Match{}, false
	}
	return Match{RelationshipType: entity.RelationshipCorrelatedWith, Confidence: entity.ConfidenceMedium, Rule: "CR-2"}, true
}

// cr3: one SCA, one SAST; same app; SAST branch main; SCA package_name is a
// case-insensitive substring of SAST file_path (or rule_id if no file).
func cr3(a, b Candidate) (Match, bool) {
	if !isPair(a.Category, b.Category, "SCA", "SAST") {
		return Match{}, false
	}
	if a.ApplicationID != b.ApplicationID {
		return Match{}, false
	}
	sca, ok := pick(a, b, "SCA")
	if !ok {
		return Match{}, false
	}
	sast, ok := pick(a, b, "SAST")
	if !ok || sast.Branch != productionBranch {
		return Match{}, false
	}
	if sca.PackageName == "" {
		return Match{}, false
	}
	haystack := sast.FilePath
	if haystack == "" {
		haystack = sast.RuleID
	}
	if haystack == "" {
		return Match{}, false
	}
	if !strings.Contains(strings.ToLower(haystack), strings.ToLower(sca.PackageName)) {
		return Match{}, false
	}
	return Match{RelationshipType: entity.RelationshipCorrelatedWith, Confidence: entity.ConfidenceMedium, Rule: "CR-3"}, true
}

// cr4: one DAST, one SAST; same app; SAST branch main; DAST has a
// target_url; SAST has a file_path; share a CWE.
func cr4(a, b Candidate) (Match, bool) {
	if !isPair(a.Category, b.Category, "DAST", "SAST") {
		return Match{}, false
	}
	if a.ApplicationID != b.ApplicationID {
		return Match{}, false
	}
	dast, ok := pick(a, b, "DAST")
	if !ok || dast.TargetURL == "" {
		return Match{}, false
	}
	sast, ok := pick(a, b, "SAST")
	if !ok || sast.Branch != productionBranch || sast.FilePath == "" {
		return Match{}, false
	}
	if !shareAny(a.CWEIDs, b.CWEIDs) {
		return Match{}, false
	}
	return Match{RelationshipType: entity.RelationshipCorrelatedWith, Confidence: entity.ConfidenceMedium, Rule: "CR-4"}, true
}

// cr5: both SAST; same app; same branch; same rule_id; different file_path.
func cr5(a, b Candidate) (Match, bool) {
	if a.Category != "SAST" || b.Category != "SAST" {
		return Match{}, false
	}
	if a.ApplicationID != b.ApplicationID {
		return Match{}, false
	}
	if a.Branch == "" || a.Branch != b.Branch {
		return Match{}, false
	}
	if a.RuleID == "" || a.RuleID != b.RuleID {
		return Match{}, false
	}
	if a.FilePath == b.FilePath {
		return Match{}, false
	}
	return Match{RelationshipType: entity.RelationshipGroupedUnder, Confidence: entity.ConfidenceHigh, Rule: "CR-5"}, true
}

// cr6: both SAST; same app; same branch; share a CWE; same file_path; not
// the same finding.
func cr6(a, b Candidate) (Match, bool) {
	if a.Category != "SAST" || b.Category != "SAST" {
		return Match{}, false
	}
	if a.ID == b.ID {
		return Match{}, false
	}
	if a.ApplicationID != b.ApplicationID {
		return Match{}, false
	}
	if a.Branch == "" || a.Branch != b.Branch {
		return Match{}, false
	}
	if a.FilePath == "" || a.FilePath != b.FilePath {
		return Match{}, false
	}
	if !shareAny(a.CWEIDs, b.CWEIDs) {
		return Match{}, false
	}
	return Match{RelationshipType: entity.RelationshipGroupedUnder, Confidence: entity.ConfidenceHigh, Rule: "CR-6"}, true
}

// isPair reports whether {a, b} as an unordered pair equals {want1, want2}.
func isPair(a, b, want1, want2 string) bool {
	return (a == want1 && b == want2) || (a == want2 && b == want1)
}

// pick returns whichever of a, b has the given category.
func pick(a, b Candidate, category string) (Candidate, bool) {
	if a.Category == category {
		return a, true
	}
	if b.Category == category {
		return b, true
	}
	return Candidate{}, false
}
