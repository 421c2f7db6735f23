package correlation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestCR1_SharedCVEAcrossSCAAndDAST(t *testing.T) {
	app := uuid.New()
	sca := Candidate{ID: uuid.New(), Category: "SCA", ApplicationID: app, CVEIDs: []string{"CVE-2021-44228"}}
	dast := Candidate{ID: uuid.New(), Category: "DAST", ApplicationID: app, CVEIDs: []string{"CVE-2021-44228"}}

	matches := Correlate(sca, dast)
	if !hasRule(matches, "CR-1") {
		t.Fatalf("expected CR-1 match, got %+v", matches)
	}
}

func TestCR2_RequiresMainBranchOnSASTSide(t *testing.T) {
	app := uuid.New()
	sast := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, CWEIDs: []string{"CWE-79"}, Branch: "feature-x"}
	dast := Candidate{ID: uuid.New(), Category: "DAST", ApplicationID: app, CWEIDs: []string{"CWE-79"}}

	if hasRule(Correlate(sast, dast), "CR-2") {
		t.Fatal("expected CR-2 to be suppressed when SAST branch is not main")
	}

	sast.Branch = "main"
	if !hasRule(Correlate(sast, dast), "CR-2") {
		t.Fatal("expected CR-2 to fire once SAST branch is main")
	}
}

func TestCR3_PackageNameSubstringOfFilePath(t *testing.T) {
	app := uuid.New()
	sca := Candidate{ID: uuid.New(), Category: "SCA", ApplicationID: app, PackageName: "log4j-core"}
	sast := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, Branch: "main", FilePath: "vendor/log4j-core/Logger.java"}

	if !hasRule(Correlate(sca, sast), "CR-3") {
		t.Fatal("expected CR-3 case-insensitive substring match to fire")
	}
}

func TestCR4_RequiresSharedCWEAndBothLocations(t *testing.T) {
	app := uuid.New()
	dast := Candidate{ID: uuid.New(), Category: "DAST", ApplicationID: app, CWEIDs: []string{"CWE-89"}, TargetURL: "https://x/login"}
	sast := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, CWEIDs: []string{"CWE-89"}, Branch: "main", FilePath: "src/login.go"}

	if !hasRule(Correlate(dast, sast), "CR-4") {
		t.Fatal("expected CR-4 to fire")
	}
}

func TestCR5_SameRuleDifferentFile(t *testing.T) {
	app := uuid.New()
	a := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, Branch: "main", RuleID: "go:S5145", FilePath: "a.go"}
	b := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, Branch: "main", RuleID: "go:S5145", FilePath: "b.go"}

	if !hasRule(Correlate(a, b), "CR-5") {
		t.Fatal("expected CR-5 to group same rule across different files")
	}
}

func TestCR6_SameFileDifferentFindingSharedCWE(t *testing.T) {
	app := uuid.New()
	a := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, Branch: "main", FilePath: "a.go", CWEIDs: []string{"CWE-89"}}
	b := Candidate{ID: uuid.New(), Category: "SAST", ApplicationID: app, Branch: "main", FilePath: "a.go", CWEIDs: []string{"CWE-89"}}

	if !hasRule(Correlate(a, b), "CR-6") {
		t.Fatal("expected CR-6 to fire for same file, shared CWE, distinct findings")
	}
}

func TestCR6_SuppressedForSameFinding(t *testing.T) {
	id := uuid.New()
	app := uuid.New()
	a := Candidate{ID: id, Category: "SAST", ApplicationID: app, Branch: "main", FilePath: "a.go", CWEIDs: []string{"CWE-89"}}

	if hasRule(Correlate(a, a), "CR-6") {
		t.Fatal("CR-6 must not match a finding against itself")
	}
}

func TestCrossToolDedup_SCA(t *testing.T) {
	a := Candidate{SourceTool: "Xray", Category: "SCA", CVEIDs: []string{"CVE-2021-44228"}, PackageName: "log4j-core"}
	b := Candidate{SourceTool: "Snyk", Category: "SCA", CVEIDs: []string{"CVE-2021-44228"}, PackageName: "log4j-core"}

	match, ok := CrossToolDedup(a, b)
	if !ok || match.Confidence != entity.ConfidenceHigh {
		t.Fatalf("expected High confidence duplicate, got %+v ok=%v", match, ok)
	}

	b.PackageName = "log4j-api"
	match, ok = CrossToolDedup(a, b)
	if !ok || match.Confidence != entity.ConfidenceMedium {
		t.Fatalf("expected Medium confidence on differing package, got %+v ok=%v", match, ok)
	}
}

func TestCrossToolDedup_SameToolNeverMatches(t *testing.T) {
	a := Candidate{SourceTool: "Xray", Category: "SCA", CVEIDs: []string{"CVE-1"}}
	b := Candidate{SourceTool: "Xray", Category: "SCA", CVEIDs: []string{"CVE-1"}}
	if _, ok := CrossToolDedup(a, b); ok {
		t.Fatal("same source_tool must never dedup")
	}
}

func hasRule(matches []Match, rule string) bool {
	for _, m := range matches {
		if m.Rule == rule {
			return true
		}
	}
	return false
}
