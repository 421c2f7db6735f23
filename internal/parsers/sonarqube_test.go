package parsers

import (
	"testing"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestSonarQube_ParsesIssues(t *testing.T) {
	raw := []byte(`{
		"issues": [
			{"key": "AXabc", "rule": "go:S5145", "severity": "BLOCKER", "component": "src/auth.go", "line": 42, "message": "hardcoded secret", "tags": ["cwe-798", "owasp-a2"], "project": "checkout", "branch": "main"},
			{"key": "", "rule": "go:S100", "severity": "MINOR", "component": "src/x.go", "message": "naming"}
		]
	}`)

	result, err := SonarQube{}.Parse(raw, "sonarqube")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 parse error for missing key, got %d", len(result.Errors))
	}

	f := result.Findings[0]
	if f.Core.NormalizedSeverity != entity.SeverityCritical {
		t.Errorf("BLOCKER should map to Critical, got %s", f.Core.NormalizedSeverity)
	}
	if len(f.Core.CWEIDs) != 1 || f.Core.CWEIDs[0] != "CWE-798" {
		t.Errorf("expected CWE-798 extracted, got %v", f.Core.CWEIDs)
	}
	if f.SAST.Branch != "main" {
		t.Errorf("expected branch main, got %q", f.SAST.Branch)
	}
}

func TestSonarQube_UnknownSeverityDefaultsToMedium(t *testing.T) {
	raw := []byte(`{"issues": [{"key": "K1", "rule": "R1", "severity": "WEIRD", "component": "a.go"}]}`)
	result, err := SonarQube{}.Parse(raw, "sonarqube")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Findings[0].Core.NormalizedSeverity != entity.SeverityMedium {
		t.Errorf("expected unknown severity to default to Medium, got %s", result.Findings[0].Core.NormalizedSeverity)
	}
}

func TestSonarQube_RejectsUnsupportedFormat(t *testing.T) {
	if _, err := (SonarQube{}).Parse([]byte(`{}`), "xray"); err == nil {
		t.Fatal("expected an error for an unsupported declared format")
	}
}
