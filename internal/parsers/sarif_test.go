package parsers

import (
	"testing"

	"github.com/synapsec/core/internal/domain/entity"
)

func sarifFixture(level string) []byte {
	return []byte(`{
		"runs": [{
			"tool": {"driver": {"name": "CodeQL", "version": "2.1.0", "rules": [
				{"id": "js/sql-injection", "defaultConfiguration": {"level": "error"}, "properties": {"tags": ["external/cwe/cwe-89"]}}
			]}},
			"results": [
				{"ruleId": "js/sql-injection", "ruleIndex": 0, "level": "` + level + `", "message": {"text": "possible SQL injection"},
				 "locations": [{"physicalLocation": {"artifactLocation": {"uri": "src/db.js"}, "region": {"startLine": 10}}}]}
			]
		}]
	}`)
}

func TestSARIF_ResolvesRuleByIndex(t *testing.T) {
	result, err := SARIF{}.Parse(sarifFixture("error"), "sarif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	f := result.Findings[0]
	if f.Core.NormalizedSeverity != entity.SeverityHigh {
		t.Errorf("level=error should map to High, got %s", f.Core.NormalizedSeverity)
	}
	if f.SAST.FilePath != "src/db.js" {
		t.Errorf("expected file path extracted from artifactLocation.uri, got %q", f.SAST.FilePath)
	}
}

func TestSARIF_FallsBackToRuleIDWhenIndexOutOfRange(t *testing.T) {
	raw := []byte(`{
		"runs": [{
			"tool": {"driver": {"name": "CodeQL", "rules": [{"id": "js/xss"}]}},
			"results": [{"ruleId": "js/xss", "ruleIndex": 99, "level": "warning", "message": {"text": "xss"}}]
		}]
	}`)

	result, err := SARIF{}.Parse(raw, "sarif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected ruleId fallback to still resolve one finding, got %d", len(result.Findings))
	}
	if result.Findings[0].SAST.RuleID != "js/xss" {
		t.Errorf("expected rule resolved via ruleId, got %q", result.Findings[0].SAST.RuleID)
	}
}

func TestSARIF_LevelResolutionOrder(t *testing.T) {
	raw := []byte(`{
		"runs": [{
			"tool": {"driver": {"name": "CodeQL", "rules": [{"id": "r1", "defaultConfiguration": {"level": "note"}}]}},
			"results": [{"ruleId": "r1", "message": {"text": "m"}}]
		}]
	}`)
	result, err := SARIF{}.Parse(raw, "sarif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Findings[0].Core.NormalizedSeverity != entity.SeverityLow {
		t.Errorf("expected rule.defaultConfiguration.level fallback (note->Low), got %s", result.Findings[0].Core.NormalizedSeverity)
	}
}

func TestSARIF_MissingRuleIdentifierIsParseError(t *testing.T) {
	raw := []byte(`{
		"runs": [{
			"tool": {"driver": {"name": "CodeQL"}},
			"results": [{"message": {"text": "m"}}]
		}]
	}`)
	result, err := SARIF{}.Parse(raw, "sarif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Findings) != 0 || len(result.Errors) != 1 {
		t.Fatalf("expected 0 findings and 1 parse error, got %d findings %d errors", len(result.Findings), len(result.Errors))
	}
}
