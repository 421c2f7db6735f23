package parsers

import (
	"testing"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestTenable_SkipsInfoGeneralRows(t *testing.T) {
	raw := []byte("Plugin,Severity,Family,Name,Host,URL,Method,Parameter,CVSS,CVSS Vector,Cross References\n" +
		"100,Info,General,Site map,host1,http://x/,GET,,,,\n" +
		"200,High,SQL Injection,SQLi,host1,http://x/login,POST,user,8.1,,CWE:89\n" +
		"300,Info,General,Discovery,host1,http://x/,GET,,,,\n" +
		"400,Medium,XSS,Reflected XSS,host1,http://x/search,GET,q,5.4,,\"CWE:79, CVE-2020-1234\"\n" +
		"500,Info,General,Discovery,host1,http://x/,GET,,,,\n")

	result, err := Tenable{}.Parse(raw, "tenable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings after dropping 3 Info+General rows, got %d", len(result.Findings))
	}
	if len(result.Errors) != 0 {
		t.Errorf("skipped rows must not produce parse errors, got %d", len(result.Errors))
	}

	second := result.Findings[1]
	if len(second.Core.CWEIDs) != 1 || second.Core.CWEIDs[0] != "CWE-79" {
		t.Errorf("expected CWE-79 extracted, got %v", second.Core.CWEIDs)
	}
	if len(second.Core.CVEIDs) != 1 || second.Core.CVEIDs[0] != "CVE-2020-1234" {
		t.Errorf("expected comma-separated CVE extracted, got %v", second.Core.CVEIDs)
	}
}

func TestTenable_MissingPluginIsParseError(t *testing.T) {
	raw := []byte("Plugin,Severity,Family\n,High,Web\n")
	result, err := Tenable{}.Parse(raw, "tenable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 parse error for missing Plugin, got %d", len(result.Errors))
	}
}

func TestTenable_SeverityPassthrough(t *testing.T) {
	raw := []byte("Plugin,Severity,Family,Name,Host,URL,Method,Parameter\n1,Critical,Web,n,h,u,GET,p\n")
	result, err := Tenable{}.Parse(raw, "tenable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Findings[0].Core.NormalizedSeverity != entity.SeverityCritical {
		t.Errorf("expected Critical to pass through unchanged, got %s", result.Findings[0].Core.NormalizedSeverity)
	}
}
