package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/fingerprint"
)

// SonarQube parses SonarQube's issues-export JSON into SAST findings.
type SonarQube struct{}

func (SonarQube) SourceTool() string       { return "SonarQube" }
func (SonarQube) Category() entity.Category { return entity.CategorySAST }

type sonarQubeExport struct {
	Issues []sonarQubeIssue `json:"issues"`
}

type sonarQubeIssue struct {
	Key        string   `json:"key"`
	Rule       string   `json:"rule"`
	Severity   string   `json:"severity"`
	Component  string   `json:"component"`
	Line       *int     `json:"line"`
	Message    string   `json:"message"`
	Tags       []string `json:"tags"`
	Project    string   `json:"project"`
	Branch     string   `json:"branch"`
	Language   string   `json:"language,omitempty"`
	QualityGate string  `json:"qualityGate,omitempty"`
}

func (p SonarQube) Parse(raw []byte, declaredFormat string) (ParseResult, error) {
	if declaredFormat != "sonarqube" && declaredFormat != "json" {
		return ParseResult{}, fmt.Errorf("sonarqube parser does not support format %q", declaredFormat)
	}

	var export sonarQubeExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return ParseResult{}, fmt.Errorf("sonarqube: invalid json: %w", err)
	}

	result := ParseResult{SourceTool: p.SourceTool()}

	for i, issue := range export.Issues {
		if issue.Key == "" {
			result.Errors = append(result.Errors, ParseError{
				RecordIndex: i,
				Field:       "key",
				Message:     "missing issue_id",
			})
			continue
		}

		filePath := issue.Component
		branch := issue.Branch

		severity := mapSonarQubeSeverity(issue.Severity)

		cwes, owasp := extractSonarQubeTags(issue.Tags)

		core := Core{
			SourceTool:             p.SourceTool(),
			SourceFindingID:        issue.Key,
			FindingCategory:        entity.CategorySAST,
			Title:                  issue.Message,
			NormalizedSeverity:     severity,
			OriginalSeverity:       issue.Severity,
			CWEIDs:                 cwes,
			OWASPCategory:          owasp,
			ProvisionalFingerprint: fingerprint.SAST("", filePath, issue.Rule, branch),
			Metadata: map[string]string{
				"path":     filePath,
				"project":  issue.Project,
				"rule_id":  issue.Rule,
				"branch":   branch,
				"language": issue.Language,
			},
			RawFinding: rawRecord(export.Issues, i),
		}

		result.Findings = append(result.Findings, ParsedFinding{
			Core: core,
			SAST: &entity.SASTDetail{
				FilePath:    filePath,
				LineStart:   issue.Line,
				LineEnd:     issue.Line,
				Project:     issue.Project,
				RuleName:    issue.Rule,
				RuleID:      issue.Rule,
				Branch:      branch,
				Language:    issue.Language,
				ScannerTags: issue.Tags,
				QualityGate: issue.QualityGate,
			},
		})
	}

	return result, nil
}

// extractSonarQubeTags pulls CWE ids (tag form "cwe:79") and an OWASP
// category (tag form "owasp-a1") out of SonarQube's free-form tag list. CWE
// ids are normalized to the canonical "CWE-<digits>" form shared across every
// parser, so cross-tool correlation (CR-2, CR-4) can match them by value.
func extractSonarQubeTags(tags []string) (cwes []string, owasp string) {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		switch {
		case strings.HasPrefix(lower, "cwe-") || strings.HasPrefix(lower, "cwe:"):
			digits := strings.TrimPrefix(strings.TrimPrefix(lower, "cwe-"), "cwe:")
			cwes = append(cwes, "CWE-"+digits)
		case strings.HasPrefix(lower, "owasp-"):
			if owasp == "" {
				owasp = tag
			}
		}
	}
	return cwes, owasp
}

// rawRecord re-marshals the i'th element of a decoded slice back to JSON so
// raw_finding preserves the original record verbatim (spec §4.C step 7)
// without holding onto the whole file's byte offsets.
func rawRecord[T any](items []T, i int) json.RawMessage {
	b, err := json.Marshal(items[i])
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
