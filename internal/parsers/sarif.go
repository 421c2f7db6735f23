package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/fingerprint"
)

// SARIF parses the Static Analysis Results Interchange Format into SAST
// findings. One SARIF file may carry multiple runs; each run's results are
// resolved against that run's own rule list.
type SARIF struct{}

func (SARIF) SourceTool() string        { return "SARIF" }
func (SARIF) Category() entity.Category { return entity.CategorySAST }

type sarifLog struct {
	Runs []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool struct {
		Driver struct {
			Name    string      `json:"name"`
			Version string      `json:"version"`
			Rules   []sarifRule `json:"rules"`
		} `json:"driver"`
	} `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifRule struct {
	ID                    string `json:"id"`
	DefaultConfiguration struct {
		Level string `json:"level"`
	} `json:"defaultConfiguration"`
	Properties struct {
		Tags []string `json:"tags"`
	} `json:"properties"`
}

type sarifResult struct {
	RuleID    string `json:"ruleId"`
	RuleIndex *int   `json:"ruleIndex"`
	Level     string `json:"level"`
	Message   struct {
		Text string `json:"text"`
	} `json:"message"`
	Locations []struct {
		PhysicalLocation struct {
			ArtifactLocation struct {
				URI string `json:"uri"`
			} `json:"artifactLocation"`
			Region struct {
				StartLine *int `json:"startLine"`
				EndLine   *int `json:"endLine"`
			} `json:"region"`
		} `json:"physicalLocation"`
	} `json:"locations"`
}

func (p SARIF) Parse(raw []byte, declaredFormat string) (ParseResult, error) {
	if declaredFormat != "sarif" {
		return ParseResult{}, fmt.Errorf("sarif parser does not support format %q", declaredFormat)
	}

	var doc sarifLog
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ParseResult{}, fmt.Errorf("sarif: invalid json: %w", err)
	}

	result := ParseResult{SourceTool: p.SourceTool()}
	recordIndex := 0

	for _, run := range doc.Runs {
		driverName := run.Tool.Driver.Name
		driverVersion := run.Tool.Driver.Version
		if result.SourceToolVersion == "" {
			result.SourceToolVersion = driverVersion
		}

		for resultIdx, res := range run.Results {
			idx := recordIndex
			recordIndex++

			rule, resolvedID, ok := resolveSARIFRule(run.Tool.Driver.Rules, res.RuleIndex, res.RuleID)
			if !ok {
				result.Errors = append(result.Errors, ParseError{
					RecordIndex: idx,
					Field:       "ruleId",
					Message:     "missing primary identifier (ruleIndex/ruleId)",
				})
				continue
			}

			level := res.Level
			if level == "" && rule != nil {
				level = rule.DefaultConfiguration.Level
			}
			if level == "" {
				level = "warning"
			}
			severity := mapSARIFLevel(level)

			var filePath string
			var lineStart, lineEnd *int
			if len(res.Locations) > 0 {
				loc := res.Locations[0].PhysicalLocation
				filePath = loc.ArtifactLocation.URI
				lineStart = loc.Region.StartLine
				lineEnd = loc.Region.EndLine
			}

			var cwes []string
			var owasp string
			if rule != nil {
				cwes, owasp = extractSonarQubeTags(rule.Properties.Tags)
			}

			branch := ""

			core := Core{
				SourceTool:             driverName,
				SourceToolVersion:      driverVersion,
				SourceFindingID:        fmt.Sprintf("%s:%d", resolvedID, idx),
				FindingCategory:        entity.CategorySAST,
				Title:                  res.Message.Text,
				NormalizedSeverity:     severity,
				OriginalSeverity:       level,
				CWEIDs:                 cwes,
				OWASPCategory:          owasp,
				ProvisionalFingerprint: fingerprint.SAST("", filePath, resolvedID, branch),
				Metadata: map[string]string{
					"path":    filePath,
					"rule_id": resolvedID,
				},
				RawFinding: rawRecord(run.Results, resultIdx),
			}

			result.Findings = append(result.Findings, ParsedFinding{
				Core: core,
				SAST: &entity.SASTDetail{
					FilePath:  filePath,
					LineStart: lineStart,
					LineEnd:   lineEnd,
					RuleID:    resolvedID,
					RuleName:  resolvedID,
					Branch:    branch,
				},
			})
		}
	}

	return result, nil
}

// resolveSARIFRule follows spec §4.C's SARIF rule resolution order: try
// ruleIndex first, then ruleId by linear lookup.
func resolveSARIFRule(rules []sarifRule, ruleIndex *int, ruleID string) (*sarifRule, string, bool) {
	if ruleIndex != nil && *ruleIndex >= 0 && *ruleIndex < len(rules) {
		r := rules[*ruleIndex]
		return &r, r.ID, true
	}
	for _, r := range rules {
		if r.ID == ruleID && ruleID != "" {
			return &r, r.ID, true
		}
	}
	if ruleID != "" {
		return nil, ruleID, true
	}
	return nil, "", false
}
