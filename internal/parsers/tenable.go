package parsers

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/fingerprint"
)

// Tenable parses Tenable.io WAS CSV export rows into DAST findings.
type Tenable struct{}

func (Tenable) SourceTool() string        { return "Tenable WAS" }
func (Tenable) Category() entity.Category { return entity.CategoryDAST }

var tenableCWEPattern = regexp.MustCompile(`CWE:(\d+)`)

func (p Tenable) Parse(raw []byte, declaredFormat string) (ParseResult, error) {
	if declaredFormat != "tenable" && declaredFormat != "csv" {
		return ParseResult{}, fmt.Errorf("tenable parser does not support format %q", declaredFormat)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return ParseResult{}, fmt.Errorf("tenable: invalid csv: %w", err)
	}
	if len(rows) == 0 {
		return ParseResult{SourceTool: p.SourceTool()}, nil
	}

	header := rows[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	result := ParseResult{SourceTool: p.SourceTool()}

	for i, row := range rows[1:] {
		get := func(col string) string {
			idx, ok := colIndex[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		pluginID := get("Plugin")
		if pluginID == "" {
			result.Errors = append(result.Errors, ParseError{
				RecordIndex: i,
				Field:       "Plugin",
				Message:     "missing Plugin identifier",
			})
			continue
		}

		severityRaw := get("Severity")
		family := get("Family")

		// Scan-metadata rows (site maps, discovery plugins) are dropped
		// silently: no finding, no error, no count (spec §4.C skip rule).
		if severityRaw == "Info" && family == "General" {
			continue
		}

		severity := mapPassthroughSeverity(severityRaw)
		targetURL := get("URL")
		method := get("Method")
		parameter := get("Parameter")

		cwes := extractTenableCWEs(get("Cross References"))
		cves := parseTenableCVEs(get("Cross References"))

		var cvssScore *float64
		if v, err := strconv.ParseFloat(get("CVSS"), 64); err == nil {
			cvssScore = &v
		}

		core := Core{
			SourceTool:             p.SourceTool(),
			SourceFindingID:        pluginID,
			FindingCategory:        entity.CategoryDAST,
			Title:                  get("Name"),
			NormalizedSeverity:     severity,
			OriginalSeverity:       severityRaw,
			CWEIDs:                 cwes,
			CVEIDs:                 cves,
			CVSSScore:              cvssScore,
			CVSSVector:             get("CVSS Vector"),
			ProvisionalFingerprint: fingerprint.DAST("", targetURL, method, parameter),
			Metadata: map[string]string{
				"url":      targetURL,
				"dns_name": get("Host"),
			},
		}

		result.Findings = append(result.Findings, ParsedFinding{
			Core: core,
			DAST: &entity.DASTDetail{
				TargetURL: targetURL,
				Method:    method,
				Parameter: parameter,
				WebAppName: get("Host"),
			},
		})
	}

	return result, nil
}

// extractTenableCWEs pulls every CWE:<digits> token out of the
// Cross References column.
func extractTenableCWEs(crossRefs string) []string {
	matches := tenableCWEPattern.FindAllStringSubmatch(crossRefs, -1)
	cwes := make([]string, 0, len(matches))
	for _, m := range matches {
		cwes = append(cwes, "CWE-"+m[1])
	}
	return cwes
}

// parseTenableCVEs scans Cross References for CVE-YYYY-NNNN tokens,
// allowing newline or comma separators between entries.
func parseTenableCVEs(crossRefs string) []string {
	var cves []string
	for _, sep := range []string{"\n", ","} {
		crossRefs = strings.ReplaceAll(crossRefs, sep, " ")
	}
	for _, token := range strings.Fields(crossRefs) {
		token = strings.Trim(token, ",;")
		if strings.HasPrefix(token, "CVE-") {
			cves = append(cves, token)
		}
	}
	return cves
}
