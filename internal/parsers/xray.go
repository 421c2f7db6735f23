package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/fingerprint"
)

// Xray parses JFrog Xray vulnerability export JSON into SCA findings. One
// row with N CVEs fans out into N findings sharing package identity but
// carrying distinct per-CVE fingerprints (spec §4.C "JFrog Xray fan-out").
type Xray struct{}

func (Xray) SourceTool() string        { return "JFrog Xray" }
func (Xray) Category() entity.Category { return entity.CategorySCA }

type xrayExport struct {
	Rows []xrayRow `json:"rows"`
}

type xrayRow struct {
	IssueID      string        `json:"issue_id"`
	Severity     string        `json:"severity"`
	Components   []xrayComponent `json:"components"`
	CVEs         []xrayCVE     `json:"cves"`
	License      string        `json:"license,omitempty"`
}

type xrayComponent struct {
	ComponentID string   `json:"component_id"`
	FixedVersions []string `json:"fixed_versions"`
	ImpactPaths [][]string `json:"impact_paths"`
}

type xrayCVE struct {
	ID     string  `json:"cve"`
	CVSSv2 *float64 `json:"cvss_v2_score,omitempty"`
	CVSSv3 *float64 `json:"cvss_v3_score,omitempty"`
	CVSSv2Vector string `json:"cvss_v2_vector,omitempty"`
	CVSSv3Vector string `json:"cvss_v3_vector,omitempty"`
}

func (p Xray) Parse(raw []byte, declaredFormat string) (ParseResult, error) {
	if declaredFormat != "xray" {
		return ParseResult{}, fmt.Errorf("xray parser does not support format %q", declaredFormat)
	}

	var export xrayExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return ParseResult{}, fmt.Errorf("xray: invalid json: %w", err)
	}

	result := ParseResult{SourceTool: p.SourceTool()}

	for i, row := range export.Rows {
		if row.IssueID == "" {
			result.Errors = append(result.Errors, ParseError{
				RecordIndex: i,
				Field:       "issue_id",
				Message:     "missing issue_id",
			})
			continue
		}

		var component xrayComponent
		if len(row.Components) > 0 {
			component = row.Components[0]
		}

		packageName, packageVersion := parseGAV(component.ComponentID)
		depType := inferDependencyType(component.ImpactPaths)
		fixedVersion := strings.Join(component.FixedVersions, ", ")

		severity := mapPassthroughSeverity(row.Severity)

		if len(row.CVEs) == 0 {
			// Boundary case: empty CVE list still produces one finding.
			result.Findings = append(result.Findings, buildXrayFinding(
				p.SourceTool(), row.IssueID, "", severity, row.Severity,
				packageName, packageVersion, fixedVersion, depType, row.License, nil,
			))
			continue
		}

		for _, cve := range row.CVEs {
			score, vector := selectXrayCVSS(cve)
			finding := buildXrayFinding(
				p.SourceTool(), row.IssueID, cve.ID, severity, row.Severity,
				packageName, packageVersion, fixedVersion, depType, row.License, score,
			)
			finding.Core.CVSSVector = vector
			result.Findings = append(result.Findings, finding)
		}
	}

	return result, nil
}

func buildXrayFinding(sourceTool, issueID, cveID string, severity entity.Severity, originalSeverity, packageName, packageVersion, fixedVersion string, depType entity.DependencyType, license string, cvss *float64) ParsedFinding {
	sourceFindingID := issueID
	if cveID != "" {
		sourceFindingID = issueID + ":" + cveID
	}

	var cveIDs []string
	if cveID != "" {
		cveIDs = []string{cveID}
	}

	core := Core{
		SourceTool:             sourceTool,
		SourceFindingID:        sourceFindingID,
		FindingCategory:        entity.CategorySCA,
		Title:                  fmt.Sprintf("%s %s", packageName, packageVersion),
		NormalizedSeverity:     severity,
		OriginalSeverity:       originalSeverity,
		CVEIDs:                 cveIDs,
		FingerprintCVE:         cveID,
		CVSSScore:              cvss,
		ProvisionalFingerprint: fingerprint.SCA("", packageName, packageVersion, cveID),
		Metadata: map[string]string{
			"package_name":    packageName,
			"package_version": packageVersion,
		},
	}

	return ParsedFinding{
		Core: core,
		SCA: &entity.SCADetail{
			PackageName:    packageName,
			PackageVersion: packageVersion,
			FixedVersion:   fixedVersion,
			DependencyType: depType,
			License:        license,
		},
	}
}

// parseGAV parses a gav://group:artifact:version coordinate into
// (artifact, version); a non-GAV coordinate is returned verbatim with an
// empty version (spec §4.C "JFrog Xray fan-out").
func parseGAV(componentID string) (packageName, packageVersion string) {
	if !strings.HasPrefix(componentID, "gav://") {
		return componentID, ""
	}
	coord := strings.TrimPrefix(componentID, "gav://")
	parts := strings.Split(coord, ":")
	if len(parts) != 3 {
		return coord, ""
	}
	return parts[1], parts[2]
}

// inferDependencyType maps impact-path depth to Direct/Transitive/unknown.
func inferDependencyType(impactPaths [][]string) entity.DependencyType {
	if len(impactPaths) == 0 {
		return entity.DependencyUnknown
	}
	depth := len(impactPaths[0])
	switch {
	case depth <= 1:
		return entity.DependencyUnknown
	case depth == 2:
		return entity.DependencyDirect
	default:
		return entity.DependencyTransitive
	}
}

// selectXrayCVSS prefers the per-CVE v3 score before any row-level maxima
// (the caller never holds a row-level max; per-CVE is all there is here).
func selectXrayCVSS(cve xrayCVE) (*float64, string) {
	if cve.CVSSv3 != nil {
		return cve.CVSSv3, cve.CVSSv3Vector
	}
	if cve.CVSSv2 != nil {
		return cve.CVSSv2, cve.CVSSv2Vector
	}
	return nil, ""
}
