package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Finding is the tool-agnostic core row. Exactly one of SAST, SCA, DAST is
// populated, selected by FindingCategory (spec §3, "Finding").
type Finding struct {
	ID uuid.UUID `json:"id"`

	SourceTool        string `json:"source_tool"`
	SourceToolVersion string `json:"source_tool_version,omitempty"`
	SourceFindingID   string `json:"source_finding_id"`

	FindingCategory Category `json:"finding_category"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	NormalizedSeverity Severity `json:"normalized_severity"`
	OriginalSeverity   string   `json:"original_severity"`

	CVSSScore  *float64 `json:"cvss_score,omitempty"`
	CVSSVector string   `json:"cvss_vector,omitempty"`

	CWEIDs        []string `json:"cwe_ids,omitempty"`
	CVEIDs        []string `json:"cve_ids,omitempty"`
	OWASPCategory string   `json:"owasp_category,omitempty"`

	Confidence string `json:"confidence,omitempty"`

	Fingerprint   string     `json:"fingerprint"`
	ApplicationID *uuid.UUID `json:"application_id,omitempty"`

	Tags                []string          `json:"tags,omitempty"`
	RemediationGuidance string            `json:"remediation_guidance,omitempty"`
	RawFinding          json.RawMessage   `json:"raw_finding"`
	Metadata            map[string]string `json:"metadata,omitempty"`

	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	StatusChangedAt time.Time `json:"status_changed_at"`

	Status FindingStatus `json:"status"`

	SLADueDate *time.Time `json:"sla_due_date,omitempty"`
	SLAStatus  SLAStatus  `json:"sla_status"`

	CompositeRiskScore float64 `json:"composite_risk_score"`

	OwnerID *uuid.UUID `json:"owner_id,omitempty"`

	SAST *SASTDetail `json:"sast,omitempty"`
	SCA  *SCADetail  `json:"sca,omitempty"`
	DAST *DASTDetail `json:"dast,omitempty"`
}

// SASTDetail is the category layer for static-analysis findings.
type SASTDetail struct {
	FindingID uuid.UUID `json:"finding_id"`

	FilePath  string `json:"file_path"`
	LineStart *int   `json:"line_start,omitempty"`
	LineEnd   *int   `json:"line_end,omitempty"`

	Project  string `json:"project,omitempty"`
	RuleName string `json:"rule_name,omitempty"`
	RuleID   string `json:"rule_id,omitempty"`
	Branch   string `json:"branch"`
	Language string `json:"language,omitempty"`

	TaintSource string `json:"taint_source,omitempty"`
	TaintSink   string `json:"taint_sink,omitempty"`

	TaintConfidence string `json:"taint_confidence,omitempty"`

	ScannerTags []string `json:"scanner_tags,omitempty"`
	QualityGate string   `json:"quality_gate,omitempty"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
}

// SCADetail is the category layer for software-composition-analysis findings.
type SCADetail struct {
	FindingID uuid.UUID `json:"finding_id"`

	PackageName    string `json:"package_name"`
	PackageVersion string `json:"package_version"`
	PackageType    string `json:"package_type,omitempty"`

	FixedVersion string `json:"fixed_version,omitempty"`

	DependencyType DependencyType `json:"dependency_type"`
	DependencyPath string         `json:"dependency_path,omitempty"`

	License string `json:"license,omitempty"`

	EPSS             *float64        `json:"epss,omitempty"`
	KnownExploited   bool            `json:"known_exploited"`
	ExploitMaturity  ExploitMaturity `json:"exploit_maturity,omitempty"`
	ImpactedArtifact string          `json:"impacted_artifact,omitempty"`
}

// DASTDetail is the category layer for dynamic-analysis findings.
type DASTDetail struct {
	FindingID uuid.UUID `json:"finding_id"`

	TargetURL string `json:"target_url"`
	Method    string `json:"method,omitempty"`
	Parameter string `json:"parameter,omitempty"`

	AttackVector string `json:"attack_vector,omitempty"`

	RequestEvidence  string `json:"request_evidence,omitempty"`
	ResponseEvidence string `json:"response_evidence,omitempty"`

	AuthenticationContext string `json:"authentication_context,omitempty"`
	WebAppName            string `json:"web_app_name,omitempty"`
	ScanPolicy            string `json:"scan_policy,omitempty"`

	// DastConfirmed marks a live exploit confirmation, used by the risk
	// scorer's exploitability factor (spec §4.G).
	DastConfirmed bool `json:"dast_confirmed"`
}
