package entity

// Severity is the normalized finding severity, emitted capitalized on the wire.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityInfo     Severity = "Info"
)

// severityRank orders severities for max-severity comparisons (chains, dashboards).
var severityRank = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// MaxSeverity returns whichever of a, b ranks higher; ties favor a.
func MaxSeverity(a, b Severity) Severity {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// Less reports whether s ranks strictly below other.
func (s Severity) Less(other Severity) bool {
	return severityRank[s] < severityRank[other]
}

// Category discriminates the finding's category layer (exactly one applies).
type Category string

const (
	CategorySAST Category = "SAST"
	CategorySCA  Category = "SCA"
	CategoryDAST Category = "DAST"
)

// FindingStatus is the lifecycle state (spec §4.F).
type FindingStatus string

const (
	StatusNew                     FindingStatus = "New"
	StatusConfirmed                FindingStatus = "Confirmed"
	StatusInRemediation             FindingStatus = "InRemediation"
	StatusFalsePositive             FindingStatus = "FalsePositive"
	StatusFalsePositiveRequested    FindingStatus = "FalsePositiveRequested"
	StatusRiskAccepted              FindingStatus = "RiskAccepted"
	StatusDeferredRemediation       FindingStatus = "DeferredRemediation"
	StatusMitigated                 FindingStatus = "Mitigated"
	StatusVerified                  FindingStatus = "Verified"
	StatusClosed                    FindingStatus = "Closed"
	StatusInvalidated               FindingStatus = "Invalidated"
)

// SLAStatus tracks whether a finding is within its remediation target.
type SLAStatus string

const (
	SLAStatusOnTrack  SLAStatus = "OnTrack"
	SLAStatusAtRisk   SLAStatus = "AtRisk"
	SLAStatusBreached SLAStatus = "Breached"
	SLAStatusNone     SLAStatus = "None"
)

// ConfidenceLevel is used on correlation/dedup relationships.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// RelationshipType enumerates the directed edge kinds between findings.
type RelationshipType string

const (
	RelationshipDuplicateOf     RelationshipType = "duplicate_of"
	RelationshipCorrelatedWith  RelationshipType = "correlated_with"
	RelationshipGroupedUnder    RelationshipType = "grouped_under"
	RelationshipSupersededBy    RelationshipType = "superseded_by"
)

// DependencyType classifies how an SCA finding's package reaches the app.
type DependencyType string

const (
	DependencyUnknown     DependencyType = "unknown"
	DependencyDirect      DependencyType = "Direct"
	DependencyTransitive  DependencyType = "Transitive"
)

// ExploitMaturity is a coarse EPSS-adjacent exploit-availability signal.
type ExploitMaturity string

const (
	ExploitMaturityWeaponized ExploitMaturity = "Weaponized"
	ExploitMaturityFunctional ExploitMaturity = "Functional"
	ExploitMaturityPoC        ExploitMaturity = "PoC"
	ExploitMaturityUnknown    ExploitMaturity = "Unknown"
)

// AssetCriticality is the application's business-impact tier.
type AssetCriticality string

const (
	CriticalityVeryHigh   AssetCriticality = "VeryHigh"
	CriticalityHigh       AssetCriticality = "High"
	CriticalityMediumHigh AssetCriticality = "MediumHigh"
	CriticalityMedium     AssetCriticality = "Medium"
	CriticalityMediumLow  AssetCriticality = "MediumLow"
	CriticalityLow        AssetCriticality = "Low"
)

// AssetTier is the application's operational tiering.
type AssetTier string

const (
	Tier1 AssetTier = "Tier_1"
	Tier2 AssetTier = "Tier_2"
	Tier3 AssetTier = "Tier_3"
)

// Exposure describes network reachability of the application.
type Exposure string

const (
	ExposureInternetFacing Exposure = "InternetFacing"
	ExposureDMZ            Exposure = "DMZ"
	ExposureInternal       Exposure = "Internal"
	ExposureDevTest        Exposure = "DevTest"
)

// DataClassification is the application's data sensitivity label.
type DataClassification string

const (
	DataPublic       DataClassification = "Public"
	DataInternal     DataClassification = "Internal"
	DataConfidential DataClassification = "Confidential"
	DataRestricted   DataClassification = "Restricted"
)

// AppStatus is the application record's own lifecycle.
type AppStatus string

const (
	AppStatusActive        AppStatus = "Active"
	AppStatusDeprecated     AppStatus = "Deprecated"
	AppStatusDecommissioned AppStatus = "Decommissioned"
)

// Priority buckets the composite risk score for triage queues (spec §4.G).
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
	PriorityP5 Priority = "P5"
)

// UserRole enumerates the roles consulted by lifecycle RBAC (spec §4.F).
type UserRole string

const (
	RolePlatformAdmin     UserRole = "PlatformAdmin"
	RoleAppSecManager     UserRole = "AppSecManager"
	RoleAppSecAnalyst     UserRole = "AppSecAnalyst"
	RoleDeveloper         UserRole = "Developer"
	RoleExecutive         UserRole = "Executive"
	RoleAuditor           UserRole = "Auditor"
	RoleApiServiceAccount UserRole = "ApiServiceAccount"
)
