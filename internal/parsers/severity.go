package parsers

import "github.com/synapsec/core/internal/domain/entity"

// mapSonarQubeSeverity implements the SonarQube row of spec §4.C's severity
// table: BLOCKER/CRITICAL/MAJOR/MINOR/INFO, unknown values default to Medium.
func mapSonarQubeSeverity(raw string) entity.Severity {
	switch raw {
	case "BLOCKER":
		return entity.SeverityCritical
	case "CRITICAL":
		return entity.SeverityHigh
	case "MAJOR":
		return entity.SeverityMedium
	case "MINOR":
		return entity.SeverityLow
	case "INFO":
		return entity.SeverityInfo
	default:
		return entity.SeverityMedium
	}
}

// mapPassthroughSeverity implements the JFrog Xray and Tenable WAS rows:
// Critical/High/Medium/Low pass through unchanged, everything else (notably
// empty strings) defaults to Info.
func mapPassthroughSeverity(raw string) entity.Severity {
	switch raw {
	case "Critical":
		return entity.SeverityCritical
	case "High":
		return entity.SeverityHigh
	case "Medium":
		return entity.SeverityMedium
	case "Low":
		return entity.SeverityLow
	default:
		return entity.SeverityInfo
	}
}

// mapSARIFLevel implements the SARIF row: error/warning/note/none, unknown
// values default to Medium.
func mapSARIFLevel(level string) entity.Severity {
	switch level {
	case "error":
		return entity.SeverityHigh
	case "warning":
		return entity.SeverityMedium
	case "note":
		return entity.SeverityLow
	case "none":
		return entity.SeverityInfo
	default:
		return entity.SeverityMedium
	}
}
