// Package parsers turns scanner-specific output into the tool-agnostic
// ParsedFinding shape the rest of the pipeline operates on (spec §4.C).
//
// Grounded in modules/scanning/service/ingestion_service.go's per-record loop
// (one finding struct built from one raw record, errors logged and skipped
// rather than aborting the whole batch) and pkg/normalization for the severity
// table shape; SynApSec generalizes the single Hawk-eye format into a
// registry of pluggable, per-scanner Parser implementations.
package parsers

import (
	"encoding/json"

	"github.com/synapsec/core/internal/domain/entity"
)

// Core is the tool-agnostic portion of a parsed record, destined for the
// Finding row once app_code and fingerprint are filled in by later stages.
type Core struct {
	SourceTool        string
	SourceToolVersion string
	SourceFindingID   string

	FindingCategory entity.Category

	Title       string
	Description string

	NormalizedSeverity entity.Severity
	OriginalSeverity   string

	CVSSScore  *float64
	CVSSVector string

	CWEIDs        []string
	CVEIDs        []string
	OWASPCategory string

	Confidence string

	// FingerprintCVE is the single CVE this record's fingerprint is keyed on
	// (only meaningful for SCA fan-out rows; spec §4.A's SCA tuple).
	FingerprintCVE string

	// ProvisionalFingerprint is computed by the parser with an empty
	// app_code, since the resolver (§4.B) has not run yet at parse time.
	// The ingestion pipeline recomputes the real fingerprint once app_code
	// is known and this value is discarded.
	ProvisionalFingerprint string

	Metadata map[string]string

	RawFinding json.RawMessage
}

// ParsedFinding pairs the core row with exactly one category layer.
type ParsedFinding struct {
	Core Core

	SAST *entity.SASTDetail
	SCA  *entity.SCADetail
	DAST *entity.DASTDetail
}

// ParseError is a single per-record failure that must not abort the rest of
// the file (spec §7 propagation policy).
type ParseError struct {
	RecordIndex int
	Field       string
	Message     string
}

// ParseResult is what every Parser.Parse call returns.
type ParseResult struct {
	Findings          []ParsedFinding
	Errors            []ParseError
	SourceTool        string
	SourceToolVersion string
}

// Parser is a pluggable scanner-format capability (spec §9 "Polymorphic
// parsers"): a source-tool name, the category it always produces, and the
// parse operation itself. It rejects formats it does not support by failing
// the call outright rather than returning an empty ParseResult.
type Parser interface {
	SourceTool() string
	Category() entity.Category
	Parse(raw []byte, declaredFormat string) (ParseResult, error)
}
