// Package correlation implements cross-tool dedup and the six correlation
// rules over findings belonging to one application, plus the union-find
// attack-chain assembly read path (spec §4.E).
//
// Grounded in modules/shared/infrastructure/persistence/relationship_repository.go
// (directed edge rows keyed by a uniqueness triple) and
// service/semantic_lineage_service.go's graph-sync shape for the read-path
// chain assembly; the union-find itself has no teacher precedent and is
// written as a small self-contained algorithm, since no pack library
// implements disjoint-set union.
package correlation

import "github.com/google/uuid"

// Candidate is the flattened projection of one finding the rules operate
// over (spec §4.E: "A candidate carries: id, category, application_id,
// source_tool, cve_ids, cwe_ids, optional rule_id, file_path, branch,
// target_url, parameter, package_name, line_number").
type Candidate struct {
	ID            uuid.UUID
	Category      string // "SAST" | "SCA" | "DAST"
	ApplicationID uuid.UUID
	SourceTool    string

	CVEIDs []string
	CWEIDs []string

	RuleID   string
	FilePath string
	Branch   string

	TargetURL string
	Parameter string

	PackageName string

	LineNumber *int
}

const productionBranch = "main"

func shareAny(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
