package correlation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestAssembleChains_GroupsTransitively(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	members := []ChainMember{
		{ID: a, SourceTool: "SonarQube", Severity: entity.SeverityMedium},
		{ID: b, SourceTool: "Xray", Severity: entity.SeverityHigh},
		{ID: c, SourceTool: "Tenable", Severity: entity.SeverityCritical},
		{ID: d, SourceTool: "SonarQube", Severity: entity.SeverityLow},
	}
	edges := []Edge{
		{SourceFindingID: a, TargetFindingID: b, RelationshipType: entity.RelationshipCorrelatedWith},
		{SourceFindingID: b, TargetFindingID: c, RelationshipType: entity.RelationshipGroupedUnder},
	}

	chains := AssembleChains(members, edges)
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains (one of 3, one singleton), got %d", len(chains))
	}

	big := chains[0]
	if len(big.Members) != 3 {
		t.Fatalf("expected the larger chain first, got %d members", len(big.Members))
	}
	if big.MaxSeverity != entity.SeverityCritical {
		t.Fatalf("expected MaxSeverity Critical, got %s", big.MaxSeverity)
	}
	if big.Uncorrelated {
		t.Fatal("a 3-member chain must not be marked Uncorrelated")
	}
	wantTools := []string{"SonarQube", "Tenable", "Xray"}
	if len(big.ToolCoverage) != len(wantTools) {
		t.Fatalf("expected tool coverage %v, got %v", wantTools, big.ToolCoverage)
	}

	singleton := chains[1]
	if len(singleton.Members) != 1 || !singleton.Uncorrelated {
		t.Fatalf("expected singleton chain marked Uncorrelated, got %+v", singleton)
	}
}

func TestAssembleChains_IgnoresNonChainRelationshipTypes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	members := []ChainMember{
		{ID: a, SourceTool: "SonarQube", Severity: entity.SeverityHigh},
		{ID: b, SourceTool: "Xray", Severity: entity.SeverityHigh},
	}
	edges := []Edge{
		{SourceFindingID: a, TargetFindingID: b, RelationshipType: entity.RelationshipDuplicateOf},
	}

	chains := AssembleChains(members, edges)
	if len(chains) != 2 {
		t.Fatalf("duplicate_of must not union chain membership, expected 2 singletons, got %d", len(chains))
	}
	for _, c := range chains {
		if !c.Uncorrelated {
			t.Fatal("expected every chain to be a singleton")
		}
	}
}

func TestAssembleChains_SortsBySeverityThenSize(t *testing.T) {
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	members := []ChainMember{
		{ID: a, SourceTool: "T1", Severity: entity.SeverityHigh},
		{ID: b, SourceTool: "T2", Severity: entity.SeverityHigh},
		{ID: c, SourceTool: "T3", Severity: entity.SeverityHigh},
		{ID: d, SourceTool: "T4", Severity: entity.SeverityCritical},
		{ID: e, SourceTool: "T5", Severity: entity.SeverityCritical},
	}
	edges := []Edge{
		{SourceFindingID: a, TargetFindingID: b, RelationshipType: entity.RelationshipCorrelatedWith},
		{SourceFindingID: b, TargetFindingID: c, RelationshipType: entity.RelationshipCorrelatedWith},
		{SourceFindingID: d, TargetFindingID: e, RelationshipType: entity.RelationshipCorrelatedWith},
	}

	chains := AssembleChains(members, edges)
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(chains))
	}
	if chains[0].MaxSeverity != entity.SeverityCritical {
		t.Fatalf("expected the Critical chain ranked first even though it is smaller, got %s first", chains[0].MaxSeverity)
	}
}
