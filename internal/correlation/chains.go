package correlation

import (
	"sort"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

// unionFind is a minimal disjoint-set structure over finding ids.
type unionFind struct {
	parent map[uuid.UUID]uuid.UUID
}

func newUnionFind(ids []uuid.UUID) *unionFind {
	uf := &unionFind{parent: make(map[uuid.UUID]uuid.UUID, len(ids))}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (uf *unionFind) find(x uuid.UUID) uuid.UUID {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	// Path compression.
	for uf.parent[x] != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

func (uf *unionFind) union(a, b uuid.UUID) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// Edge is one relationship edge considered by chain assembly.
type Edge struct {
	SourceFindingID uuid.UUID
	TargetFindingID uuid.UUID
	RelationshipType entity.RelationshipType
	Confidence        entity.ConfidenceLevel
}

// ChainMember is one finding's projection for chain presentation.
type ChainMember struct {
	ID         uuid.UUID
	SourceTool string
	Severity   entity.Severity
}

// Chain is one connected component of the correlation graph (spec §4.E
// "Attack-chain assembly").
type Chain struct {
	Members     []ChainMember
	Edges       []Edge
	ToolCoverage []string
	MaxSeverity  entity.Severity
	Uncorrelated bool
}

// AssembleChains unions every edge's endpoints, groups findings by root, and
// returns chains sorted by max severity descending then size descending.
// Chains of size 1 are returned with Uncorrelated=true rather than dropped.
func AssembleChains(members []ChainMember, edges []Edge) []Chain {
	ids := make([]uuid.UUID, 0, len(members))
	byID := make(map[uuid.UUID]ChainMember, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
		byID[m.ID] = m
	}

	uf := newUnionFind(ids)
	for _, e := range edges {
		if e.RelationshipType != entity.RelationshipCorrelatedWith && e.RelationshipType != entity.RelationshipGroupedUnder {
			continue
		}
		if _, ok := byID[e.SourceFindingID]; !ok {
			continue
		}
		if _, ok := byID[e.TargetFindingID]; !ok {
			continue
		}
		uf.union(e.SourceFindingID, e.TargetFindingID)
	}

	groups := make(map[uuid.UUID][]uuid.UUID)
	for _, id := range ids {
		root := uf.find(id)
		groups[root] = append(groups[root], id)
	}

	var chains []Chain
	for _, memberIDs := range groups {
		memberSet := make(map[uuid.UUID]struct{}, len(memberIDs))
		chainMembers := make([]ChainMember, 0, len(memberIDs))
		toolSet := make(map[string]struct{})
		maxSeverity := entity.SeverityInfo
		for _, id := range memberIDs {
			memberSet[id] = struct{}{}
			m := byID[id]
			chainMembers = append(chainMembers, m)
			toolSet[m.SourceTool] = struct{}{}
			maxSeverity = entity.MaxSeverity(maxSeverity, m.Severity)
		}

		var chainEdges []Edge
		for _, e := range edges {
			_, srcIn := memberSet[e.SourceFindingID]
			_, tgtIn := memberSet[e.TargetFindingID]
			if srcIn && tgtIn {
				chainEdges = append(chainEdges, e)
			}
		}

		tools := make([]string, 0, len(toolSet))
		for t := range toolSet {
			tools = append(tools, t)
		}
		sort.Strings(tools)

		chains = append(chains, Chain{
			Members:      chainMembers,
			Edges:        chainEdges,
			ToolCoverage: tools,
			MaxSeverity:  maxSeverity,
			Uncorrelated: len(chainMembers) == 1,
		})
	}

	sort.Slice(chains, func(i, j int) bool {
		if chains[i].MaxSeverity != chains[j].MaxSeverity {
			return chains[j].MaxSeverity.Less(chains[i].MaxSeverity)
		}
		return len(chains[i].Members) > len(chains[j].Members)
	})

	return chains
}
