package risk

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

// Recompute loads a finding and its application/relationship context, builds
// Factors, computes the composite score with DefaultWeights, persists it via
// UpdateRiskScore, and returns the result. Called at every trigger point
// spec §9 names: finding creation, status change, relationship add, SLA
// recalculation.
func Recompute(ctx context.Context, s store.Store, findingID uuid.UUID, now time.Time) (float64, entity.Priority, error) {
	finding, err := s.GetByID(ctx, findingID)
	if err != nil {
		return 0, "", apierr.Storage(err)
	}
	if finding == nil {
		return 0, "", apierr.NotFound("finding not found")
	}

	factors := Factors{Severity: finding.NormalizedSeverity}

	if finding.ApplicationID != nil {
		app, err := s.GetApplicationByID(ctx, *finding.ApplicationID)
		if err != nil {
			return 0, "", apierr.Storage(err)
		}
		if app != nil {
			factors.AssetCriticality = app.Criticality
		}
	}

	switch finding.FindingCategory {
	case entity.CategorySCA:
		if finding.SCA != nil {
			factors.KnownExploited = finding.SCA.KnownExploited
			factors.ExploitMaturity = finding.SCA.ExploitMaturity
			factors.EPSS = finding.SCA.EPSS
		}
	case entity.CategoryDAST:
		if finding.DAST != nil {
			factors.DastConfirmed = finding.DAST.DastConfirmed
		}
	case entity.CategorySAST:
		if finding.SAST != nil {
			factors.SASTTaintConfidence = finding.SAST.TaintConfidence
		}
	}

	if finding.SLADueDate != nil {
		total := finding.SLADueDate.Sub(finding.FirstSeen)
		if total > 0 {
			ratio := now.Sub(finding.FirstSeen).Seconds() / total.Seconds()
			factors.SLARatio = &ratio
		}
	}

	if finding.ApplicationID != nil {
		tools, correlated, err := correlationDensity(ctx, s, *finding.ApplicationID, findingID)
		if err != nil {
			return 0, "", err
		}
		factors.DistinctTools = tools
		factors.CorrelatedFindings = correlated
	}

	score, priority := Compute(factors, DefaultWeights)

	if err := s.UpdateRiskScore(ctx, findingID, score); err != nil {
		return 0, "", apierr.Storage(err)
	}
	return score, priority, nil
}

// correlationDensity counts the relationships touching findingID and the
// distinct source tools among the findings it is connected to, including
// itself.
func correlationDensity(ctx context.Context, s store.Store, applicationID, findingID uuid.UUID) (distinctTools int, correlated int, err error) {
	relTypes := []entity.RelationshipType{
		entity.RelationshipCorrelatedWith,
		entity.RelationshipGroupedUnder,
		entity.RelationshipDuplicateOf,
	}
	rels, err := s.ListRelationshipsByApplication(ctx, applicationID, relTypes)
	if err != nil {
		return 0, 0, apierr.Storage(err)
	}

	connected := make(map[uuid.UUID]struct{})
	for _, r := range rels {
		switch findingID {
		case r.SourceFindingID:
			connected[r.TargetFindingID] = struct{}{}
			correlated++
		case r.TargetFindingID:
			connected[r.SourceFindingID] = struct{}{}
			correlated++
		}
	}
	if correlated == 0 {
		return 0, 0, nil
	}

	findings, err := s.ListByApplication(ctx, applicationID)
	if err != nil {
		return 0, 0, apierr.Storage(err)
	}
	tools := make(map[string]struct{})
	for _, f := range findings {
		if f.ID == findingID {
			tools[f.SourceTool] = struct{}{}
			continue
		}
		if _, ok := connected[f.ID]; ok {
			tools[f.SourceTool] = struct{}{}
		}
	}
	return len(tools), correlated, nil
}
