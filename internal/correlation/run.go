package correlation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/metrics"
	"github.com/synapsec/core/internal/risk"
	"github.com/synapsec/core/internal/store"
)

// RunResult is the summary spec §4.E's "Correlation run over an application"
// returns: totals, not the individual matches.
type RunResult struct {
	TotalFindingsAnalyzed int
	NewRelationships      int
}

// Run loads every finding in applicationID, runs CrossToolDedup and
// Correlate over every pair, and attempts to insert each resulting
// relationship. Insertion is upsert-safe on the store's uniqueness
// constraint, so re-running is idempotent by construction: a second call
// sees every candidate relationship already present and reports
// NewRelationships=0 (spec's "Correlate-twice idempotence" law). Every
// finding on either end of a newly created relationship then has its risk
// score recomputed; a failed recompute is logged, not returned.
func Run(ctx context.Context, s store.Store, applicationID uuid.UUID, actor string, now time.Time) (RunResult, error) {
	defer metrics.ObserveDuration(metrics.CorrelationDuration, time.Now())

	findings, err := s.ListByApplication(ctx, applicationID)
	if err != nil {
		return RunResult{}, fmt.Errorf("correlation: load findings for application %s: %w", applicationID, err)
	}

	candidates := make([]Candidate, 0, len(findings))
	for _, f := range findings {
		candidates = append(candidates, toCandidate(f))
	}

	result := RunResult{TotalFindingsAnalyzed: len(candidates)}
	touched := make(map[uuid.UUID]struct{})

	for i, a := range candidates {
		for j, b := range candidates {
			if i == j {
				continue
			}

			if dm, ok := CrossToolDedup(a, b); ok {
				created, err := insertRelationship(ctx, s, a.ID, b.ID, entity.RelationshipDuplicateOf, dm.Confidence, dm.Reason, actor, now)
				if err != nil {
					return RunResult{}, err
				}
				if created {
					result.NewRelationships++
					touched[a.ID], touched[b.ID] = struct{}{}, struct{}{}
					metrics.CorrelationRelationships.WithLabelValues("cross_tool_dedup").Inc()
				}
			}

			for _, m := range Correlate(a, b) {
				created, err := insertRelationship(ctx, s, a.ID, b.ID, m.RelationshipType, m.Confidence, m.Rule, actor, now)
				if err != nil {
					return RunResult{}, err
				}
				if created {
					result.NewRelationships++
					touched[a.ID], touched[b.ID] = struct{}{}, struct{}{}
					metrics.CorrelationRelationships.WithLabelValues(m.Rule).Inc()
				}
			}
		}
	}

	for id := range touched {
		if _, _, err := risk.Recompute(ctx, s, id, now); err != nil {
			log.Printf("WARNING: risk recompute after correlation failed for finding %s: %v", id, err)
		}
	}

	return result, nil
}

func insertRelationship(ctx context.Context, s store.Store, sourceID, targetID uuid.UUID, relType entity.RelationshipType, confidence entity.ConfidenceLevel, notes string, actor string, now time.Time) (bool, error) {
	created, err := s.Insert(ctx, &entity.FindingRelationship{
		ID:               uuid.New(),
		SourceFindingID:  sourceID,
		TargetFindingID:  targetID,
		RelationshipType: relType,
		Confidence:       confidence,
		Notes:            notes,
		CreatedBy:        actor,
		CreatedAt:        now,
	})
	if err != nil {
		// Conflicts on relationship insertion are swallowed as idempotent
		// (spec §7 propagation policy) — only unexpected storage failures
		// should reach here once the store itself honors upsert semantics.
		return false, fmt.Errorf("correlation: insert relationship %s->%s: %w", sourceID, targetID, err)
	}
	return created, nil
}

func toCandidate(f *entity.Finding) Candidate {
	c := Candidate{
		ID:         f.ID,
		Category:   string(f.FindingCategory),
		SourceTool: f.SourceTool,
		CVEIDs:     f.CVEIDs,
		CWEIDs:     f.CWEIDs,
	}
	if f.ApplicationID != nil {
		c.ApplicationID = *f.ApplicationID
	}
	if f.SAST != nil {
		c.RuleID = f.SAST.RuleID
		c.FilePath = f.SAST.FilePath
		c.Branch = f.SAST.Branch
		c.LineNumber = f.SAST.LineStart
	}
	if f.SCA != nil {
		c.PackageName = f.SCA.PackageName
	}
	if f.DAST != nil {
		c.TargetURL = f.DAST.TargetURL
		c.Parameter = f.DAST.Parameter
	}
	return c
}
