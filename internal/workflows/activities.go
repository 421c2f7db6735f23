package workflows

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/correlation"
	"github.com/synapsec/core/internal/store"
)

// Activities binds the correlation sweep's Temporal activities to a store,
// mirroring the teacher's ScanActivities{db, neo4jDriver} grouping.
type Activities struct {
	Store store.Store
}

func NewActivities(s store.Store) *Activities {
	return &Activities{Store: s}
}

// ListApplicationsWithFindings returns every application id that has at
// least one finding, as stringified UUIDs (Temporal payloads must be
// serializable).
func (a *Activities) ListApplicationsWithFindings(ctx context.Context) ([]string, error) {
	findings, err := a.Store.List(ctx, store.FindingFilters{}, 10000, 0)
	if err != nil {
		return nil, err
	}
	seen := map[uuid.UUID]bool{}
	var out []string
	for _, f := range findings {
		if f.ApplicationID == nil || seen[*f.ApplicationID] {
			continue
		}
		seen[*f.ApplicationID] = true
		out = append(out, f.ApplicationID.String())
	}
	return out, nil
}

// RunCorrelationForApplication runs one correlation pass and returns the
// count of newly created relationships.
func (a *Activities) RunCorrelationForApplication(ctx context.Context, applicationID string) (int, error) {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return 0, err
	}
	result, err := correlation.Run(ctx, a.Store, appID, "temporal-sweep", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.NewRelationships, nil
}
