package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

// BulkResult is the outcome of one finding within a bulk transition request.
type BulkResult struct {
	FindingID uuid.UUID
	Error     error
}

// BulkTransition applies the same target status to many findings. Targets
// forbidden from bulk operation (spec §4.F "Bulk operations") are rejected
// up front for the whole request; per-finding failures within an otherwise
// legal bulk request are reported individually and do not abort the rest.
func BulkTransition(ctx context.Context, s store.Store, findingIDs []uuid.UUID, target entity.FindingStatus, actor *entity.User, justification string, now time.Time) ([]BulkResult, error) {
	if !BulkAllowed(target) {
		return nil, apierr.Validation(string(target) + " cannot be applied as a bulk transition")
	}

	results := make([]BulkResult, 0, len(findingIDs))
	for _, id := range findingIDs {
		_, err := Transition(ctx, s, TransitionRequest{
			FindingID:     id,
			TargetStatus:  target,
			Actor:         actor,
			Justification: justification,
		}, now)
		results = append(results, BulkResult{FindingID: id, Error: err})
	}
	return results, nil
}
