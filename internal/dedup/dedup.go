// Package dedup implements intra-tool deduplication (spec §4.D): deciding
// whether a freshly computed fingerprint denotes a brand-new finding, an
// update to an existing one, or the reopening of a previously closed one.
//
// Grounded in ingestion_service.go's duplicate-check-then-skip-or-update
// flow ("Check for duplicates... rely on the unique index"); SynApSec makes
// that implicit unique-index behavior an explicit three-way decision with its
// own reopen history entry, since the teacher's version never reopened
// anything.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

// Outcome discriminates the three results spec §4.D defines.
type Outcome string

const (
	OutcomeNew      Outcome = "New"
	OutcomeUpdated  Outcome = "Updated"
	OutcomeReopened Outcome = "Reopened"
)

// Result is what Check returns: the outcome and, for Updated/Reopened, the
// id of the existing finding that was touched.
type Result struct {
	Outcome    Outcome
	FindingID  uuid.UUID
}

// reopenJustification is the fixed, spec-mandated history entry text for an
// automatic reopen (spec §4.D).
const reopenJustification = "Automatically reopened: fingerprint redetected in new scan"

// Check looks up the most recently created finding with fingerprint and
// applies the three-way decision. It mutates store state directly (via tx)
// for Updated/Reopened since those are "the dedup decision" and "the side
// effect" in one atomic step, per spec §4.D's phrasing ("atomically
// transition... and append a history entry"). actorID is accepted per the
// spec's input list but the reopen history entry always names "system" as
// the actor, never the ingesting caller.
func Check(ctx context.Context, tx store.Tx, fingerprint string, actorID uuid.UUID, now time.Time) (Result, error) {
	existing, err := tx.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return Result{}, fmt.Errorf("dedup: lookup fingerprint: %w", err)
	}
	if existing == nil {
		return Result{Outcome: OutcomeNew}, nil
	}

	if existing.Status == entity.StatusClosed {
		if err := tx.ReopenFinding(ctx, existing.ID, now); err != nil {
			return Result{}, fmt.Errorf("dedup: reopen finding %s: %w", existing.ID, err)
		}
		if err := tx.AppendHistory(ctx, &entity.FindingHistory{
			ID:            uuid.New(),
			FindingID:     existing.ID,
			Action:        "status_change",
			Field:         "status",
			OldValue:      string(entity.StatusClosed),
			NewValue:      string(entity.StatusNew),
			ActorName:     "system",
			Justification: reopenJustification,
			CreatedAt:     now,
		}); err != nil {
			return Result{}, fmt.Errorf("dedup: append reopen history: %w", err)
		}
		return Result{Outcome: OutcomeReopened, FindingID: existing.ID}, nil
	}

	if err := tx.TouchLastSeen(ctx, existing.ID, now); err != nil {
		return Result{}, fmt.Errorf("dedup: touch last_seen for %s: %w", existing.ID, err)
	}
	return Result{Outcome: OutcomeUpdated, FindingID: existing.ID}, nil
}
