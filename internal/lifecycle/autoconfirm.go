package lifecycle

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

// AutoConfirm runs inside the caller's ingestion transaction, as part of the
// same logical create (spec §4.F "Auto-confirm (triage hold)"). It is a
// no-op, not an error, when any active rule holds the finding. The actor
// name is always "system": auto-confirm is a pipeline decision, not a human
// one.
func AutoConfirm(ctx context.Context, tx store.Tx, finding *entity.Finding, rules []entity.TriageRule, evaluate TriageRule, now time.Time) error {
	if ShouldHold(finding, rules, evaluate) {
		return nil
	}

	if err := tx.UpdateStatus(ctx, finding.ID, entity.StatusConfirmed, now); err != nil {
		return err
	}

	history := &entity.FindingHistory{
		ID:        uuid.New(),
		FindingID: finding.ID,
		Action:    "status_change",
		Field:     "status",
		OldValue:  string(entity.StatusNew),
		NewValue:  string(entity.StatusConfirmed),
		ActorName: "system",
		CreatedAt: now,
	}
	if err := tx.AppendHistory(ctx, history); err != nil {
		return err
	}

	details, err := json.Marshal(auditDetails{Old: string(entity.StatusNew), New: string(entity.StatusConfirmed)})
	if err != nil {
		return err
	}
	audit := &entity.AuditLog{
		ID:         uuid.New(),
		EntityType: "finding",
		EntityID:   finding.ID,
		Action:     "status_change",
		Details:    details,
		CreatedAt:  now,
	}
	if err := tx.AppendAudit(ctx, audit); err != nil {
		return err
	}

	finding.Status = entity.StatusConfirmed
	finding.StatusChangedAt = now
	return nil
}
