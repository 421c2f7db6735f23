package pgstore

import (
	"context"
	"fmt"

	"github.com/synapsec/core/internal/domain/entity"
)

func (b *base) AppendHistory(ctx context.Context, h *entity.FindingHistory) error {
	_, err := b.q.ExecContext(ctx, `INSERT INTO finding_history (
		id, finding_id, action, field, old_value, new_value, actor_id, actor_name,
		justification, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		h.ID, h.FindingID, h.Action, h.Field, h.OldValue, h.NewValue, h.ActorID, h.ActorName,
		h.Justification, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append finding history for %s: %w", h.FindingID, err)
	}
	return nil
}

func (b *base) AppendAudit(ctx context.Context, a *entity.AuditLog) error {
	_, err := b.q.ExecContext(ctx, `INSERT INTO audit_log (
		id, entity_type, entity_id, action, actor_id, details, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.EntityType, a.EntityID, a.Action, a.ActorID, a.Details, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit log for %s %s: %w", a.EntityType, a.EntityID, err)
	}
	return nil
}
