package pgstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/synapsec/core/internal/domain/entity"
)

// Insert is upsert-safe on (source_finding_id, target_finding_id,
// relationship_type): ON CONFLICT DO NOTHING plus RETURNING reports whether a
// row was actually created, the signal correlation.Run's idempotency depends
// on (spec §4.E).
func (b *base) Insert(ctx context.Context, rel *entity.FindingRelationship) (bool, error) {
	var returnedID uuid.UUID
	err := b.q.QueryRowContext(ctx, `INSERT INTO finding_relationships (
		id, source_finding_id, target_finding_id, relationship_type, confidence, notes,
		created_by, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	ON CONFLICT (source_finding_id, target_finding_id, relationship_type) DO NOTHING
	RETURNING id`,
		rel.ID, rel.SourceFindingID, rel.TargetFindingID, rel.RelationshipType, rel.Confidence,
		rel.Notes, rel.CreatedBy, rel.CreatedAt,
	).Scan(&returnedID)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert finding relationship: %w", err)
	}
	return true, nil
}

func (b *base) ListRelationshipsByApplication(ctx context.Context, applicationID uuid.UUID, types []entity.RelationshipType) ([]*entity.FindingRelationship, error) {
	query := `SELECT r.id, r.source_finding_id, r.target_finding_id, r.relationship_type,
		r.confidence, r.notes, r.created_by, r.created_at
		FROM finding_relationships r
		JOIN findings sf ON sf.id = r.source_finding_id
		WHERE sf.application_id = $1`
	args := []interface{}{applicationID}
	if len(types) > 0 {
		query += ` AND r.relationship_type = ANY($2)`
		args = append(args, pq.Array(types))
	}

	rows, err := b.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list relationships for application %s: %w", applicationID, err)
	}
	defer rows.Close()

	var out []*entity.FindingRelationship
	for rows.Next() {
		var r entity.FindingRelationship
		if err := rows.Scan(&r.ID, &r.SourceFindingID, &r.TargetFindingID, &r.RelationshipType,
			&r.Confidence, &r.Notes, &r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan finding relationship row: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
