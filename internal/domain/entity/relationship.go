package entity

import (
	"time"

	"github.com/google/uuid"
)

// FindingRelationship is a directed edge between two findings (spec §3,
// "FindingRelationship"). The triple (source, target, type) is unique.
type FindingRelationship struct {
	ID               uuid.UUID        `json:"id"`
	SourceFindingID  uuid.UUID        `json:"source_finding_id"`
	TargetFindingID  uuid.UUID        `json:"target_finding_id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	Confidence       ConfidenceLevel  `json:"confidence"`
	Notes            string           `json:"notes,omitempty"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
}
