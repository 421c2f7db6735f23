package entity

import (
	"time"

	"github.com/google/uuid"
)

// FindingHistory is an append-only log of state and field changes on a
// finding (spec §3, "FindingHistory").
type FindingHistory struct {
	ID        uuid.UUID `json:"id"`
	FindingID uuid.UUID `json:"finding_id"`

	Action   string `json:"action"`
	Field    string `json:"field"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`

	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	ActorName string     `json:"actor_name"`

	Justification string    `json:"justification,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FindingComment is an analyst-authored note attached to a finding.
type FindingComment struct {
	ID        uuid.UUID `json:"id"`
	FindingID uuid.UUID `json:"finding_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLog is the tamper-evident trail of privileged actions (spec §4.F
// transition execution, spec §6 persisted-state layout).
type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Action     string    `json:"action"`
	ActorID    uuid.UUID `json:"actor_id"`
	Details    []byte    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
