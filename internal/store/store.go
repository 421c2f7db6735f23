// Package store declares the persistence contracts every core component
// depends on (spec §6 "Operations the core consumes from the store"). It
// holds no implementation; internal/pgstore provides the Postgres-backed one.
//
// Grounded in modules/shared/domain/repository/repository.go's filter-struct
// pattern and the method shapes scattered across
// modules/shared/infrastructure/persistence/*_repository.go, lifted into
// explicit interfaces so dedup/correlation/lifecycle/ingestion can be tested
// against a fake without a database.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

// FindingStore is every finding-shaped operation the core needs.
type FindingStore interface {
	// FindByFingerprint returns at most one finding for a fingerprint,
	// preferring the most recently created when more than one theoretically
	// exists (spec §4.D).
	FindByFingerprint(ctx context.Context, fingerprint string) (*entity.Finding, error)

	// InsertFindingWithCategory persists the core row and its single
	// category-layer row; run on a Tx, the two inserts commit or roll back
	// together.
	InsertFindingWithCategory(ctx context.Context, f *entity.Finding) error

	// ReopenFinding transitions a Closed finding back to New, bumping
	// last_seen/updated_at, inside the caller's transaction.
	ReopenFinding(ctx context.Context, id uuid.UUID, now time.Time) error

	// TouchLastSeen updates last_seen/updated_at only (spec §4.D "Updated").
	TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Finding, error)

	// ListByApplication loads every finding (with category fields joined) for
	// one application — the correlation run's input set (spec §4.E).
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Finding, error)

	List(ctx context.Context, filters FindingFilters, limit, offset int) ([]*entity.Finding, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FindingStatus, changedAt time.Time) error

	UpdateRiskScore(ctx context.Context, id uuid.UUID, score float64) error

	// UpdateSLAStatus persists the periodic sweep's recalculated SLA bucket
	// (spec §9, "SLA status recalculation" trigger).
	UpdateSLAStatus(ctx context.Context, id uuid.UUID, status entity.SLAStatus) error
}

// FindingFilters narrows list_findings (spec §6).
type FindingFilters struct {
	ApplicationID *uuid.UUID
	Category      entity.Category
	Severity      entity.Severity
	Status        entity.FindingStatus
}

// ApplicationStore resolves and stubs applications.
type ApplicationStore interface {
	GetByCode(ctx context.Context, appCode string) (*entity.Application, error)
	GetApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)

	// UpsertStub is idempotent on app_code: returns the existing row, or
	// inserts an unverified "[Stub] {code}" application (spec §4.H).
	UpsertStub(ctx context.Context, appCode string) (*entity.Application, error)
}

// RelationshipStore records finding-to-finding edges.
type RelationshipStore interface {
	// Insert is upsert-safe on (source_finding_id, target_finding_id,
	// relationship_type); returns whether a new row was created.
	Insert(ctx context.Context, rel *entity.FindingRelationship) (created bool, err error)

	ListRelationshipsByApplication(ctx context.Context, applicationID uuid.UUID, types []entity.RelationshipType) ([]*entity.FindingRelationship, error)
}

// HistoryStore appends finding history and audit rows.
type HistoryStore interface {
	AppendHistory(ctx context.Context, h *entity.FindingHistory) error
	AppendAudit(ctx context.Context, a *entity.AuditLog) error
}

// PatternStore loads app-code resolver patterns.
type PatternStore interface {
	// LoadActive returns patterns for sourceTool ordered by priority desc,
	// active only (spec §6).
	LoadActive(ctx context.Context, sourceTool string) ([]entity.AppCodePattern, error)
}

// TriageRuleStore loads the rules the auto-confirm hook evaluates.
type TriageRuleStore interface {
	LoadActiveTriageRules(ctx context.Context) ([]entity.TriageRule, error)
}

// IngestionLogStore records one row per uploaded file.
type IngestionLogStore interface {
	InsertIngestionLog(ctx context.Context, log *entity.IngestionLog) error
}

// ConfigStore reads the process-wide system_config table.
type ConfigStore interface {
	GetBool(ctx context.Context, key string, fallback bool) (bool, error)
}

// UserStore resolves actors for RBAC checks.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// Tx is a unit-of-work boundary: callers obtain a Store-shaped transaction
// handle, do their work against it, then Commit or the deferred Rollback
// fires (spec §5 "multi-statement critical sections run inside a single
// transaction").
type Tx interface {
	FindingStore
	ApplicationStore
	RelationshipStore
	HistoryStore

	Commit() error
	Rollback() error
}

// Store is the full persistence surface, including the ability to start a
// transaction that implements the same read/write contracts.
type Store interface {
	FindingStore
	ApplicationStore
	RelationshipStore
	HistoryStore
	PatternStore
	TriageRuleStore
	IngestionLogStore
	ConfigStore
	UserStore

	BeginTx(ctx context.Context) (Tx, error)
}
