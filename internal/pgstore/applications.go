package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

const applicationColumns = `
	id, app_code, name, description, criticality, tier, exposure,
	data_classification, status, is_verified, apm_enrichment, owner,
	regulatory_scoped, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*entity.Application, error) {
	var a entity.Application
	err := row.Scan(
		&a.ID, &a.AppCode, &a.Name, &a.Description, &a.Criticality, &a.Tier, &a.Exposure,
		&a.DataClassification, &a.Status, &a.IsVerified, &a.APMEnrichment, &a.Owner,
		&a.RegulatoryScoped, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (b *base) GetByCode(ctx context.Context, appCode string) (*entity.Application, error) {
	row := b.q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE app_code = $1`, appCode)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application by code %q: %w", appCode, err)
	}
	return a, nil
}

func (b *base) GetApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	row := b.q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, err)
	}
	return a, nil
}

// UpsertStub is idempotent on app_code: ON CONFLICT DO NOTHING then a
// follow-up read, mirroring CreateOrGetPattern's pattern-dedup shape from
// the teacher's transaction_methods.go.
func (b *base) UpsertStub(ctx context.Context, appCode string) (*entity.Application, error) {
	if existing, err := b.GetByCode(ctx, appCode); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	stub := entity.StubApplication(appCode)
	_, err := b.q.ExecContext(ctx, `INSERT INTO applications (
		id, app_code, name, description, criticality, tier, exposure,
		data_classification, status, is_verified, owner, regulatory_scoped, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	ON CONFLICT (app_code) DO NOTHING`,
		stub.ID, stub.AppCode, stub.Name, stub.Description, stub.Criticality, stub.Tier, stub.Exposure,
		stub.DataClassification, stub.Status, stub.IsVerified, stub.Owner, stub.RegulatoryScoped,
		stub.CreatedAt, stub.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert stub application %q: %w", appCode, err)
	}
	return b.GetByCode(ctx, appCode)
}
