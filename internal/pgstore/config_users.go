package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

// GetBool reads a JSON-boolean value from system_config (spec §6, the
// "system config key auto_confirm_enabled" note in §4.F).
func (b *base) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	var raw []byte
	err := b.q.QueryRowContext(ctx, `SELECT value FROM system_config WHERE key = $1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("read system_config %q: %w", key, err)
	}
	var val bool
	if err := json.Unmarshal(raw, &val); err != nil {
		return fallback, fmt.Errorf("unmarshal system_config %q: %w", key, err)
	}
	return val, nil
}

func (b *base) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	err := b.q.QueryRowContext(ctx, `SELECT id, username, email, role, active,
		failed_login_attempts, locked_until, created_at, updated_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Active,
			&u.FailedLoginAttempts, &u.LockedUntil, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}
