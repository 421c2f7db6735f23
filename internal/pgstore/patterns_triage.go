package pgstore

import (
	"context"
	"fmt"

	"github.com/synapsec/core/internal/domain/entity"
)

func (b *base) LoadActive(ctx context.Context, sourceTool string) ([]entity.AppCodePattern, error) {
	rows, err := b.q.QueryContext(ctx, `SELECT id, source_tool, field_name, regex_pattern, priority,
		active, created_at, updated_at FROM app_code_patterns
		WHERE source_tool = $1 AND active = true ORDER BY priority DESC`, sourceTool)
	if err != nil {
		return nil, fmt.Errorf("load app-code patterns for %q: %w", sourceTool, err)
	}
	defer rows.Close()

	var out []entity.AppCodePattern
	for rows.Next() {
		var p entity.AppCodePattern
		if err := rows.Scan(&p.ID, &p.SourceTool, &p.FieldName, &p.RegexPattern, &p.Priority,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan app-code pattern row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (b *base) LoadActiveTriageRules(ctx context.Context) ([]entity.TriageRule, error) {
	rows, err := b.q.QueryContext(ctx, `SELECT id, name, conditions, active, created_at, updated_at
		FROM triage_rules WHERE active = true`)
	if err != nil {
		return nil, fmt.Errorf("load active triage rules: %w", err)
	}
	defer rows.Close()

	var out []entity.TriageRule
	for rows.Next() {
		var r entity.TriageRule
		if err := rows.Scan(&r.ID, &r.Name, &r.Conditions, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan triage rule row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
