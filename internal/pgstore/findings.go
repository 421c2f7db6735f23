package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

const findingColumns = `
	id, source_tool, source_tool_version, source_finding_id, finding_category,
	title, description, normalized_severity, original_severity, cvss_score,
	cvss_vector, cwe_ids, cve_ids, owasp_category, confidence, fingerprint,
	application_id, tags, remediation_guidance, raw_finding, metadata,
	first_seen, last_seen, created_at, updated_at, status_changed_at, status,
	sla_due_date, sla_status, composite_risk_score, owner_id`

func scanFinding(row interface{ Scan(...interface{}) error }) (*entity.Finding, error) {
	var f entity.Finding
	var metadataJSON, rawJSON []byte
	err := row.Scan(
		&f.ID, &f.SourceTool, &f.SourceToolVersion, &f.SourceFindingID, &f.FindingCategory,
		&f.Title, &f.Description, &f.NormalizedSeverity, &f.OriginalSeverity, &f.CVSSScore,
		&f.CVSSVector, pq.Array(&f.CWEIDs), pq.Array(&f.CVEIDs), &f.OWASPCategory, &f.Confidence, &f.Fingerprint,
		&f.ApplicationID, pq.Array(&f.Tags), &f.RemediationGuidance, &rawJSON, &metadataJSON,
		&f.FirstSeen, &f.LastSeen, &f.CreatedAt, &f.UpdatedAt, &f.StatusChangedAt, &f.Status,
		&f.SLADueDate, &f.SLAStatus, &f.CompositeRiskScore, &f.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	f.RawFinding = rawJSON
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &f.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal finding metadata: %w", err)
		}
	}
	return &f, nil
}

func (b *base) loadCategoryLayer(ctx context.Context, f *entity.Finding) error {
	switch f.FindingCategory {
	case entity.CategorySAST:
		var d entity.SASTDetail
		row := b.q.QueryRowContext(ctx, `SELECT finding_id, file_path, line_start, line_end, project,
			rule_name, rule_id, branch, language, taint_source, taint_sink, taint_confidence,
			scanner_tags, quality_gate, code_snippet FROM finding_sast WHERE finding_id = $1`, f.ID)
		if err := row.Scan(&d.FindingID, &d.FilePath, &d.LineStart, &d.LineEnd, &d.Project,
			&d.RuleName, &d.RuleID, &d.Branch, &d.Language, &d.TaintSource, &d.TaintSink,
			&d.TaintConfidence, pq.Array(&d.ScannerTags), &d.QualityGate, &d.CodeSnippet); err != nil {
			return err
		}
		f.SAST = &d
	case entity.CategorySCA:
		var d entity.SCADetail
		row := b.q.QueryRowContext(ctx, `SELECT finding_id, package_name, package_version, package_type,
			fixed_version, dependency_type, dependency_path, license, epss, known_exploited,
			exploit_maturity, impacted_artifact FROM finding_sca WHERE finding_id = $1`, f.ID)
		if err := row.Scan(&d.FindingID, &d.PackageName, &d.PackageVersion, &d.PackageType,
			&d.FixedVersion, &d.DependencyType, &d.DependencyPath, &d.License, &d.EPSS,
			&d.KnownExploited, &d.ExploitMaturity, &d.ImpactedArtifact); err != nil {
			return err
		}
		f.SCA = &d
	case entity.CategoryDAST:
		var d entity.DASTDetail
		row := b.q.QueryRowContext(ctx, `SELECT finding_id, target_url, method, parameter, attack_vector,
			request_evidence, response_evidence, authentication_context, web_app_name, scan_policy,
			dast_confirmed FROM finding_dast WHERE finding_id = $1`, f.ID)
		if err := row.Scan(&d.FindingID, &d.TargetURL, &d.Method, &d.Parameter, &d.AttackVector,
			&d.RequestEvidence, &d.ResponseEvidence, &d.AuthenticationContext, &d.WebAppName,
			&d.ScanPolicy, &d.DastConfirmed); err != nil {
			return err
		}
		f.DAST = &d
	}
	return nil
}

func (b *base) FindByFingerprint(ctx context.Context, fingerprint string) (*entity.Finding, error) {
	row := b.q.QueryRowContext(ctx, `SELECT `+findingColumns+` FROM findings
		WHERE fingerprint = $1 ORDER BY created_at DESC LIMIT 1`, fingerprint)
	f, err := scanFinding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find finding by fingerprint: %w", err)
	}
	if err := b.loadCategoryLayer(ctx, f); err != nil {
		return nil, fmt.Errorf("load category layer: %w", err)
	}
	return f, nil
}

func (b *base) InsertFindingWithCategory(ctx context.Context, f *entity.Finding) error {
	metadataJSON, err := json.Marshal(f.Metadata)
	if err != nil {
		return fmt.Errorf("marshal finding metadata: %w", err)
	}
	_, err = b.q.ExecContext(ctx, `INSERT INTO findings (
		id, source_tool, source_tool_version, source_finding_id, finding_category,
		title, description, normalized_severity, original_severity, cvss_score,
		cvss_vector, cwe_ids, cve_ids, owasp_category, confidence, fingerprint,
		application_id, tags, remediation_guidance, raw_finding, metadata,
		first_seen, last_seen, created_at, updated_at, status_changed_at, status,
		sla_due_date, sla_status, composite_risk_score, owner_id
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,
		$22,$23,$24,$25,$26,$27,$28,$29,$30,$31)`,
		f.ID, f.SourceTool, f.SourceToolVersion, f.SourceFindingID, f.FindingCategory,
		f.Title, f.Description, f.NormalizedSeverity, f.OriginalSeverity, f.CVSSScore,
		f.CVSSVector, pq.Array(f.CWEIDs), pq.Array(f.CVEIDs), f.OWASPCategory, f.Confidence, f.Fingerprint,
		f.ApplicationID, pq.Array(f.Tags), f.RemediationGuidance, []byte(f.RawFinding), metadataJSON,
		f.FirstSeen, f.LastSeen, f.CreatedAt, f.UpdatedAt, f.StatusChangedAt, f.Status,
		f.SLADueDate, f.SLAStatus, f.CompositeRiskScore, f.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err, "findings_fingerprint_idx") {
			return apierr.Conflict("a finding with this fingerprint already exists")
		}
		return fmt.Errorf("insert finding: %w", err)
	}
	return b.insertCategoryLayer(ctx, f)
}

func (b *base) insertCategoryLayer(ctx context.Context, f *entity.Finding) error {
	var err error
	switch f.FindingCategory {
	case entity.CategorySAST:
		d := f.SAST
		_, err = b.q.ExecContext(ctx, `INSERT INTO finding_sast (finding_id, file_path, line_start,
			line_end, project, rule_name, rule_id, branch, language, taint_source, taint_sink,
			taint_confidence, scanner_tags, quality_gate, code_snippet)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			f.ID, d.FilePath, d.LineStart, d.LineEnd, d.Project, d.RuleName, d.RuleID, d.Branch,
			d.Language, d.TaintSource, d.TaintSink, d.TaintConfidence, pq.Array(d.ScannerTags),
			d.QualityGate, d.CodeSnippet)
	case entity.CategorySCA:
		d := f.SCA
		_, err = b.q.ExecContext(ctx, `INSERT INTO finding_sca (finding_id, package_name,
			package_version, package_type, fixed_version, dependency_type, dependency_path, license,
			epss, known_exploited, exploit_maturity, impacted_artifact)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			f.ID, d.PackageName, d.PackageVersion, d.PackageType, d.FixedVersion, d.DependencyType,
			d.DependencyPath, d.License, d.EPSS, d.KnownExploited, d.ExploitMaturity, d.ImpactedArtifact)
	case entity.CategoryDAST:
		d := f.DAST
		_, err = b.q.ExecContext(ctx, `INSERT INTO finding_dast (finding_id, target_url, method,
			parameter, attack_vector, request_evidence, response_evidence, authentication_context,
			web_app_name, scan_policy, dast_confirmed)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			f.ID, d.TargetURL, d.Method, d.Parameter, d.AttackVector, d.RequestEvidence,
			d.ResponseEvidence, d.AuthenticationContext, d.WebAppName, d.ScanPolicy, d.DastConfirmed)
	}
	if err != nil {
		return fmt.Errorf("insert %s category layer: %w", f.FindingCategory, err)
	}
	return nil
}

func (b *base) ReopenFinding(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := b.q.ExecContext(ctx, `UPDATE findings SET status = $1, last_seen = $2,
		updated_at = $2, status_changed_at = $2 WHERE id = $3`, entity.StatusNew, now, id)
	if err != nil {
		return fmt.Errorf("reopen finding %s: %w", id, err)
	}
	return nil
}

func (b *base) TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := b.q.ExecContext(ctx, `UPDATE findings SET last_seen = $1, updated_at = $1 WHERE id = $2`, now, id)
	if err != nil {
		return fmt.Errorf("touch last_seen for finding %s: %w", id, err)
	}
	return nil
}

func (b *base) GetByID(ctx context.Context, id uuid.UUID) (*entity.Finding, error) {
	row := b.q.QueryRowContext(ctx, `SELECT `+findingColumns+` FROM findings WHERE id = $1`, id)
	f, err := scanFinding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get finding %s: %w", id, err)
	}
	if err := b.loadCategoryLayer(ctx, f); err != nil {
		return nil, fmt.Errorf("load category layer for finding %s: %w", id, err)
	}
	return f, nil
}

func (b *base) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Finding, error) {
	rows, err := b.q.QueryContext(ctx, `SELECT `+findingColumns+` FROM findings
		WHERE application_id = $1 ORDER BY created_at DESC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list findings for application %s: %w", applicationID, err)
	}
	defer rows.Close()

	var out []*entity.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		if err := b.loadCategoryLayer(ctx, f); err != nil {
			return nil, fmt.Errorf("load category layer for finding %s: %w", f.ID, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (b *base) List(ctx context.Context, filters store.FindingFilters, limit, offset int) ([]*entity.Finding, error) {
	query := `SELECT ` + findingColumns + ` FROM findings WHERE 1=1`
	var args []interface{}
	n := 0
	add := func(clause string, val interface{}) {
		n++
		query += fmt.Sprintf(" AND %s $%d", clause, n)
		args = append(args, val)
	}
	if filters.ApplicationID != nil {
		add("application_id =", *filters.ApplicationID)
	}
	if filters.Category != "" {
		add("finding_category =", filters.Category)
	}
	if filters.Severity != "" {
		add("normalized_severity =", filters.Severity)
	}
	if filters.Status != "" {
		add("status =", filters.Status)
	}
	query += fmt.Sprintf(" ORDER BY composite_risk_score DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := b.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	var out []*entity.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (b *base) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FindingStatus, changedAt time.Time) error {
	_, err := b.q.ExecContext(ctx, `UPDATE findings SET status = $1, status_changed_at = $2,
		updated_at = $2 WHERE id = $3`, status, changedAt, id)
	if err != nil {
		return fmt.Errorf("update status for finding %s: %w", id, err)
	}
	return nil
}

func (b *base) UpdateRiskScore(ctx context.Context, id uuid.UUID, score float64) error {
	_, err := b.q.ExecContext(ctx, `UPDATE findings SET composite_risk_score = $1, updated_at = NOW() WHERE id = $2`, score, id)
	if err != nil {
		return fmt.Errorf("update risk score for finding %s: %w", id, err)
	}
	return nil
}

func (b *base) UpdateSLAStatus(ctx context.Context, id uuid.UUID, status entity.SLAStatus) error {
	_, err := b.q.ExecContext(ctx, `UPDATE findings SET sla_status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update sla_status for finding %s: %w", id, err)
	}
	return nil
}
