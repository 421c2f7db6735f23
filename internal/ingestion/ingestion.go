// Package ingestion orchestrates one uploaded scan file end to end: parse →
// resolve app_code → find-or-create stub application → intra-tool dedup →
// persist → auto-confirm → summarize (spec §4.H).
//
// Grounded in modules/scanning/service/ingestion_service.go's IngestScan:
// one outer transaction-ish wrapper around a per-record loop where each
// record's failure becomes a collected error, never an abort.
package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/appcode"
	"github.com/synapsec/core/internal/dedup"
	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/fingerprint"
	"github.com/synapsec/core/internal/lifecycle"
	"github.com/synapsec/core/internal/metrics"
	"github.com/synapsec/core/internal/parsers"
	"github.com/synapsec/core/internal/risk"
	"github.com/synapsec/core/internal/store"
)

// Request is the input to one ingestion run (spec §4.H).
type Request struct {
	Raw            []byte
	FileName       string
	ParserType     string
	DeclaredFormat string
	ActorID        uuid.UUID
}

// Result mirrors the spec's documented return shape for ingest().
type Result struct {
	IngestionLogID    uuid.UUID
	SourceTool        string
	SourceToolVersion string
	TotalParsed       int
	NewFindings       int
	UpdatedFindings   int
	ReopenedFindings  int
	Duplicates        int
	Quarantined       int
	Errors            int
	ErrorDetails      []entity.IngestionError
}

// recordOutcome tags what happened to one parsed finding, for the summary
// counters at the end of the run.
type recordOutcome string

const (
	outcomeCreated      recordOutcome = "Created"
	outcomeDeduplicated recordOutcome = "Deduplicated"
	outcomeReopened     recordOutcome = "Reopened"
)

// Run executes the full pipeline against one file (spec §4.H steps 1-3).
func Run(ctx context.Context, s store.Store, registry *parsers.Registry, req Request, now time.Time) (Result, error) {
	start := time.Now()
	parser, err := registry.Get(req.ParserType)
	if err != nil {
		return Result{}, apierr.Validation(fmt.Sprintf("unknown parser type %q", req.ParserType))
	}
	defer func() { metrics.ObserveDuration(metrics.IngestionDuration.WithLabelValues(parser.SourceTool()), start) }()

	parseResult, err := parser.Parse(req.Raw, req.DeclaredFormat)
	if err != nil {
		return Result{}, apierr.Validation(fmt.Sprintf("parse %s: %v", req.ParserType, err))
	}

	var ingestErrors []entity.IngestionError
	for _, pe := range parseResult.Errors {
		ingestErrors = append(ingestErrors, entity.IngestionError{
			RecordIndex: pe.RecordIndex, Stage: "parse", Field: pe.Field, Message: pe.Message,
		})
	}

	autoConfirmEnabled, err := s.GetBool(ctx, "auto_confirm_enabled", false)
	if err != nil {
		log.Printf("WARNING: failed to read auto_confirm_enabled, defaulting to disabled: %v", err)
		autoConfirmEnabled = false
	}
	var triageRules []entity.TriageRule
	if autoConfirmEnabled {
		triageRules, err = s.LoadActiveTriageRules(ctx)
		if err != nil {
			log.Printf("WARNING: failed to load triage rules, auto-confirm will not run: %v", err)
			autoConfirmEnabled = false
		}
	}

	patternCache := map[string][]entity.AppCodePattern{}
	counts := map[recordOutcome]int{}

	for i, pf := range parseResult.Findings {
		outcome, err := processFinding(ctx, s, pf, req.ActorID, autoConfirmEnabled, triageRules, patternCache, now)
		if err != nil {
			ingestErrors = append(ingestErrors, entity.IngestionError{
				RecordIndex: i, Stage: "ingest", Message: err.Error(),
			})
			continue
		}
		counts[outcome]++
	}

	result := Result{
		SourceTool:        parseResult.SourceTool,
		SourceToolVersion: parseResult.SourceToolVersion,
		TotalParsed:       len(parseResult.Findings),
		NewFindings:       counts[outcomeCreated],
		ReopenedFindings:  counts[outcomeReopened],
		Duplicates:        counts[outcomeDeduplicated],
		Quarantined:       0,
		Errors:            len(ingestErrors),
		ErrorDetails:      ingestErrors,
	}
	result.UpdatedFindings = result.Duplicates + result.ReopenedFindings

	metrics.IngestionRuns.WithLabelValues(result.SourceTool, string(entity.IngestionStatusCompleted)).Inc()
	metrics.IngestionFindings.WithLabelValues("created").Add(float64(result.NewFindings))
	metrics.IngestionFindings.WithLabelValues("deduplicated").Add(float64(result.Duplicates))
	metrics.IngestionFindings.WithLabelValues("reopened").Add(float64(result.ReopenedFindings))
	metrics.IngestionFindings.WithLabelValues("error").Add(float64(result.Errors))

	logID := uuid.New()
	errorJSON, merr := marshalErrors(ingestErrors)
	if merr != nil {
		log.Printf("WARNING: failed to marshal ingestion error details: %v", merr)
	}
	completed := now
	if err := s.InsertIngestionLog(ctx, &entity.IngestionLog{
		ID:            logID,
		SourceTool:    result.SourceTool,
		IngestionType: req.ParserType,
		FileName:      req.FileName,
		TotalRecords:  result.TotalParsed,
		New:           result.NewFindings,
		Updated:       result.UpdatedFindings,
		Duplicates:    result.Duplicates,
		Errors:        result.Errors,
		Quarantined:   result.Quarantined,
		Status:        entity.IngestionStatusCompleted,
		ErrorDetails:  errorJSON,
		StartedAt:     now,
		CompletedAt:   &completed,
		InitiatorID:   req.ActorID,
	}); err != nil {
		return result, apierr.Storage(fmt.Errorf("insert ingestion log: %w", err))
	}
	result.IngestionLogID = logID

	return result, nil
}

// processFinding runs one ParsedFinding through app_code resolution,
// stub-application upsert, intra-tool dedup, and (on Created) persistence
// plus auto-confirm, all inside one transaction (spec §4.H step 2).
func processFinding(ctx context.Context, s store.Store, pf parsers.ParsedFinding, actorID uuid.UUID, autoConfirmEnabled bool, triageRules []entity.TriageRule, patternCache map[string][]entity.AppCodePattern, now time.Time) (recordOutcome, error) {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("PANIC while ingesting a record, transaction rolled back: %v", r)
			panic(r)
		}
	}()

	appCode, resolved := resolveAppCode(ctx, s, pf, patternCache)

	var applicationID *uuid.UUID
	if resolved {
		app, err := tx.UpsertStub(ctx, appCode)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("upsert stub application %q: %w", appCode, err)
		}
		applicationID = &app.ID
	}

	fp := fingerprint.Of(appCode, pf.Core.FindingCategory, pf.Core.FingerprintCVE, pf.SAST, pf.SCA, pf.DAST)

	dedupResult, err := dedup.Check(ctx, tx, fp, actorID, now)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("dedup check: %w", err)
	}

	switch dedupResult.Outcome {
	case dedup.OutcomeUpdated:
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("commit update: %w", err)
		}
		return outcomeDeduplicated, nil
	case dedup.OutcomeReopened:
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("commit reopen: %w", err)
		}
		if err := recomputeRisk(ctx, s, dedupResult.FindingID, now); err != nil {
			log.Printf("WARNING: risk recompute after reopen failed: %v", err)
		}
		return outcomeReopened, nil
	}

	finding := buildFinding(pf, fp, applicationID, now)
	if err := tx.InsertFindingWithCategory(ctx, finding); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("insert finding: %w", err)
	}

	if autoConfirmEnabled {
		if err := lifecycle.AutoConfirm(ctx, tx, finding, triageRules, lifecycle.AlwaysConfirm, now); err != nil {
			tx.Rollback()
			return "", fmt.Errorf("auto-confirm: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit create: %w", err)
	}

	if err := recomputeRisk(ctx, s, finding.ID, now); err != nil {
		log.Printf("WARNING: risk recompute after create failed: %v", err)
	}

	return outcomeCreated, nil
}

func recomputeRisk(ctx context.Context, s store.Store, findingID uuid.UUID, now time.Time) error {
	_, _, err := risk.Recompute(ctx, s, findingID, now)
	return err
}

// resolveAppCode prefers the parser's own explicit metadata.app_code, and
// otherwise runs the resolver over that source tool's active patterns
// (spec §4.H step 2, §4.B).
func resolveAppCode(ctx context.Context, s store.Store, pf parsers.ParsedFinding, cache map[string][]entity.AppCodePattern) (string, bool) {
	if code, ok := pf.Core.Metadata["app_code"]; ok && code != "" {
		return code, true
	}

	patterns, ok := cache[pf.Core.SourceTool]
	if !ok {
		loaded, err := s.LoadActive(ctx, pf.Core.SourceTool)
		if err != nil {
			log.Printf("WARNING: failed to load app-code patterns for %s: %v", pf.Core.SourceTool, err)
			loaded = nil
		}
		patterns = loaded
		cache[pf.Core.SourceTool] = patterns
	}

	converted := make([]appcode.Pattern, 0, len(patterns))
	for _, p := range patterns {
		converted = append(converted, appcode.Pattern{
			FieldName: p.FieldName, Regex: p.RegexPattern, Priority: p.Priority, Active: p.Active,
		})
	}

	fields := make([]appcode.Field, 0, len(pf.Core.Metadata))
	for name, value := range pf.Core.Metadata {
		fields = append(fields, appcode.Field{Name: name, Value: value})
	}

	return appcode.Resolve(converted, fields)
}

func buildFinding(pf parsers.ParsedFinding, fp string, applicationID *uuid.UUID, now time.Time) *entity.Finding {
	return &entity.Finding{
		ID:                 uuid.New(),
		SourceTool:         pf.Core.SourceTool,
		SourceToolVersion:  pf.Core.SourceToolVersion,
		SourceFindingID:    pf.Core.SourceFindingID,
		FindingCategory:    pf.Core.FindingCategory,
		Title:              pf.Core.Title,
		Description:        pf.Core.Description,
		NormalizedSeverity: pf.Core.NormalizedSeverity,
		OriginalSeverity:   pf.Core.OriginalSeverity,
		CVSSScore:          pf.Core.CVSSScore,
		CVSSVector:         pf.Core.CVSSVector,
		CWEIDs:             pf.Core.CWEIDs,
		CVEIDs:             pf.Core.CVEIDs,
		OWASPCategory:      pf.Core.OWASPCategory,
		Confidence:         pf.Core.Confidence,
		Fingerprint:        fp,
		ApplicationID:      applicationID,
		RawFinding:         pf.Core.RawFinding,
		Metadata:           pf.Core.Metadata,
		FirstSeen:          now,
		LastSeen:           now,
		CreatedAt:          now,
		UpdatedAt:          now,
		StatusChangedAt:    now,
		Status:             entity.StatusNew,
		SLAStatus:          entity.SLAStatusNone,
		SAST:               pf.SAST,
		SCA:                pf.SCA,
		DAST:               pf.DAST,
	}
}
