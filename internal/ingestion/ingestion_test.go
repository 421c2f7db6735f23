package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/parsers"
	"github.com/synapsec/core/internal/store"
)

var (
	_ store.Store = (*fakeStore)(nil)
	_ store.Tx    = (*fakeTx)(nil)
	_ parsers.Parser = (*fakeParser)(nil)
)

type fakeStore struct {
	findingsByFP map[string]*entity.Finding
	findingsByID map[uuid.UUID]*entity.Finding
	apps         map[string]*entity.Application
	logs         []entity.IngestionLog
	autoConfirm  bool
	patterns     []entity.AppCodePattern
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		findingsByFP: map[string]*entity.Finding{},
		findingsByID: map[uuid.UUID]*entity.Finding{},
		apps:         map[string]*entity.Application{},
	}
}

func (s *fakeStore) BeginTx(ctx context.Context) (store.Tx, error) { return &fakeTx{s: s}, nil }

func (s *fakeStore) FindByFingerprint(ctx context.Context, fp string) (*entity.Finding, error) {
	return s.findingsByFP[fp], nil
}
func (s *fakeStore) InsertFindingWithCategory(ctx context.Context, f *entity.Finding) error {
	s.findingsByFP[f.Fingerprint] = f
	s.findingsByID[f.ID] = f
	return nil
}
func (s *fakeStore) ReopenFinding(ctx context.Context, id uuid.UUID, now time.Time) error {
	if f, ok := s.findingsByID[id]; ok {
		f.Status = entity.StatusNew
	}
	return nil
}
func (s *fakeStore) TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error {
	if f, ok := s.findingsByID[id]; ok {
		f.LastSeen = now
	}
	return nil
}
func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Finding, error) {
	return s.findingsByID[id], nil
}
func (s *fakeStore) ListByApplication(ctx context.Context, appID uuid.UUID) ([]*entity.Finding, error) {
	return nil, nil
}
func (s *fakeStore) List(ctx context.Context, filters store.FindingFilters, limit, offset int) ([]*entity.Finding, error) {
	return nil, nil
}
func (s *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FindingStatus, changedAt time.Time) error {
	if f, ok := s.findingsByID[id]; ok {
		f.Status = status
	}
	return nil
}
func (s *fakeStore) UpdateRiskScore(ctx context.Context, id uuid.UUID, score float64) error { return nil }
func (s *fakeStore) UpdateSLAStatus(ctx context.Context, id uuid.UUID, status entity.SLAStatus) error {
	return nil
}
func (s *fakeStore) GetByCode(ctx context.Context, code string) (*entity.Application, error) {
	return s.apps[code], nil
}
func (s *fakeStore) GetApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	for _, a := range s.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}
func (s *fakeStore) UpsertStub(ctx context.Context, code string) (*entity.Application, error) {
	if a, ok := s.apps[code]; ok {
		return a, nil
	}
	a := entity.StubApplication(code)
	s.apps[code] = a
	return a, nil
}
func (s *fakeStore) Insert(ctx context.Context, rel *entity.FindingRelationship) (bool, error) {
	return true, nil
}
func (s *fakeStore) ListRelationshipsByApplication(ctx context.Context, appID uuid.UUID, types []entity.RelationshipType) ([]*entity.FindingRelationship, error) {
	return nil, nil
}
func (s *fakeStore) AppendHistory(ctx context.Context, h *entity.FindingHistory) error { return nil }
func (s *fakeStore) AppendAudit(ctx context.Context, a *entity.AuditLog) error         { return nil }
func (s *fakeStore) LoadActive(ctx context.Context, sourceTool string) ([]entity.AppCodePattern, error) {
	return s.patterns, nil
}
func (s *fakeStore) InsertIngestionLog(ctx context.Context, log *entity.IngestionLog) error {
	s.logs = append(s.logs, *log)
	return nil
}
func (s *fakeStore) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	if key == "auto_confirm_enabled" {
		return s.autoConfirm, nil
	}
	return fallback, nil
}
func (s *fakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) { return nil, nil }
func (s *fakeStore) LoadActiveTriageRules(ctx context.Context) ([]entity.TriageRule, error) {
	return nil, nil
}

type fakeTx struct{ s *fakeStore }

func (t *fakeTx) FindByFingerprint(ctx context.Context, fp string) (*entity.Finding, error) {
	return t.s.FindByFingerprint(ctx, fp)
}
func (t *fakeTx) InsertFindingWithCategory(ctx context.Context, f *entity.Finding) error {
	return t.s.InsertFindingWithCategory(ctx, f)
}
func (t *fakeTx) ReopenFinding(ctx context.Context, id uuid.UUID, now time.Time) error {
	return t.s.ReopenFinding(ctx, id, now)
}
func (t *fakeTx) TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error {
	return t.s.TouchLastSeen(ctx, id, now)
}
func (t *fakeTx) GetByID(ctx context.Context, id uuid.UUID) (*entity.Finding, error) {
	return t.s.GetByID(ctx, id)
}
func (t *fakeTx) ListByApplication(ctx context.Context, appID uuid.UUID) ([]*entity.Finding, error) {
	return t.s.ListByApplication(ctx, appID)
}
func (t *fakeTx) List(ctx context.Context, filters store.FindingFilters, limit, offset int) ([]*entity.Finding, error) {
	return t.s.List(ctx, filters, limit, offset)
}
func (t *fakeTx) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FindingStatus, changedAt time.Time) error {
	return t.s.UpdateStatus(ctx, id, status, changedAt)
}
func (t *fakeTx) UpdateRiskScore(ctx context.Context, id uuid.UUID, score float64) error {
	return t.s.UpdateRiskScore(ctx, id, score)
}
func (t *fakeTx) UpdateSLAStatus(ctx context.Context, id uuid.UUID, status entity.SLAStatus) error {
	return t.s.UpdateSLAStatus(ctx, id, status)
}
func (t *fakeTx) GetByCode(ctx context.Context, code string) (*entity.Application, error) {
	return t.s.GetByCode(ctx, code)
}
func (t *fakeTx) GetApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	return t.s.GetApplicationByID(ctx, id)
}
func (t *fakeTx) UpsertStub(ctx context.Context, code string) (*entity.Application, error) {
	return t.s.UpsertStub(ctx, code)
}
func (t *fakeTx) Insert(ctx context.Context, rel *entity.FindingRelationship) (bool, error) {
	return t.s.Insert(ctx, rel)
}
func (t *fakeTx) ListRelationshipsByApplication(ctx context.Context, appID uuid.UUID, types []entity.RelationshipType) ([]*entity.FindingRelationship, error) {
	return t.s.ListRelationshipsByApplication(ctx, appID, types)
}
func (t *fakeTx) AppendHistory(ctx context.Context, h *entity.FindingHistory) error {
	return t.s.AppendHistory(ctx, h)
}
func (t *fakeTx) AppendAudit(ctx context.Context, a *entity.AuditLog) error {
	return t.s.AppendAudit(ctx, a)
}
func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

// fakeParser returns a canned ParseResult regardless of input, standing in
// for a real scanner-format parser in these orchestration tests.
type fakeParser struct {
	result parsers.ParseResult
	err    error
}

func (p *fakeParser) SourceTool() string        { return "FakeTool" }
func (p *fakeParser) Category() entity.Category { return entity.CategorySAST }
func (p *fakeParser) Parse(raw []byte, declaredFormat string) (parsers.ParseResult, error) {
	return p.result, p.err
}

func newRegistryWith(parserType string, p parsers.Parser) *parsers.Registry {
	r := parsers.NewRegistry()
	r.Register(parserType, p)
	return r
}

func sastFinding(appCode string) parsers.ParsedFinding {
	return parsers.ParsedFinding{
		Core: parsers.Core{
			SourceTool:      "FakeTool",
			FindingCategory: entity.CategorySAST,
			Title:           "Hardcoded secret",
			NormalizedSeverity: entity.SeverityHigh,
			Metadata:        map[string]string{"app_code": appCode},
		},
		SAST: &entity.SASTDetail{FilePath: "src/main.go", RuleID: "go:S1234", Branch: "main"},
	}
}

func TestRun_CreatesNewFindingAndLogsSummary(t *testing.T) {
	s := newFakeStore()
	parser := &fakeParser{result: parsers.ParseResult{
		SourceTool: "FakeTool",
		Findings:   []parsers.ParsedFinding{sastFinding("WEBAPP")},
	}}
	registry := newRegistryWith("fake", parser)

	result, err := Run(context.Background(), s, registry, Request{ParserType: "fake", ActorID: uuid.New()}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewFindings != 1 || result.TotalParsed != 1 {
		t.Fatalf("expected 1 new finding out of 1 parsed, got %+v", result)
	}
	if len(s.logs) != 1 {
		t.Fatalf("expected exactly one ingestion log row, got %d", len(s.logs))
	}
	if _, ok := s.apps["WEBAPP"]; !ok {
		t.Fatal("expected a stub application to be upserted for app_code WEBAPP")
	}
}

func TestRun_SecondIngestOfSameRecordDeduplicates(t *testing.T) {
	s := newFakeStore()
	parser := &fakeParser{result: parsers.ParseResult{
		SourceTool: "FakeTool",
		Findings:   []parsers.ParsedFinding{sastFinding("WEBAPP")},
	}}
	registry := newRegistryWith("fake", parser)

	if _, err := Run(context.Background(), s, registry, Request{ParserType: "fake", ActorID: uuid.New()}, time.Now()); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}
	result, err := Run(context.Background(), s, registry, Request{ParserType: "fake", ActorID: uuid.New()}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if result.Duplicates != 1 || result.NewFindings != 0 {
		t.Fatalf("expected the second identical record to dedup as a duplicate, got %+v", result)
	}
}

func TestRun_AutoConfirmsWhenEnabled(t *testing.T) {
	s := newFakeStore()
	s.autoConfirm = true
	parser := &fakeParser{result: parsers.ParseResult{
		SourceTool: "FakeTool",
		Findings:   []parsers.ParsedFinding{sastFinding("WEBAPP")},
	}}
	registry := newRegistryWith("fake", parser)

	if _, err := Run(context.Background(), s, registry, Request{ParserType: "fake", ActorID: uuid.New()}, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found *entity.Finding
	for _, f := range s.findingsByID {
		found = f
	}
	if found == nil || found.Status != entity.StatusConfirmed {
		t.Fatalf("expected the new finding to be auto-confirmed, got %+v", found)
	}
}

func TestRun_UnknownParserTypeIsValidationError(t *testing.T) {
	s := newFakeStore()
	registry := parsers.NewRegistry()
	_, err := Run(context.Background(), s, registry, Request{ParserType: "does-not-exist"}, time.Now())
	if err == nil {
		t.Fatal("expected an error for an unregistered parser type")
	}
}

func TestRun_ParseErrorsAreCollectedNotFatal(t *testing.T) {
	s := newFakeStore()
	parser := &fakeParser{result: parsers.ParseResult{
		SourceTool: "FakeTool",
		Findings:   []parsers.ParsedFinding{sastFinding("WEBAPP")},
		Errors:     []parsers.ParseError{{RecordIndex: 3, Field: "severity", Message: "unrecognized value"}},
	}}
	registry := newRegistryWith("fake", parser)

	result, err := Run(context.Background(), s, registry, Request{ParserType: "fake", ActorID: uuid.New()}, time.Now())
	if err != nil {
		t.Fatalf("a per-record parse error must not abort the whole file: %v", err)
	}
	if result.Errors != 1 || result.NewFindings != 1 {
		t.Fatalf("expected 1 error alongside 1 successful finding, got %+v", result)
	}
}
