package risk

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

var _ store.Store = (*fakeStore)(nil)

type fakeStore struct {
	findings      map[uuid.UUID]*entity.Finding
	applications  map[uuid.UUID]*entity.Application
	relationships []*entity.FindingRelationship
	scores        map[uuid.UUID]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		findings:     map[uuid.UUID]*entity.Finding{},
		applications: map[uuid.UUID]*entity.Application{},
		scores:       map[uuid.UUID]float64{},
	}
}

func (s *fakeStore) FindByFingerprint(ctx context.Context, fp string) (*entity.Finding, error) { return nil, nil }
func (s *fakeStore) InsertFindingWithCategory(ctx context.Context, f *entity.Finding) error     { return nil }
func (s *fakeStore) ReopenFinding(ctx context.Context, id uuid.UUID, now time.Time) error       { return nil }
func (s *fakeStore) TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error       { return nil }
func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Finding, error) {
	return s.findings[id], nil
}
func (s *fakeStore) ListByApplication(ctx context.Context, appID uuid.UUID) ([]*entity.Finding, error) {
	var out []*entity.Finding
	for _, f := range s.findings {
		if f.ApplicationID != nil && *f.ApplicationID == appID {
			out = append(out, f)
		}
	}
	return out, nil
}
func (s *fakeStore) List(ctx context.Context, filters store.FindingFilters, limit, offset int) ([]*entity.Finding, error) {
	return nil, nil
}
func (s *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FindingStatus, changedAt time.Time) error {
	return nil
}
func (s *fakeStore) UpdateRiskScore(ctx context.Context, id uuid.UUID, score float64) error {
	s.scores[id] = score
	return nil
}
func (s *fakeStore) UpdateSLAStatus(ctx context.Context, id uuid.UUID, status entity.SLAStatus) error {
	return nil
}
func (s *fakeStore) GetByCode(ctx context.Context, code string) (*entity.Application, error) { return nil, nil }
func (s *fakeStore) GetApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	return s.applications[id], nil
}
func (s *fakeStore) UpsertStub(ctx context.Context, code string) (*entity.Application, error) {
	return nil, nil
}
func (s *fakeStore) Insert(ctx context.Context, rel *entity.FindingRelationship) (bool, error) {
	s.relationships = append(s.relationships, rel)
	return true, nil
}
func (s *fakeStore) ListRelationshipsByApplication(ctx context.Context, appID uuid.UUID, types []entity.RelationshipType) ([]*entity.FindingRelationship, error) {
	return s.relationships, nil
}
func (s *fakeStore) AppendHistory(ctx context.Context, h *entity.FindingHistory) error { return nil }
func (s *fakeStore) AppendAudit(ctx context.Context, a *entity.AuditLog) error         { return nil }
func (s *fakeStore) LoadActive(ctx context.Context, sourceTool string) ([]entity.AppCodePattern, error) {
	return nil, nil
}
func (s *fakeStore) InsertIngestionLog(ctx context.Context, log *entity.IngestionLog) error { return nil }
func (s *fakeStore) LoadActiveTriageRules(ctx context.Context) ([]entity.TriageRule, error) {
	return nil, nil
}
func (s *fakeStore) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	return fallback, nil
}
func (s *fakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) { return nil, nil }
func (s *fakeStore) BeginTx(ctx context.Context) (store.Tx, error)                       { return nil, nil }

func TestRecompute_PersistsScoreAndUsesCorrelationDensity(t *testing.T) {
	s := newFakeStore()
	app := uuid.New()
	s.applications[app] = &entity.Application{ID: app, Criticality: entity.CriticalityHigh}

	a := &entity.Finding{ID: uuid.New(), ApplicationID: &app, SourceTool: "SonarQube", NormalizedSeverity: entity.SeverityHigh, FindingCategory: entity.CategorySAST}
	b := &entity.Finding{ID: uuid.New(), ApplicationID: &app, SourceTool: "Tenable", NormalizedSeverity: entity.SeverityHigh, FindingCategory: entity.CategoryDAST}
	c := &entity.Finding{ID: uuid.New(), ApplicationID: &app, SourceTool: "Xray", NormalizedSeverity: entity.SeverityHigh, FindingCategory: entity.CategorySCA}
	s.findings[a.ID] = a
	s.findings[b.ID] = b
	s.findings[c.ID] = c

	s.relationships = []*entity.FindingRelationship{
		{SourceFindingID: a.ID, TargetFindingID: b.ID, RelationshipType: entity.RelationshipCorrelatedWith},
		{SourceFindingID: a.ID, TargetFindingID: c.ID, RelationshipType: entity.RelationshipCorrelatedWith},
	}

	score, priority, err := Recompute(context.Background(), s, a.ID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score <= 0 {
		t.Fatalf("expected a positive score, got %v", score)
	}
	if s.scores[a.ID] != score {
		t.Fatalf("expected UpdateRiskScore to persist %v, got %v", score, s.scores[a.ID])
	}
	_ = priority
}

func TestRecompute_NotFound(t *testing.T) {
	s := newFakeStore()
	_, _, err := Recompute(context.Background(), s, uuid.New(), time.Now())
	if err == nil {
		t.Fatal("expected NotFound error for unknown finding id")
	}
}
