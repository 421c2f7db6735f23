package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestAutoConfirm_ConfirmsWhenNoRuleHolds(t *testing.T) {
	s := newFakeStore()
	id := uuid.New()
	finding := &entity.Finding{ID: id, Status: entity.StatusNew}
	s.findings[id] = finding
	tx := &fakeTx{s: s}

	err := AutoConfirm(context.Background(), tx, finding, nil, AlwaysConfirm, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding.Status != entity.StatusConfirmed {
		t.Fatalf("expected Confirmed, got %s", finding.Status)
	}
	if len(s.history) != 1 || len(s.audits) != 1 {
		t.Fatalf("expected exactly one history and one audit row, got %d/%d", len(s.history), len(s.audits))
	}
}

func TestAutoConfirm_HoldsWhenRuleFires(t *testing.T) {
	s := newFakeStore()
	id := uuid.New()
	finding := &entity.Finding{ID: id, Status: entity.StatusNew}
	s.findings[id] = finding
	tx := &fakeTx{s: s}

	holdAll := func(f *entity.Finding, r entity.TriageRule) bool { return true }
	rules := []entity.TriageRule{{Active: true}}

	err := AutoConfirm(context.Background(), tx, finding, rules, holdAll, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding.Status != entity.StatusNew {
		t.Fatalf("expected finding to remain New when a rule holds it, got %s", finding.Status)
	}
	if len(s.history) != 0 || len(s.audits) != 0 {
		t.Fatal("expected no history or audit rows when auto-confirm is held")
	}
}

func TestAutoConfirm_IgnoresInactiveRules(t *testing.T) {
	s := newFakeStore()
	id := uuid.New()
	finding := &entity.Finding{ID: id, Status: entity.StatusNew}
	s.findings[id] = finding
	tx := &fakeTx{s: s}

	holdAll := func(f *entity.Finding, r entity.TriageRule) bool { return true }
	rules := []entity.TriageRule{{Active: false}}

	if err := AutoConfirm(context.Background(), tx, finding, rules, holdAll, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding.Status != entity.StatusConfirmed {
		t.Fatal("inactive rules must not hold auto-confirm")
	}
}
