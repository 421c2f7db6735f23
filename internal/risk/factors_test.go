package risk

import (
	"testing"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestCompute_CriticalHighEverythingHitsP1(t *testing.T) {
	epss := 0.9
	ratio := 2.5
	f := Factors{
		Severity:         entity.SeverityCritical,
		AssetCriticality: entity.CriticalityVeryHigh,
		KnownExploited:   true,
		EPSS:             &epss,
		SLARatio:         &ratio,
		DistinctTools:    3,
	}
	score, priority := Compute(f, DefaultWeights)
	if priority != entity.PriorityP1 {
		t.Fatalf("expected P1, got %s (score=%v)", priority, score)
	}
	if score != 100 {
		t.Fatalf("expected max composite 100, got %v", score)
	}
}

func TestCompute_LowEverythingHitsP5(t *testing.T) {
	f := Factors{
		Severity:         entity.SeverityInfo,
		AssetCriticality: entity.CriticalityLow,
	}
	score, priority := Compute(f, DefaultWeights)
	if priority != entity.PriorityP5 {
		t.Fatalf("expected P5, got %s (score=%v)", priority, score)
	}
	if score <= 0 {
		t.Fatalf("expected a small positive floor score, got %v", score)
	}
}

func TestCompute_ClampsToHundred(t *testing.T) {
	f := Factors{
		Severity:         entity.SeverityCritical,
		AssetCriticality: entity.CriticalityVeryHigh,
		KnownExploited:   true,
		DistinctTools:    5,
	}
	score, _ := Compute(f, DefaultWeights)
	if score > 100 {
		t.Fatalf("expected clamp to 100, got %v", score)
	}
}

func TestExploitabilitySubscore_PriorityOrder(t *testing.T) {
	epss := 0.5
	f := Factors{
		KnownExploited:  true,
		ExploitMaturity: entity.ExploitMaturityPoC,
		EPSS:            &epss,
	}
	if got := exploitabilitySubscore(f); got != 100 {
		t.Fatalf("KnownExploited must win over lower-priority signals, got %v", got)
	}

	f = Factors{ExploitMaturity: entity.ExploitMaturityPoC, EPSS: &epss}
	if got := exploitabilitySubscore(f); got != 50 {
		t.Fatalf("ExploitMaturity must win over EPSS, got %v", got)
	}

	f = Factors{EPSS: &epss}
	if got := exploitabilitySubscore(f); got != 50 {
		t.Fatalf("expected EPSS*100, got %v", got)
	}

	f = Factors{SASTTaintConfidence: "High"}
	if got := exploitabilitySubscore(f); got != 80 {
		t.Fatalf("expected taint confidence subscore 80, got %v", got)
	}

	f = Factors{}
	if got := exploitabilitySubscore(f); got != 20 {
		t.Fatalf("expected unknown floor 20, got %v", got)
	}
}

func TestAgeSubscore_Buckets(t *testing.T) {
	cases := []struct {
		ratio *float64
		want  float64
	}{
		{nil, 20},
		{ptr(2.5), 100},
		{ptr(1.2), 80},
		{ptr(0.8), 60},
		{ptr(0.6), 40},
		{ptr(0.1), 20},
	}
	for _, c := range cases {
		got := ageSubscore(Factors{SLARatio: c.ratio})
		if got != c.want {
			t.Errorf("ratio=%v: expected %v, got %v", c.ratio, c.want, got)
		}
	}
}

func TestCorrelationSubscore_Buckets(t *testing.T) {
	cases := []struct {
		tools, correlated int
		want              float64
	}{
		{3, 0, 100},
		{0, 3, 100},
		{2, 0, 70},
		{0, 2, 40},
		{0, 0, 10},
	}
	for _, c := range cases {
		got := correlationSubscore(Factors{DistinctTools: c.tools, CorrelatedFindings: c.correlated})
		if got != c.want {
			t.Errorf("tools=%d correlated=%d: expected %v, got %v", c.tools, c.correlated, c.want, got)
		}
	}
}

func ptr(f float64) *float64 { return &f }
