// Package schedule runs the periodic sweeps the core depends on outside any
// single request: SLA status recomputation and a correlation pass over every
// application with findings. Grounded in the teacher's
// modules/scanning/service/scan_cleanup_service.go ticker-based worker,
// generalized from time.Ticker to robfig/cron/v3 so sweep cadence is a cron
// expression rather than a fixed interval.
package schedule

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/synapsec/core/internal/correlation"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/risk"
	"github.com/synapsec/core/internal/store"
)

// Sweeper owns the cron schedule for the two background jobs spec §9 lists
// as risk-recompute trigger points alongside the request-scoped ones.
type Sweeper struct {
	cron *cron.Cron
	s    store.Store
}

func NewSweeper(s store.Store) *Sweeper {
	return &Sweeper{cron: cron.New(), s: s}
}

// Start registers the SLA sweep (every 15 minutes) and the correlation sweep
// (hourly) and begins running them in the background. Call Stop to drain.
func (sw *Sweeper) Start(ctx context.Context) error {
	if _, err := sw.cron.AddFunc("*/15 * * * *", func() { sw.sweepSLAStatus(ctx) }); err != nil {
		return err
	}
	if _, err := sw.cron.AddFunc("0 * * * *", func() { sw.sweepCorrelation(ctx) }); err != nil {
		return err
	}
	sw.cron.Start()
	log.Println("🕐 Scheduled sweeps started: SLA status every 15m, correlation every hour")
	return nil
}

func (sw *Sweeper) Stop() {
	<-sw.cron.Stop().Done()
	log.Println("🛑 Scheduled sweeps stopped")
}

// sweepSLAStatus recomputes sla_status for every open finding with a
// sla_due_date, since SLA proximity shifts purely with the passage of time
// and nothing else triggers it (spec §4.G's age/SLA factor).
func (sw *Sweeper) sweepSLAStatus(ctx context.Context) {
	now := time.Now().UTC()
	findings, err := sw.s.List(ctx, store.FindingFilters{}, 10000, 0)
	if err != nil {
		log.Printf("❌ SLA sweep: list findings: %v", err)
		return
	}

	updated := 0
	for _, f := range findings {
		if f.SLADueDate == nil || isTerminal(f.Status) {
			continue
		}
		status := slaStatusFor(*f.SLADueDate, now)
		if status == f.SLAStatus {
			continue
		}
		if err := sw.s.UpdateSLAStatus(ctx, f.ID, status); err != nil {
			log.Printf("❌ SLA sweep: update sla_status for finding %s: %v", f.ID, err)
			continue
		}
		if _, _, err := risk.Recompute(ctx, sw.s, f.ID, now); err != nil {
			log.Printf("❌ SLA sweep: recompute risk for finding %s: %v", f.ID, err)
			continue
		}
		updated++
	}
	if updated > 0 {
		log.Printf("✅ SLA sweep: refreshed risk score on %d finding(s) nearing or past due date", updated)
	}
}

// sweepCorrelation re-runs the correlation pass for every application that
// currently has findings, catching relationships introduced by interleaved
// ingestion runs across different applications' files.
func (sw *Sweeper) sweepCorrelation(ctx context.Context) {
	apps, err := distinctApplications(ctx, sw.s)
	if err != nil {
		log.Printf("❌ Correlation sweep: list applications: %v", err)
		return
	}

	total := 0
	for _, appID := range apps {
		result, err := correlation.Run(ctx, sw.s, appID, "system", time.Now().UTC())
		if err != nil {
			log.Printf("❌ Correlation sweep: application %s: %v", appID, err)
			continue
		}
		total += result.NewRelationships
	}
	if total > 0 {
		log.Printf("✅ Correlation sweep: %d new relationship(s) across %d application(s)", total, len(apps))
	}
}

func isTerminal(status entity.FindingStatus) bool {
	switch status {
	case entity.StatusClosed, entity.StatusInvalidated, entity.StatusFalsePositive, entity.StatusRiskAccepted:
		return true
	default:
		return false
	}
}

// slaStatusFor buckets how close now is to due: Breached once past due,
// AtRisk within 72 hours of it, OnTrack otherwise.
func slaStatusFor(due, now time.Time) entity.SLAStatus {
	if now.After(due) {
		return entity.SLAStatusBreached
	}
	if due.Sub(now) <= 72*time.Hour {
		return entity.SLAStatusAtRisk
	}
	return entity.SLAStatusOnTrack
}

func distinctApplications(ctx context.Context, s store.Store) ([]uuid.UUID, error) {
	findings, err := s.List(ctx, store.FindingFilters{}, 10000, 0)
	if err != nil {
		return nil, err
	}
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, f := range findings {
		if f.ApplicationID == nil || seen[*f.ApplicationID] {
			continue
		}
		seen[*f.ApplicationID] = true
		out = append(out, *f.ApplicationID)
	}
	return out, nil
}
