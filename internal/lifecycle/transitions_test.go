package lifecycle

import (
	"testing"

	"github.com/synapsec/core/internal/domain/entity"
)

func TestAllowedEdge_FullGraph(t *testing.T) {
	cases := []struct {
		from, to entity.FindingStatus
		want     bool
	}{
		{entity.StatusNew, entity.StatusConfirmed, true},
		{entity.StatusConfirmed, entity.StatusInRemediation, true},
		{entity.StatusConfirmed, entity.StatusFalsePositive, true},
		{entity.StatusConfirmed, entity.StatusFalsePositiveRequested, true},
		{entity.StatusConfirmed, entity.StatusRiskAccepted, true},
		{entity.StatusConfirmed, entity.StatusDeferredRemediation, true},
		{entity.StatusFalsePositiveRequested, entity.StatusFalsePositive, true},
		{entity.StatusFalsePositiveRequested, entity.StatusConfirmed, true},
		{entity.StatusDeferredRemediation, entity.StatusInRemediation, true},
		{entity.StatusInRemediation, entity.StatusMitigated, true},
		{entity.StatusMitigated, entity.StatusVerified, true},
		{entity.StatusVerified, entity.StatusClosed, true},
		{entity.StatusRiskAccepted, entity.StatusConfirmed, true},
		{entity.StatusClosed, entity.StatusNew, true},
		{entity.StatusNew, entity.StatusInvalidated, true},
		{entity.StatusMitigated, entity.StatusInvalidated, true},
		{entity.StatusNew, entity.StatusMitigated, false},
		{entity.StatusConfirmed, entity.StatusClosed, false},
		{entity.StatusVerified, entity.StatusNew, false},
	}
	for _, c := range cases {
		if got := allowedEdge(c.from, c.to); got != c.want {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestRequiredRoles_PerTarget(t *testing.T) {
	if roleAllowed(entity.RoleAppSecAnalyst, entity.StatusRiskAccepted) {
		t.Error("AppSecAnalyst must not be allowed to set RiskAccepted")
	}
	if !roleAllowed(entity.RoleAppSecManager, entity.StatusRiskAccepted) {
		t.Error("AppSecManager must be allowed to set RiskAccepted")
	}
	if roleAllowed(entity.RoleAppSecManager, entity.StatusInvalidated) {
		t.Error("only PlatformAdmin may set Invalidated")
	}
	if !roleAllowed(entity.RolePlatformAdmin, entity.StatusInvalidated) {
		t.Error("PlatformAdmin must be allowed to set Invalidated")
	}
	if !roleAllowed(entity.RoleDeveloper, entity.StatusFalsePositiveRequested) {
		t.Error("Developer must be allowed to request FalsePositive")
	}
	if roleAllowed(entity.RoleDeveloper, entity.StatusConfirmed) {
		t.Error("Developer must not be allowed to confirm findings")
	}
}

func TestBulkAllowed(t *testing.T) {
	for _, forbidden := range []entity.FindingStatus{entity.StatusRiskAccepted, entity.StatusDeferredRemediation, entity.StatusInvalidated} {
		if BulkAllowed(forbidden) {
			t.Errorf("%s must be forbidden in bulk operations", forbidden)
		}
	}
	if !BulkAllowed(entity.StatusConfirmed) {
		t.Error("Confirmed must be allowed in bulk operations")
	}
}
