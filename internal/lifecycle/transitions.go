// Package lifecycle implements the finding status state machine, its RBAC
// gate, mandatory-field validation, and the auto-confirm triage hook (spec
// §4.F).
//
// Grounded in modules/remediation/service/remediation_service.go's
// status-transition shape (PENDING→IN_PROGRESS→COMPLETED/FAILED, one audit
// row per transition) and modules/auth/middleware/auth_middleware.go's
// role-set RBAC checks, generalized from a fixed three-state chain to the
// full edge table below.
package lifecycle

import "github.com/synapsec/core/internal/domain/entity"

// edges is the allowed-transition table. A target not present in the
// source's set is rejected as InvalidTransition.
var edges = map[entity.FindingStatus][]entity.FindingStatus{
	entity.StatusNew: {
		entity.StatusConfirmed,
	},
	entity.StatusConfirmed: {
		entity.StatusInRemediation,
		entity.StatusFalsePositive,
		entity.StatusFalsePositiveRequested,
		entity.StatusRiskAccepted,
		entity.StatusDeferredRemediation,
	},
	entity.StatusFalsePositiveRequested: {
		entity.StatusFalsePositive,
		entity.StatusConfirmed,
	},
	entity.StatusDeferredRemediation: {
		entity.StatusInRemediation,
	},
	entity.StatusInRemediation: {
		entity.StatusMitigated,
	},
	entity.StatusMitigated: {
		entity.StatusVerified,
	},
	entity.StatusVerified: {
		entity.StatusClosed,
	},
	entity.StatusRiskAccepted: {
		entity.StatusConfirmed,
	},
	entity.StatusClosed: {
		entity.StatusNew,
	},
}

// allowedEdge reports whether from->to is a legal transition. Invalidated is
// reachable from any state (spec: "any → Invalidated") and is handled as a
// special case rather than duplicated into every row above.
func allowedEdge(from, to entity.FindingStatus) bool {
	if to == entity.StatusInvalidated {
		return true
	}
	for _, candidate := range edges[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// requiredRoles returns the role set permitted to drive a transition into
// target (spec §4.F "RBAC required per target").
func requiredRoles(target entity.FindingStatus) []entity.UserRole {
	switch target {
	case entity.StatusRiskAccepted, entity.StatusDeferredRemediation:
		return []entity.UserRole{entity.RoleAppSecManager, entity.RolePlatformAdmin}
	case entity.StatusInvalidated:
		return []entity.UserRole{entity.RolePlatformAdmin}
	case entity.StatusFalsePositiveRequested, entity.StatusMitigated:
		return []entity.UserRole{entity.RoleDeveloper, entity.RoleAppSecAnalyst, entity.RoleAppSecManager, entity.RolePlatformAdmin}
	default:
		return []entity.UserRole{entity.RoleAppSecAnalyst, entity.RoleAppSecManager, entity.RolePlatformAdmin}
	}
}

func roleAllowed(role entity.UserRole, target entity.FindingStatus) bool {
	for _, r := range requiredRoles(target) {
		if r == role {
			return true
		}
	}
	return false
}

// bulkForbidden is the set of targets a bulk operation may never request
// (spec §4.F "Bulk operations"); callers must fall back to per-finding calls.
var bulkForbidden = map[entity.FindingStatus]bool{
	entity.StatusRiskAccepted:        true,
	entity.StatusDeferredRemediation: true,
	entity.StatusInvalidated:         true,
}

// BulkAllowed reports whether target may be requested as part of a bulk
// transition.
func BulkAllowed(target entity.FindingStatus) bool {
	return !bulkForbidden[target]
}
