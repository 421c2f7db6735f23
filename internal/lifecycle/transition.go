package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/risk"
	"github.com/synapsec/core/internal/store"
)

// TransitionRequest is the caller-supplied intent for one status change
// (spec §6 "transition_status").
type TransitionRequest struct {
	FindingID     uuid.UUID
	TargetStatus  entity.FindingStatus
	Actor         *entity.User
	Justification string
	CommittedDate *time.Time
	ExpiryDate    *time.Time
}

// auditDetails is the JSON payload stored on the audit_log row.
type auditDetails struct {
	Old           string `json:"old"`
	New           string `json:"new"`
	Justification string `json:"justification,omitempty"`
}

// Transition validates and executes one status change (spec §4.F
// "Transition execution"): load current status → validate edge → validate
// RBAC → validate mandatory fields → update status, append history, append
// audit inside one transaction → commit. Risk recomputation runs after
// commit, per spec §9's trigger-point list.
func Transition(ctx context.Context, s store.Store, req TransitionRequest, now time.Time) (*entity.Finding, error) {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("begin transition transaction: %w", err))
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("PANIC during status transition, transaction rolled back: %v", r)
			panic(r)
		}
	}()

	finding, err := tx.GetByID(ctx, req.FindingID)
	if err != nil {
		tx.Rollback()
		return nil, apierr.Storage(err)
	}
	if finding == nil {
		tx.Rollback()
		return nil, apierr.NotFound("finding not found")
	}

	if !allowedEdge(finding.Status, req.TargetStatus) {
		tx.Rollback()
		return nil, apierr.InvalidTransition(fmt.Sprintf("%s -> %s is not a legal transition", finding.Status, req.TargetStatus))
	}

	if req.Actor == nil || !roleAllowed(req.Actor.Role, req.TargetStatus) {
		tx.Rollback()
		return nil, apierr.Forbidden(fmt.Sprintf("role %s may not transition findings to %s", actorRole(req.Actor), req.TargetStatus))
	}

	if err := validateMandatoryFields(req); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.UpdateStatus(ctx, req.FindingID, req.TargetStatus, now); err != nil {
		tx.Rollback()
		return nil, apierr.Storage(err)
	}

	history := &entity.FindingHistory{
		ID:            uuid.New(),
		FindingID:     req.FindingID,
		Action:        "status_change",
		Field:         "status",
		OldValue:      string(finding.Status),
		NewValue:      string(req.TargetStatus),
		ActorName:     actorName(req.Actor),
		Justification: req.Justification,
		CreatedAt:     now,
	}
	if req.Actor != nil {
		history.ActorID = &req.Actor.ID
	}
	if err := tx.AppendHistory(ctx, history); err != nil {
		tx.Rollback()
		return nil, apierr.Storage(err)
	}

	details, err := json.Marshal(auditDetails{
		Old:           string(finding.Status),
		New:           string(req.TargetStatus),
		Justification: req.Justification,
	})
	if err != nil {
		tx.Rollback()
		return nil, apierr.Internal("marshal audit details: " + err.Error())
	}
	audit := &entity.AuditLog{
		ID:         uuid.New(),
		EntityType: "finding",
		EntityID:   req.FindingID,
		Action:     "status_change",
		Details:    details,
		CreatedAt:  now,
	}
	if req.Actor != nil {
		audit.ActorID = req.Actor.ID
	}
	if err := tx.AppendAudit(ctx, audit); err != nil {
		tx.Rollback()
		return nil, apierr.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierr.Storage(fmt.Errorf("commit transition: %w", err))
	}

	finding.Status = req.TargetStatus
	finding.StatusChangedAt = now
	finding.UpdatedAt = now

	if _, _, err := risk.Recompute(ctx, s, req.FindingID, now); err != nil {
		log.Printf("WARNING: risk recompute after transition failed for finding %s: %v", req.FindingID, err)
	}

	return finding, nil
}

func validateMandatoryFields(req TransitionRequest) error {
	switch req.TargetStatus {
	case entity.StatusRiskAccepted:
		if req.Justification == "" || req.ExpiryDate == nil {
			return apierr.Validation("RiskAccepted requires justification and expiry_date")
		}
	case entity.StatusDeferredRemediation:
		if req.CommittedDate == nil {
			return apierr.Validation("DeferredRemediation requires committed_date")
		}
	case entity.StatusFalsePositive:
		if req.Justification == "" {
			return apierr.Validation("FalsePositive requires a non-empty justification")
		}
	}
	return nil
}

func actorRole(u *entity.User) entity.UserRole {
	if u == nil {
		return ""
	}
	return u.Role
}

func actorName(u *entity.User) string {
	if u == nil {
		return "system"
	}
	return u.Username
}
