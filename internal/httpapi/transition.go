package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/lifecycle"
)

type transitionBody struct {
	TargetStatus  entity.FindingStatus `json:"target_status" binding:"required"`
	Justification string               `json:"justification,omitempty"`
	CommittedDate *time.Time           `json:"committed_date,omitempty"`
	ExpiryDate    *time.Time           `json:"expiry_date,omitempty"`
}

// handleTransitionStatus implements transition_status(id, new_status, actor,
// justification, committed_date?, expiry_date?).
func (s *Server) handleTransitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierr.Validation("id must be a UUID"))
		return
	}

	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apierr.Validation("invalid transition request body"))
		return
	}

	actor, err := s.resolveActor(c)
	if err != nil {
		writeError(c, err)
		return
	}

	finding, err := lifecycle.Transition(c.Request.Context(), s.Store, lifecycle.TransitionRequest{
		FindingID:     id,
		TargetStatus:  body.TargetStatus,
		Actor:         actor,
		Justification: body.Justification,
		CommittedDate: body.CommittedDate,
		ExpiryDate:    body.ExpiryDate,
	}, nowUTC())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, finding)
}

type bulkTransitionBody struct {
	FindingIDs    []uuid.UUID          `json:"finding_ids" binding:"required"`
	TargetStatus  entity.FindingStatus `json:"target_status" binding:"required"`
	Justification string               `json:"justification,omitempty"`
}

func (s *Server) handleBulkTransition(c *gin.Context) {
	var body bulkTransitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apierr.Validation("invalid bulk transition request body"))
		return
	}

	actor, err := s.resolveActor(c)
	if err != nil {
		writeError(c, err)
		return
	}

	results, err := lifecycle.BulkTransition(c.Request.Context(), s.Store, body.FindingIDs, body.TargetStatus, actor, body.Justification, nowUTC())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// resolveActor loads the full User row behind the authenticated user_id, so
// lifecycle's RBAC check sees the real role rather than a claim alone.
func (s *Server) resolveActor(c *gin.Context) (*entity.User, error) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return nil, apierr.Unauthorized("missing or invalid authenticated identity")
	}
	actor, err := s.Store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if actor == nil {
		return nil, apierr.Unauthorized("authenticated user not found")
	}
	return actor, nil
}
