package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/synapsec/core/internal/correlation"
	"github.com/synapsec/core/internal/domain/apierr"
)

// handleCorrelateApplication implements correlate_application(app_id, actor_id).
func (s *Server) handleCorrelateApplication(c *gin.Context) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierr.Validation("id must be a UUID"))
		return
	}

	actorID := c.GetString("user_id")
	if actorID == "" {
		actorID = "unknown"
	}

	result, err := correlation.Run(c.Request.Context(), s.Store, appID, actorID, nowUTC())
	if err != nil {
		writeError(c, err)
		return
	}

	if s.Notify != nil {
		s.Notify.PublishCorrelationSwept(appID.String(), result.NewRelationships)
	}
	if s.Graph != nil {
		s.syncRelationshipsToGraph(c, appID)
	}

	c.JSON(http.StatusOK, gin.H{
		"new_relationships":       result.NewRelationships,
		"total_findings_analyzed": result.TotalFindingsAnalyzed,
	})
}

// syncRelationshipsToGraph mirrors the application's relationships into
// Neo4j after a correlation pass; best-effort, logged not fatal, since the
// relational store is the system of record (spec §4.E).
func (s *Server) syncRelationshipsToGraph(c *gin.Context, appID uuid.UUID) {
	ctx := c.Request.Context()
	findings, err := s.Store.ListByApplication(ctx, appID)
	if err != nil {
		return
	}
	for _, f := range findings {
		_ = s.Graph.SyncFinding(ctx, f)
	}

	rels, err := s.Store.ListRelationshipsByApplication(ctx, appID, nil)
	if err != nil {
		return
	}
	for _, rel := range rels {
		_ = s.Graph.SyncRelationship(ctx, rel)
	}
}
