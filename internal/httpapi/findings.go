package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/domain/entity"
	"github.com/synapsec/core/internal/store"
)

// handleListFindings implements list_findings(filters, pagination).
func (s *Server) handleListFindings(c *gin.Context) {
	filters := store.FindingFilters{
		Category: entity.Category(c.Query("category")),
		Severity: entity.Severity(c.Query("severity")),
		Status:   entity.FindingStatus(c.Query("status")),
	}
	if raw := c.Query("application_id"); raw != "" {
		appID, err := uuid.Parse(raw)
		if err != nil {
			writeError(c, apierr.Validation("application_id must be a UUID"))
			return
		}
		filters.ApplicationID = &appID
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	findings, err := s.Store.List(c.Request.Context(), filters, limit, offset)
	if err != nil {
		writeError(c, apierr.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"findings": findings, "limit": limit, "offset": offset})
}

// handleGetFinding implements get_finding(id).
func (s *Server) handleGetFinding(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apierr.Validation("id must be a UUID"))
		return
	}

	finding, err := s.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, apierr.Storage(err))
		return
	}
	if finding == nil {
		writeError(c, apierr.NotFound("finding not found"))
		return
	}
	c.JSON(http.StatusOK, finding)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
