package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/risk"
)

type computeRiskBody struct {
	Factors risk.Factors  `json:"factors" binding:"required"`
	Weights *risk.Weights `json:"weights,omitempty"`
}

// handleComputeRisk implements compute_risk(factors, weights), the
// stateless scoring primitive (risk.Compute) that risk.Recompute also uses
// when it persists a finding's score.
func (s *Server) handleComputeRisk(c *gin.Context) {
	var body computeRiskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apierr.Validation("invalid compute_risk request body"))
		return
	}

	weights := risk.DefaultWeights
	if body.Weights != nil {
		weights = *body.Weights
	}

	score, priority := risk.Compute(body.Factors, weights)
	c.JSON(http.StatusOK, gin.H{"score": score, "priority": priority})
}
