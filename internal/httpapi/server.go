// Package httpapi is the thin Gin transport adapter over the six
// transport-agnostic core operations of spec §6: ingest, list_findings,
// get_finding, transition_status, correlate_application, compute_risk.
// Grounded in the teacher's gin.RouterGroup-per-module + gin.H{...} error
// envelope convention (modules/auth/middleware/auth_middleware.go).
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/synapsec/core/internal/archive"
	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/graph"
	"github.com/synapsec/core/internal/identity"
	"github.com/synapsec/core/internal/notify"
	"github.com/synapsec/core/internal/parsers"
	"github.com/synapsec/core/internal/pgstore"
	"github.com/synapsec/core/internal/store"
)

// Server wires the core operations to Gin routes.
type Server struct {
	Store    store.Store
	Parsers  *parsers.Registry
	JWT      *identity.JWTService
	Notify   *notify.Hub
	Graph    *graph.Mirror     // optional: nil disables graph-sync side effects
	Archiver *archive.Archiver // optional: nil disables raw-file retention upload
	PG       *pgstore.Store
}

// RegisterRoutes mounts every operation under the given group (expected to
// already carry the auth middleware).
func (s *Server) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/ingest", s.handleIngest)
	r.GET("/findings", s.handleListFindings)
	r.GET("/findings/:id", s.handleGetFinding)
	r.POST("/findings/:id/transition", s.handleTransitionStatus)
	r.POST("/findings/bulk-transition", s.handleBulkTransition)
	r.POST("/applications/:id/correlate", s.handleCorrelateApplication)
	r.POST("/risk/compute", s.handleComputeRisk)
	r.GET("/ws", s.Notify.HandleWebSocket)
}

// RegisterHealth mounts the unauthenticated health endpoint.
func (s *Server) RegisterHealth(r *gin.Engine) {
	r.GET("/health", s.handleHealth)
}

func (s *Server) handleHealth(c *gin.Context) {
	dbHealthy := true
	if s.PG != nil {
		if err := s.PG.DB().PingContext(c.Request.Context()); err != nil {
			dbHealthy = false
		}
	}
	graphHealthy := s.Graph != nil

	status := "healthy"
	if !dbHealthy {
		status = "unhealthy"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "synapsec-core",
		"database": gin.H{"healthy": dbHealthy},
		"graph":    gin.H{"enabled": graphHealthy},
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError renders every apierr.Error the same way, mirroring the
// teacher's hand-written gin.H{"error": ...} envelope but from one place.
func writeError(c *gin.Context, err error) {
	if apiErr, ok := err.(*apierr.Error); ok {
		c.JSON(apiErr.Kind.HTTPStatus(), gin.H{
			"error": gin.H{
				"code":    apiErr.Kind,
				"message": apiErr.Message,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"code": "INTERNAL_ERROR", "message": err.Error()},
	})
}
