package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/synapsec/core/internal/ingestion"
)

func nowUTC() time.Time { return time.Now().UTC() }

// publishIngestionCompleted fires the realtime notification for an ingest()
// call; a nil Notify (e.g. in tests) is a no-op.
func (s *Server) publishIngestionCompleted(c *gin.Context, result ingestion.Result) {
	if s.Notify == nil {
		return
	}
	s.Notify.PublishIngestionCompleted(result)
}
