package httpapi

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/synapsec/core/internal/domain/apierr"
	"github.com/synapsec/core/internal/ingestion"
)

const maxUploadBytes = 50 << 20 // 50MiB server-configured cap (spec §6)

// handleIngest implements ingest(bytes, file_name, parser_type, format, actor_id).
func (s *Server) handleIngest(c *gin.Context) {
	parserType := c.PostForm("parser_type")
	format := c.PostForm("format")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, apierr.Validation("missing multipart file field \"file\""))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		writeError(c, apierr.Validation("uploaded file exceeds server-configured cap"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, apierr.Validation("could not open uploaded file"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(c, apierr.Validation("could not read uploaded file"))
		return
	}

	actorID, _ := uuid.Parse(c.GetString("user_id"))

	result, err := ingestion.Run(c.Request.Context(), s.Store, s.Parsers, ingestion.Request{
		Raw:            raw,
		FileName:       fileHeader.Filename,
		ParserType:     parserType,
		DeclaredFormat: format,
		ActorID:        actorID,
	}, nowUTC())
	if err != nil {
		writeError(c, err)
		return
	}

	if s.Archiver != nil {
		if _, archErr := s.Archiver.Put(c.Request.Context(), result.IngestionLogID, fileHeader.Filename, raw); archErr != nil {
			log.Printf("⚠️  archive upload failed for ingestion log %s: %v", result.IngestionLogID, archErr)
		}
	}

	s.publishIngestionCompleted(c, result)
	c.JSON(http.StatusOK, result)
}
