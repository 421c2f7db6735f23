package pgstore

import (
	"context"
	"fmt"

	"github.com/synapsec/core/internal/domain/entity"
)

func (b *base) InsertIngestionLog(ctx context.Context, log *entity.IngestionLog) error {
	_, err := b.q.ExecContext(ctx, `INSERT INTO ingestion_logs (
		id, source_tool, ingestion_type, file_name, total_records, new_findings,
		updated_findings, duplicates, errors, quarantined, status, error_details,
		started_at, completed_at, initiator_id
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		log.ID, log.SourceTool, log.IngestionType, log.FileName, log.TotalRecords, log.New,
		log.Updated, log.Duplicates, log.Errors, log.Quarantined, log.Status, []byte(log.ErrorDetails),
		log.StartedAt, log.CompletedAt, log.InitiatorID,
	)
	if err != nil {
		return fmt.Errorf("insert ingestion log %s: %w", log.ID, err)
	}
	return nil
}
