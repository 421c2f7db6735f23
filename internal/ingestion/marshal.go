package ingestion

import (
	"encoding/json"

	"github.com/synapsec/core/internal/domain/entity"
)

// marshalErrors serializes the per-record error list for the ingestion_logs
// row's error_details JSON column; nil when there is nothing to report.
func marshalErrors(errs []entity.IngestionError) (json.RawMessage, error) {
	if len(errs) == 0 {
		return nil, nil
	}
	return json.Marshal(errs)
}
