package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IngestionLogStatus mirrors the coarse outcome of one uploaded file.
type IngestionLogStatus string

const (
	IngestionStatusCompleted IngestionLogStatus = "Completed"
	IngestionStatusFailed    IngestionLogStatus = "Failed"
)

// IngestionLog is one row per uploaded file (spec §3, "IngestionLog").
type IngestionLog struct {
	ID uuid.UUID `json:"id"`

	SourceTool    string `json:"source_tool"`
	IngestionType string `json:"ingestion_type"`
	FileName      string `json:"file_name"`

	TotalRecords int `json:"total_records"`
	New          int `json:"new_findings"`
	Updated      int `json:"updated_findings"`
	Duplicates   int `json:"duplicates"`
	Errors       int `json:"errors"`
	Quarantined  int `json:"quarantined"`

	Status       IngestionLogStatus `json:"status"`
	ErrorDetails json.RawMessage    `json:"error_details,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	InitiatorID uuid.UUID `json:"initiator_id"`
}

// IngestionError is one per-record failure recorded without aborting the
// file (spec §4.H step 2, §7 propagation policy).
type IngestionError struct {
	RecordIndex int    `json:"record_index"`
	Stage       string `json:"stage"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
}
