package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppCodePattern is a configurable row consumed by the app-code resolver
// (spec §4.B / §3). Higher Priority wins when multiple patterns match.
type AppCodePattern struct {
	ID            uuid.UUID `json:"id"`
	SourceTool    string    `json:"source_tool"`
	FieldName     string    `json:"field_name"`
	RegexPattern  string    `json:"regex_pattern"`
	Priority      int       `json:"priority"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CorrelationRule is persisted metadata describing an active correlation
// rule (spec §3, "CorrelationRule"). The six built-in rules are expressed as
// code (internal/correlation); rows here only enable/disable/extend them.
type CorrelationRule struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	RuleType   string    `json:"rule_type"`
	Conditions []byte    `json:"conditions"`
	Confidence ConfidenceLevel `json:"confidence"`
	Priority   int       `json:"priority"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TriageRule is the persisted, unevaluated condition row spec §9 leaves open.
type TriageRule struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Conditions []byte    `json:"conditions"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
