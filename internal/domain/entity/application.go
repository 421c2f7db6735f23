package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Application is the asset a finding is attributed to. AppCode is the unique
// human-readable identifier the resolver (internal/appcode) extracts from
// scanner metadata.
type Application struct {
	ID          uuid.UUID `json:"id"`
	AppCode     string    `json:"app_code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	Criticality        AssetCriticality   `json:"criticality"`
	Tier               AssetTier          `json:"tier"`
	Exposure           Exposure           `json:"exposure"`
	DataClassification DataClassification `json:"data_classification"`
	Status             AppStatus          `json:"status"`

	// IsVerified is false for stub applications auto-created by ingestion
	// when the resolver produces a code with no matching application.
	IsVerified bool `json:"is_verified"`

	APMEnrichment json.RawMessage `json:"apm_enrichment,omitempty"`

	Owner            string `json:"owner,omitempty"`
	RegulatoryScoped bool   `json:"regulatory_scoped"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StubApplication builds the auto-created placeholder ingestion inserts when
// the resolver yields an app_code with no matching row (spec §3, "Stub
// application").
func StubApplication(appCode string) *Application {
	now := time.Now().UTC()
	return &Application{
		ID:                 uuid.New(),
		AppCode:            appCode,
		Name:               "[Stub] " + appCode,
		Criticality:        CriticalityMedium,
		Tier:               Tier3,
		Exposure:           ExposureInternal,
		DataClassification: DataInternal,
		Status:             AppStatusActive,
		IsVerified:         false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
