package api

import (
	"strings"
	"time"

	"conviction-trust/internal/cortex"
	"conviction-trust/internal/store"
	"conviction-trust/internal/trust"
)

// AssessRequest names the wallet to evaluate.
type AssessRequest struct {
	Wallet string `json:"wallet"`
}

// AssessmentDTO is the API representation of a trust assessment. Conviction
// is omitted whenever the underlying fetch failed.
type AssessmentDTO struct {
	ID               uint                    `json:"id"`
	Wallet           string                  `json:"wallet"`
	TrustLevel       trust.Level             `json:"trust_level"`
	Conviction       *cortex.ConvictionScore `json:"conviction,omitempty"`
	Reason           string                  `json:"reason"`
	ProcessingTimeMs int64                   `json:"processing_time_ms"`
	CreatedAt        time.Time               `json:"created_at"`
}

// AssessmentsResponse holds history items and totals.
type AssessmentsResponse struct {
	Items []AssessmentDTO `json:"items"`
	Total int64           `json:"total"`
}

// FromModel converts a store.Assessment into the DTO representation.
func FromModel(a store.Assessment) AssessmentDTO {
	dto := AssessmentDTO{
		ID:               a.ID,
		Wallet:           a.Wallet,
		TrustLevel:       trust.Level(a.TrustLevel),
		Reason:           strings.TrimSpace(a.Reason),
		ProcessingTimeMs: a.ProcessingTimeMs,
		CreatedAt:        a.CreatedAt,
	}
	if a.HasConviction {
		dto.Conviction = &cortex.ConvictionScore{
			Wallet:                   a.Wallet,
			Score:                    a.Score,
			DefiActivity:             a.DefiActivity,
			PredictionMarketActivity: a.PredictionMarketActivity,
			CrossDomainCorrelation:   a.CrossDomainCorrelation,
		}
	}
	return dto
}
