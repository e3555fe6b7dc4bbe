package store

import "time"

// Assessment is the per-wallet trust outcome persisted for querying/exporting.
// Rows are append-only history: every incoming request produces a fresh fetch
// and a fresh row, so stored scores are never reused to answer a later call.
type Assessment struct {
	ID            uint   `gorm:"primaryKey"`
	Wallet        string `gorm:"size:128;index"`
	TrustLevel    string `gorm:"size:16;index"`
	Reason        string `gorm:"type:text"`
	HasConviction bool

	// Conviction fields are meaningful only when HasConviction is true.
	Score                    float64
	DefiActivity             float64
	PredictionMarketActivity float64
	CrossDomainCorrelation   float64

	ProcessingTimeMs int64
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}
