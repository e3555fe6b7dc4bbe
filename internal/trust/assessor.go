package trust

import (
	"context"
	"fmt"

	"conviction-trust/internal/cortex"
)

// Source provides conviction scores for wallets. Implemented by cortex.Client;
// failures should be one of the cortex error kinds so callers can branch.
type Source interface {
	GetWalletConviction(ctx context.Context, wallet string) (cortex.ConvictionScore, error)
}

// Assessment is the outcome of one trust evaluation. Conviction is present
// if and only if the underlying fetch succeeded.
type Assessment struct {
	TrustLevel Level                   `json:"trust_level"`
	Conviction *cortex.ConvictionScore `json:"conviction,omitempty"`
	Reason     string                  `json:"reason"`
}

// Assessor turns conviction lookups into trust assessments.
type Assessor struct {
	source Source
}

// NewAssessor constructs an assessor over the supplied conviction source.
func NewAssessor(source Source) *Assessor {
	return &Assessor{source: source}
}

// AssessReasoningTrust evaluates the wallet's conviction and classifies it.
// It never returns an error: a wallet whose conviction cannot be verified is
// treated as neither trusted nor distrusted and classifies as Medium.
func (a *Assessor) AssessReasoningTrust(ctx context.Context, wallet string) Assessment {
	if a == nil || a.source == nil {
		return Assessment{
			TrustLevel: LevelMedium,
			Reason:     "Could not fetch conviction: no conviction source configured",
		}
	}

	conviction, err := a.source.GetWalletConviction(ctx, wallet)
	if err != nil {
		return Assessment{
			TrustLevel: LevelMedium,
			Reason:     fmt.Sprintf("Could not fetch conviction: %v", err),
		}
	}

	return Assessment{
		TrustLevel: Classify(conviction.Score),
		Conviction: &conviction,
		Reason: fmt.Sprintf(
			"Conviction score: %.2f (DeFi: %.2f, Prediction: %.2f)",
			conviction.Score,
			conviction.DefiActivity,
			conviction.PredictionMarketActivity,
		),
	}
}
