package trust

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"conviction-trust/internal/cortex"
)

type stubSource struct {
	score cortex.ConvictionScore
	err   error
}

func (s stubSource) GetWalletConviction(ctx context.Context, wallet string) (cortex.ConvictionScore, error) {
	return s.score, s.err
}

func TestAssessSuccess(t *testing.T) {
	score := cortex.ConvictionScore{
		Wallet:                   "wallet-1",
		Score:                    0.95,
		DefiActivity:             0.7,
		PredictionMarketActivity: 0.6,
		CrossDomainCorrelation:   0.82,
	}
	assessor := NewAssessor(stubSource{score: score})

	result := assessor.AssessReasoningTrust(context.Background(), "wallet-1")
	if result.TrustLevel != LevelHigh {
		t.Fatalf("expected High got %s", result.TrustLevel)
	}
	if result.Conviction == nil {
		t.Fatal("expected conviction to be present")
	}
	if *result.Conviction != score {
		t.Fatalf("conviction mismatch: %+v", result.Conviction)
	}
	expected := "Conviction score: 0.95 (DeFi: 0.70, Prediction: 0.60)"
	if result.Reason != expected {
		t.Fatalf("expected reason %q got %q", expected, result.Reason)
	}
}

func TestAssessBands(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected Level
	}{
		{"medium", 0.5, LevelMedium},
		{"low", 0.1, LevelLow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assessor := NewAssessor(stubSource{score: cortex.ConvictionScore{Wallet: "w", Score: tc.score}})
			result := assessor.AssessReasoningTrust(context.Background(), "w")
			if result.TrustLevel != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, result.TrustLevel)
			}
			if result.Conviction == nil {
				t.Fatal("expected conviction to be present")
			}
		})
	}
}

func TestAssessSourceFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", &cortex.TransportError{Err: errors.New("connection refused")}},
		{"status", &cortex.StatusError{Code: 503}},
		{"decode", &cortex.DecodeError{Err: errors.New("unexpected end of JSON input")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assessor := NewAssessor(stubSource{err: tc.err})
			result := assessor.AssessReasoningTrust(context.Background(), "wallet-1")
			if result.TrustLevel != LevelMedium {
				t.Fatalf("expected Medium got %s", result.TrustLevel)
			}
			if result.Conviction != nil {
				t.Fatalf("expected conviction to be absent, got %+v", result.Conviction)
			}
			if !strings.HasPrefix(result.Reason, "Could not fetch conviction: ") {
				t.Fatalf("unexpected reason prefix: %q", result.Reason)
			}
			if !strings.Contains(result.Reason, tc.err.Error()) {
				t.Fatalf("reason %q does not embed %q", result.Reason, tc.err.Error())
			}
		})
	}
}

func TestAssessNoSource(t *testing.T) {
	assessor := NewAssessor(nil)
	result := assessor.AssessReasoningTrust(context.Background(), "wallet-1")
	if result.TrustLevel != LevelMedium {
		t.Fatalf("expected Medium got %s", result.TrustLevel)
	}
	if result.Conviction != nil {
		t.Fatal("expected conviction to be absent")
	}
}

func TestAssessmentRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value Assessment
	}{
		{
			"with conviction",
			Assessment{
				TrustLevel: LevelHigh,
				Conviction: &cortex.ConvictionScore{
					Wallet:                   "wallet-1",
					Score:                    0.95,
					DefiActivity:             0.7,
					PredictionMarketActivity: 0.6,
					CrossDomainCorrelation:   0.82,
				},
				Reason: "Conviction score: 0.95 (DeFi: 0.70, Prediction: 0.60)",
			},
		},
		{
			"without conviction",
			Assessment{
				TrustLevel: LevelMedium,
				Reason:     "Could not fetch conviction: Request failed: connection refused",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := json.Marshal(tc.value)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded Assessment
			if err := json.Unmarshal(payload, &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(tc.value, decoded) {
				t.Fatalf("round trip mismatch: %+v vs %+v", tc.value, decoded)
			}
		})
	}
}

func TestAssessmentWireNames(t *testing.T) {
	payload, err := json.Marshal(Assessment{TrustLevel: LevelMedium, Reason: "r"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw["trust_level"]) != `"Medium"` {
		t.Fatalf("unexpected trust_level encoding: %s", raw["trust_level"])
	}
	if _, ok := raw["conviction"]; ok {
		t.Fatal("conviction should be omitted when absent")
	}
}
