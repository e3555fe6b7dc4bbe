package trust

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected Level
	}{
		{"perfect", 1.0, LevelHigh},
		{"high", 0.95, LevelHigh},
		{"high boundary", 0.8, LevelHigh},
		{"just below high", 0.79999, LevelMedium},
		{"medium", 0.5, LevelMedium},
		{"medium boundary", 0.4, LevelMedium},
		{"just below medium", 0.39999, LevelLow},
		{"low", 0.1, LevelLow},
		{"zero", 0, LevelLow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.score); got != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}
