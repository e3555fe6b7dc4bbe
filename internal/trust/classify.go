package trust

// Level is the coarse trust classification derived from a conviction score.
type Level string

// Exactly three levels exist; the JSON wire names are the literal values.
const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Classification thresholds. Lower bounds are closed: 0.8 is High, 0.4 is Medium.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.4
)

// Classify maps a conviction score onto a trust level.
func Classify(score float64) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}
