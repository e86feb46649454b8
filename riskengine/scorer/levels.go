package scorer

// RiskLevel is the discrete bucket derived from a numeric risk score.
type RiskLevel string

const (
	LevelNone     RiskLevel = "none"
	LevelMinimal  RiskLevel = "minimal"
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

// LevelForScore maps a numeric score to a risk level using fixed breakpoints.
// Note that this never returns LevelNone: a clean score of 0 from real text is
// "minimal", while "none" is reserved for literally empty input.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 70:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 30:
		return LevelMedium
	case score >= 10:
		return LevelLow
	default:
		return LevelMinimal
	}
}
