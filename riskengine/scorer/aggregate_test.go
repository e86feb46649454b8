package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAggregator() *Aggregator {
	return NewAggregator(testScorer())
}

func TestAggregateEmpty(t *testing.T) {
	assert := assert.New(t)
	agg := testAggregator()

	profile := agg.Aggregate("acct-1", nil)
	assert.Equal("acct-1", profile.AccountID)
	assert.Equal(float64(0), profile.OverallRiskScore)
	assert.Equal(LevelNone, profile.RiskLevel)
	assert.Equal(0, profile.TotalItemsAnalyzed)
	assert.Equal("No content available for scoring", profile.Explanation)
}

func TestAggregateOrderIndependence(t *testing.T) {
	assert := assert.New(t)
	agg := testAggregator()

	texts := []string{
		"i will punch you",
		"exterminate the subhuman vermin",
		"hello world",
	}
	permuted := []string{texts[2], texts[0], texts[1]}

	a := agg.Aggregate("acct-1", texts)
	b := agg.Aggregate("acct-1", permuted)
	assert.Equal(a, b)
}

func TestAggregateHighRiskBoost(t *testing.T) {
	assert := assert.New(t)
	agg := testAggregator()

	profile := agg.Aggregate("acct-1", []string{"exterminate the subhuman vermin"})
	assert.Equal(1, profile.HighRiskItemCount)
	assert.Greater(profile.OverallRiskScore, float64(0))
	// avg 80 * 0.7 * (1 + 1/1) = 112, clamped
	assert.Equal(float64(100), profile.OverallRiskScore)
	assert.Equal(LevelCritical, profile.RiskLevel)
	assert.Contains(profile.Explanation, "IMMEDIATE REVIEW RECOMMENDED.")
}

func TestAggregateMixedItems(t *testing.T) {
	assert := assert.New(t)
	agg := testAggregator()

	profile := agg.Aggregate("acct-1", []string{
		"i will punch you",
		"exterminate the subhuman vermin",
		"hello world",
	})
	assert.Equal(3, profile.TotalItemsAnalyzed)
	assert.Equal(1, profile.HighRiskItemCount)
	assert.InDelta(26.67, profile.AvgHateScore, 0.01)
	assert.InDelta(3.33, profile.AvgViolenceScore, 0.01)
	// (26.67 + 3.33) * 0.7 * (1 + 1/3)
	assert.InDelta(28.0, profile.OverallRiskScore, 0.01)
	assert.Equal(LevelLow, profile.RiskLevel)
	assert.Contains(profile.Explanation, "acct-1")
	assert.Contains(profile.Explanation, "3 content items")
}

func TestAggregateThresholdConfigurable(t *testing.T) {
	assert := assert.New(t)
	agg := testAggregator()
	agg.HighRiskThreshold = 15

	// "burn it down" scores 20, above the lowered threshold
	profile := agg.Aggregate("acct-1", []string{"burn it down"})
	assert.Equal(1, profile.HighRiskItemCount)
}
