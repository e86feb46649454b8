package scorer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agamordechai/active-fence-assignment/riskengine/lexicon"
)

func testScorer() *Scorer {
	return NewScorer(lexicon.TestFixture())
}

func TestScoreEmptyText(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("")
	assert.Equal(float64(0), score.RiskScore)
	assert.Equal(LevelNone, score.RiskLevel)
	assert.Equal("No content to analyze", score.Explanation)
	assert.Empty(score.Flags)
}

func TestScoreCleanText(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("have a lovely day")
	assert.Equal(float64(0), score.RiskScore)
	// non-empty text scoring zero is "minimal", only empty input is "none"
	assert.Equal(LevelMinimal, score.RiskLevel)
	assert.Equal("No concerning content detected.", score.Explanation)
}

func TestScoreKeywordTiers(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("they are subhuman")
	assert.Equal(float64(30), score.HateScore)
	assert.Equal(float64(0), score.ViolenceScore)
	assert.Equal(float64(30), score.RiskScore)
	assert.Equal(LevelMedium, score.RiskLevel)
	assert.Contains(score.Flags, "Extreme hate keyword: 'subhuman'")

	score = s.Score("burn it down")
	assert.Equal(float64(20), score.ViolenceScore)
	assert.Equal(float64(0), score.HateScore)

	// word-boundary matching: no hit inside a larger word
	score = s.Score("subhumanity is a long word")
	assert.Equal(float64(0), score.HateScore)
}

func TestScoreKeywordsStack(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("exterminate the subhuman vermin")
	assert.Equal(float64(80), score.HateScore)
	assert.Equal(float64(80), score.RiskScore)
	assert.Equal(LevelCritical, score.RiskLevel)
	assert.Len(score.Flags, 3)
}

func TestScoreSlurPattern(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("total slurwords in here")
	assert.Equal(float64(40), score.HateScore)
	assert.Equal(float64(0), score.ViolenceScore)
	assert.Contains(score.Flags, "Slur or derogatory term detected")
}

func TestScoreAggressiveTone(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("stop this now!!!")
	assert.Equal(float64(5), score.HateScore)
	assert.Contains(score.Flags, "Aggressive tone (excessive exclamation)")

	score = s.Score("THIS IS ABSOLUTELY UNACCEPTABLE CONDUCT")
	assert.Equal(float64(5), score.HateScore)
	assert.Contains(score.Flags, "Aggressive tone (excessive caps)")

	// caps heuristic only applies to text longer than 20 characters
	score = s.Score("BAD DAY")
	assert.Equal(float64(0), score.HateScore)

	// the length gate counts characters, not bytes: 12 uppercase umlauts are
	// 24 bytes but still short text
	score = s.Score("ÄÖÜÄÖÜÄÖÜÄÖÜ")
	assert.Equal(float64(0), score.HateScore)
}

func TestScoreContextDampening(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	plain := s.Score("burn it down")
	damped := s.Score("the article mentions burn it down")
	assert.Less(damped.ViolenceScore, plain.ViolenceScore)
	assert.Equal(float64(16), damped.ViolenceScore)
	assert.Contains(damped.Flags, "Discussion context detected")

	negated := s.Score("never fight them")
	assert.Equal(float64(9), negated.ViolenceScore)
	assert.Contains(negated.Flags, "Negation detected")
}

func TestScoreClampAndExplanationTruncation(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.Score("exterminate subhuman vermin parasites invaders punch")
	assert.Equal(float64(100), score.RiskScore)
	assert.Len(score.Flags, 6)
	assert.Contains(score.Explanation, "and 1 more indicators.")
}

func TestScoreInvariants(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	inputs := []string{
		"",
		"hello world",
		"exterminate the subhuman vermin parasites",
		"the report quote says they will shoot them, but never again!!!",
		"WHY ARE THEY DOING THIS TO US ALL THE TIME",
	}
	for i, text := range inputs {
		score := s.Score(text)
		assert.GreaterOrEqual(score.RiskScore, float64(0), fmt.Sprintf("input %d", i))
		assert.LessOrEqual(score.RiskScore, float64(100), fmt.Sprintf("input %d", i))
		assert.GreaterOrEqual(score.HateScore, float64(0), fmt.Sprintf("input %d", i))
		assert.GreaterOrEqual(score.ViolenceScore, float64(0), fmt.Sprintf("input %d", i))
		assert.NotEmpty(score.Explanation, fmt.Sprintf("input %d", i))
	}
}

func TestScorePostCombinesTitleAndBody(t *testing.T) {
	assert := assert.New(t)
	s := testScorer()

	score := s.ScorePost("they are vermin", "burn it down")
	assert.Equal(float64(20), score.HateScore)
	assert.Equal(float64(20), score.ViolenceScore)

	// title-only posts score identically to their bare title text
	assert.Equal(s.Score("they are vermin"), s.ScorePost("they are vermin", ""))
}

func TestLevelForScore(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(LevelMinimal, LevelForScore(0))
	assert.Equal(LevelMinimal, LevelForScore(9.99))
	assert.Equal(LevelLow, LevelForScore(10))
	assert.Equal(LevelMedium, LevelForScore(30))
	assert.Equal(LevelHigh, LevelForScore(50))
	assert.Equal(LevelCritical, LevelForScore(70))
	assert.Equal(LevelCritical, LevelForScore(100))
}
