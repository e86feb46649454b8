package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectCandidatesPrioritizesHighRisk(t *testing.T) {
	assert := assert.New(t)
	sel := NewSelector(50)

	items := []ScoredItem{
		{Author: "lowrisk", RiskScore: 10},
		{Author: "highrisk", RiskScore: 70},
	}
	assert.Equal([]string{"highrisk"}, sel.SelectCandidates(items, 1))

	// same result regardless of input order
	reversed := []ScoredItem{items[1], items[0]}
	assert.Equal([]string{"highrisk"}, sel.SelectCandidates(reversed, 1))
}

func TestSelectCandidatesFillsRemainingBudget(t *testing.T) {
	assert := assert.New(t)
	sel := NewSelector(50)

	items := []ScoredItem{
		{Author: "alice", RiskScore: 12},
		{Author: "bob", RiskScore: 55},
		{Author: "carol", RiskScore: 30},
		{Author: "dave", RiskScore: 80},
	}
	got := sel.SelectCandidates(items, 3)
	assert.Equal([]string{"bob", "dave", "alice"}, got)
}

func TestSelectCandidatesExcludesBlockedAuthors(t *testing.T) {
	assert := assert.New(t)
	sel := NewSelector(50)

	items := []ScoredItem{
		{Author: "[deleted]", RiskScore: 90},
		{Author: "AutoModerator", RiskScore: 90},
		{Author: "[removed]", RiskScore: 90},
		{Author: "", RiskScore: 90},
		{Author: "real", RiskScore: 20},
	}
	assert.Equal([]string{"real"}, sel.SelectCandidates(items, 10))
}

func TestSelectCandidatesIgnoresZeroScores(t *testing.T) {
	assert := assert.New(t)
	sel := NewSelector(50)

	items := []ScoredItem{
		{Author: "clean", RiskScore: 0},
		{Author: "flagged", RiskScore: 5},
	}
	// accounts whose items all scored zero never become candidates
	assert.Equal([]string{"flagged"}, sel.SelectCandidates(items, 10))
}

func TestSelectCandidatesDedupes(t *testing.T) {
	assert := assert.New(t)
	sel := NewSelector(50)

	items := []ScoredItem{
		{Author: "repeat", RiskScore: 60},
		{Author: "repeat", RiskScore: 75},
		{Author: "repeat", RiskScore: 5},
	}
	assert.Equal([]string{"repeat"}, sel.SelectCandidates(items, 10))
}

func TestSelectCandidatesBudget(t *testing.T) {
	assert := assert.New(t)
	sel := NewSelector(50)

	items := []ScoredItem{
		{Author: "a", RiskScore: 90},
		{Author: "b", RiskScore: 80},
		{Author: "c", RiskScore: 70},
	}
	assert.Len(sel.SelectCandidates(items, 2), 2)
	assert.Empty(sel.SelectCandidates(items, 0))
	assert.Empty(sel.SelectCandidates(nil, 5))
}
