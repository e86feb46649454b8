package scorer

import (
	"fmt"
	"math"
	"strings"
)

// DefaultHighRiskThreshold is the item score at or above which an item counts
// as high-risk for aggregation and alerting.
const DefaultHighRiskThreshold = 50

// RiskProfile is the account-level risk assessment, recomputed wholesale from
// the account's current content window on every pass. It is a pure function of
// the item score list: no incremental update path, no dependence on any prior
// profile.
type RiskProfile struct {
	AccountID          string    `json:"account_id"`
	OverallRiskScore   float64   `json:"overall_risk_score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	AvgHateScore       float64   `json:"average_hate_score"`
	AvgViolenceScore   float64   `json:"average_violence_score"`
	HighRiskItemCount  int       `json:"high_risk_item_count"`
	TotalItemsAnalyzed int       `json:"total_items_analyzed"`
	Explanation        string    `json:"explanation"`
}

// Aggregator rolls per-item scores into an account-level profile.
type Aggregator struct {
	Scorer            *Scorer
	HighRiskThreshold float64
}

func NewAggregator(s *Scorer) *Aggregator {
	return &Aggregator{
		Scorer:            s,
		HighRiskThreshold: DefaultHighRiskThreshold,
	}
}

// Aggregate scores every text item belonging to an account and computes the
// account profile. The result is order-independent: any permutation of the
// same item multiset yields an identical profile.
func (a *Aggregator) Aggregate(accountID string, texts []string) RiskProfile {
	if len(texts) == 0 {
		return RiskProfile{
			AccountID:   accountID,
			RiskLevel:   LevelNone,
			Explanation: "No content available for scoring",
		}
	}

	var totalHate, totalViolence float64
	highRiskCount := 0
	for _, text := range texts {
		score := a.Scorer.Score(text)
		totalHate += score.HateScore
		totalViolence += score.ViolenceScore
		if score.RiskScore >= a.HighRiskThreshold {
			highRiskCount++
		}
	}

	n := float64(len(texts))
	avgHate := totalHate / n
	avgViolence := totalViolence / n

	// the 0.7 weight discounts raw average severity in favor of the
	// frequency-boosted term: many moderate items can still reach HIGH
	// without any single extreme item.
	highRiskMultiplier := 1 + float64(highRiskCount)/n
	overall := math.Min(100, (avgHate+avgViolence)*0.7*highRiskMultiplier)
	level := LevelForScore(overall)

	return RiskProfile{
		AccountID:          accountID,
		OverallRiskScore:   round2(overall),
		RiskLevel:          level,
		AvgHateScore:       round2(avgHate),
		AvgViolenceScore:   round2(avgViolence),
		HighRiskItemCount:  highRiskCount,
		TotalItemsAnalyzed: len(texts),
		Explanation:        explainProfile(accountID, overall, level, len(texts), highRiskCount, avgHate, avgViolence),
	}
}

func explainProfile(accountID string, overall float64, level RiskLevel, total, highRisk int, avgHate, avgViolence float64) string {
	out := fmt.Sprintf("Account %s has a %s risk level (%.1f/100). ", accountID, strings.ToUpper(string(level)), overall)
	out += fmt.Sprintf("Analysis of %d content items revealed %d high-risk items. ", total, highRisk)
	out += fmt.Sprintf("Average hate speech indicators: %.1f, Average violence indicators: %.1f.", avgHate, avgViolence)

	switch {
	case overall >= 70:
		out += " IMMEDIATE REVIEW RECOMMENDED."
	case overall >= 50:
		out += " Should be monitored closely."
	case overall >= 30:
		out += " Moderate concern, periodic monitoring advised."
	}
	return out
}
