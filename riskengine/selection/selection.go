// Package selection decides which authors from a scored batch deserve deeper
// history enrichment, spending a bounded budget on the highest-risk accounts
// first. Selection is deterministic: repeated runs over the same batch and
// budget return the same candidate list, regardless of how scoring was
// parallelized upstream.
package selection

// Authors which never become enrichment candidates: placeholder identities
// for deleted/removed content, plus well-known bot accounts.
var ExcludedAuthors = map[string]bool{
	"[deleted]":     true,
	"[removed]":     true,
	"AutoModerator": true,
}

// ScoredItem is the minimal view of a scored content item that selection
// needs: who wrote it and how it scored.
type ScoredItem struct {
	Author    string
	RiskScore float64
}

// Selector picks enrichment candidates from a scored batch.
type Selector struct {
	HighRiskThreshold float64
}

func NewSelector(highRiskThreshold float64) *Selector {
	return &Selector{HighRiskThreshold: highRiskThreshold}
}

// SelectCandidates returns up to budget distinct authors, high-risk authors
// first (authors of any item scoring at or above the threshold), then authors
// of any other item with a positive score. Items scoring exactly 0 contribute
// no candidates: the pipeline only looks at accounts that produced at least
// one flagged item. Order within each group is first-seen order over the
// input batch.
func (s *Selector) SelectCandidates(items []ScoredItem, budget int) []string {
	if budget <= 0 {
		return []string{}
	}

	highRisk := []string{}
	highRiskSet := map[string]bool{}
	flagged := []string{}
	flaggedSet := map[string]bool{}

	for _, item := range items {
		if ExcludedAuthors[item.Author] || item.Author == "" {
			continue
		}
		if item.RiskScore >= s.HighRiskThreshold && !highRiskSet[item.Author] {
			highRiskSet[item.Author] = true
			highRisk = append(highRisk, item.Author)
		}
		if item.RiskScore > 0 && !flaggedSet[item.Author] {
			flaggedSet[item.Author] = true
			flagged = append(flagged, item.Author)
		}
	}

	out := []string{}
	for _, author := range highRisk {
		if len(out) >= budget {
			return out
		}
		out = append(out, author)
	}
	for _, author := range flagged {
		if len(out) >= budget {
			break
		}
		if !highRiskSet[author] {
			out = append(out, author)
		}
	}
	return out
}
