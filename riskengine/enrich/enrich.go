// Package enrich computes account-level activity metrics from a raw content
// history window and flattens the window into the text items handed to the
// risk aggregator.
package enrich

import (
	"math"
	"sort"
	"time"

	"github.com/agamordechai/active-fence-assignment/riskengine/content"
)

const DefaultWindowDays = 60

type ActivityMetrics struct {
	TotalPosts      int     `json:"total_posts"`
	TotalComments   int     `json:"total_comments"`
	RecentPosts     int     `json:"recent_posts"`
	RecentComments  int     `json:"recent_comments"`
	RecentActivity  int     `json:"recent_activity"`
	ActivityPerDay  float64 `json:"activity_per_day"`
	AvgPostScore    float64 `json:"avg_post_score"`
	AvgCommentScore float64 `json:"avg_comment_score"`
}

type EnrichedAccount struct {
	AccountID     string          `json:"account_id"`
	EnrichedAt    time.Time       `json:"enriched_at"`
	Activity      ActivityMetrics `json:"activity_metrics"`
	Sources       []string        `json:"sources"`
	ProfileStatus string          `json:"profile_status"`

	// Texts is the flattened content window, in fetch order: post titles and
	// bodies, then comment bodies. Input to the account aggregator.
	Texts []string `json:"-"`
	// TextRefs holds, for each entry of Texts, the ID of the content item the
	// text came from (a post title and body share the post's ID).
	TextRefs []string `json:"-"`
}

type Enricher struct {
	WindowDays int
}

func NewEnricher() *Enricher {
	return &Enricher{WindowDays: DefaultWindowDays}
}

// Enrich filters the history to the configured window and computes activity
// metrics. Accounts with no activity at all still produce a (zero) result;
// the caller decides whether to skip them.
func (e *Enricher) Enrich(history *content.AccountHistory) *EnrichedAccount {
	cutoff := time.Now().UTC().AddDate(0, 0, -e.WindowDays)

	var recentPosts []content.Post
	for _, p := range history.Posts {
		if !p.CreatedAt.Before(cutoff) {
			recentPosts = append(recentPosts, p)
		}
	}
	var recentComments []content.Comment
	for _, c := range history.Comments {
		if !c.CreatedAt.Before(cutoff) {
			recentComments = append(recentComments, c)
		}
	}

	var postScoreSum, commentScoreSum int
	sources := map[string]bool{}
	texts := []string{}
	refs := []string{}
	for _, p := range recentPosts {
		postScoreSum += p.Score
		sources[p.Source] = true
		if p.Title != "" {
			texts = append(texts, p.Title)
			refs = append(refs, p.ID)
		}
		if p.Body != "" {
			texts = append(texts, p.Body)
			refs = append(refs, p.ID)
		}
	}
	for _, c := range recentComments {
		commentScoreSum += c.Score
		sources[c.Source] = true
		if c.Body != "" {
			texts = append(texts, c.Body)
			refs = append(refs, c.ID)
		}
	}

	sourceList := make([]string, 0, len(sources))
	for s := range sources {
		sourceList = append(sourceList, s)
	}
	sort.Strings(sourceList)

	recentActivity := len(recentPosts) + len(recentComments)
	metrics := ActivityMetrics{
		TotalPosts:      len(history.Posts),
		TotalComments:   len(history.Comments),
		RecentPosts:     len(recentPosts),
		RecentComments:  len(recentComments),
		RecentActivity:  recentActivity,
		ActivityPerDay:  round2(float64(recentActivity) / float64(e.WindowDays)),
		AvgPostScore:    avgScore(postScoreSum, len(recentPosts)),
		AvgCommentScore: avgScore(commentScoreSum, len(recentComments)),
	}

	return &EnrichedAccount{
		AccountID:     history.AccountID,
		EnrichedAt:    time.Now().UTC(),
		Activity:      metrics,
		Sources:       sourceList,
		ProfileStatus: profileStatus(recentActivity, len(history.Posts)+len(history.Comments)),
		Texts:         texts,
		TextRefs:      refs,
	}
}

func profileStatus(recentActivity, totalActivity int) string {
	switch {
	case totalActivity == 0:
		return "new_account_no_activity"
	case recentActivity == 0:
		return "no_recent_activity"
	case recentActivity < 10:
		return "low_activity"
	case recentActivity < 50:
		return "moderate_activity"
	default:
		return "high_activity"
	}
}

func avgScore(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return round2(float64(sum) / float64(n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
