package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agamordechai/active-fence-assignment/riskengine/content"
)

func TestEnrichWindowAndMetrics(t *testing.T) {
	assert := assert.New(t)
	e := NewEnricher()

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -(DefaultWindowDays + 30))
	history := &content.AccountHistory{
		AccountID: "acct",
		Posts: []content.Post{
			{ID: "p1", Title: "recent title", Body: "recent body", Source: "news", CreatedAt: now.AddDate(0, 0, -1), Score: 10},
			{ID: "p2", Title: "old title", Source: "news", CreatedAt: old, Score: 100},
		},
		Comments: []content.Comment{
			{ID: "c1", Body: "recent comment", Source: "politics", CreatedAt: now.AddDate(0, 0, -5), Score: 4},
			{ID: "c2", Body: "old comment", Source: "politics", CreatedAt: old, Score: 40},
		},
	}

	got := e.Enrich(history)
	assert.Equal("acct", got.AccountID)
	assert.Equal(2, got.Activity.TotalPosts)
	assert.Equal(2, got.Activity.TotalComments)
	assert.Equal(1, got.Activity.RecentPosts)
	assert.Equal(1, got.Activity.RecentComments)
	assert.Equal(2, got.Activity.RecentActivity)
	assert.Equal(10.0, got.Activity.AvgPostScore)
	assert.Equal(4.0, got.Activity.AvgCommentScore)
	assert.InDelta(2.0/float64(DefaultWindowDays), got.Activity.ActivityPerDay, 0.01)
	assert.Equal([]string{"news", "politics"}, got.Sources)
	assert.Equal("low_activity", got.ProfileStatus)

	// old items never contribute text
	assert.Equal([]string{"recent title", "recent body", "recent comment"}, got.Texts)
	assert.Equal([]string{"p1", "p1", "c1"}, got.TextRefs)
}

func TestEnrichSkipsEmptyText(t *testing.T) {
	assert := assert.New(t)
	e := NewEnricher()

	now := time.Now().UTC()
	history := &content.AccountHistory{
		AccountID: "acct",
		Posts: []content.Post{
			{ID: "p1", Title: "link only", CreatedAt: now, Source: "news"},
		},
		Comments: []content.Comment{
			{ID: "c1", CreatedAt: now, Source: "news"},
		},
	}

	got := e.Enrich(history)
	assert.Equal([]string{"link only"}, got.Texts)
	assert.Equal([]string{"p1"}, got.TextRefs)
	assert.Len(got.Texts, len(got.TextRefs))
}

func TestProfileStatus(t *testing.T) {
	assert := assert.New(t)
	e := NewEnricher()

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -(DefaultWindowDays + 30))

	got := e.Enrich(&content.AccountHistory{AccountID: "ghost"})
	assert.Equal("new_account_no_activity", got.ProfileStatus)
	assert.Empty(got.Texts)

	got = e.Enrich(&content.AccountHistory{
		AccountID: "stale",
		Posts:     []content.Post{{ID: "p1", Title: "t", CreatedAt: old, Source: "news"}},
	})
	assert.Equal("no_recent_activity", got.ProfileStatus)

	posts := make([]content.Post, 60)
	for i := range posts {
		posts[i] = content.Post{ID: "p", Title: "t", CreatedAt: now, Source: "news"}
	}
	got = e.Enrich(&content.AccountHistory{AccountID: "busy", Posts: posts})
	assert.Equal("high_activity", got.ProfileStatus)

	got = e.Enrich(&content.AccountHistory{AccountID: "steady", Posts: posts[:20]})
	assert.Equal("moderate_activity", got.ProfileStatus)
}
