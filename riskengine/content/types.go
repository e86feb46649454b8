package content

import (
	"context"
	"time"
)

// Post is one submitted content item, as shaped by the content source.
// Immutable once fetched; identity is ID.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	Score       int       `json:"score"`
	UpvoteRatio float64   `json:"upvote_ratio"`
	NumComments int       `json:"num_comments"`
	Permalink   string    `json:"permalink"`
	URL         string    `json:"url"`
	IsSelf      bool      `json:"is_self"`
	Over18      bool      `json:"over_18"`
	Locked      bool      `json:"locked"`
}

type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Source    string    `json:"source"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Score     int       `json:"score"`
	Permalink string    `json:"permalink"`
}

// AccountHistory is one account's recent post/comment window, already
// paginated by the source. Time-window filtering happens during enrichment.
type AccountHistory struct {
	AccountID string    `json:"account_id"`
	Posts     []Post    `json:"posts"`
	Comments  []Comment `json:"comments"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (h *AccountHistory) Empty() bool {
	return len(h.Posts) == 0 && len(h.Comments) == 0
}

// Source is the narrow view of a content provider the pipeline depends on.
// The scoring core itself never performs network I/O.
type Source interface {
	ListPosts(ctx context.Context, source string, limit int) ([]Post, error)
	SearchPosts(ctx context.Context, query string, limit int) ([]Post, error)
	FetchAccountHistory(ctx context.Context, accountID string, limit int) (*AccountHistory, error)
}
