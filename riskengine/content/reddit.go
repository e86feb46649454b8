package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/agamordechai/active-fence-assignment/util"
)

const defaultUserAgent = "redwatch/1.0 (content risk monitoring)"

// RedditClient fetches content via Reddit's public JSON listing endpoints.
// Requests are rate-limited and retried with backoff.
type RedditClient struct {
	Host      string
	UserAgent string
	Client    *http.Client
	Limiter   *rate.Limiter
}

var _ Source = (*RedditClient)(nil)

// NewRedditClient returns a client against the given host (scheme included),
// limited to reqPerSec upstream requests per second.
func NewRedditClient(host string, reqPerSec float64) *RedditClient {
	if host == "" {
		host = "https://www.reddit.com"
	}
	return &RedditClient{
		Host:      host,
		UserAgent: defaultUserAgent,
		Client:    util.RobustHTTPClient(),
		Limiter:   rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

// wire format of a Reddit listing response
type redditListing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	IsSelf      bool    `json:"is_self"`
	Over18      bool    `json:"over_18"`
	Locked      bool    `json:"locked"`
}

type redditComment struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Subreddit  string  `json:"subreddit"`
	Body       string  `json:"body"`
	CreatedUTC float64 `json:"created_utc"`
	Score      int     `json:"score"`
	Permalink  string  `json:"permalink"`
}

func (p redditPost) toPost() Post {
	return Post{
		ID:          p.ID,
		Title:       p.Title,
		Body:        p.Selftext,
		Author:      p.Author,
		Source:      p.Subreddit,
		CreatedAt:   time.Unix(int64(p.CreatedUTC), 0).UTC(),
		Score:       p.Score,
		UpvoteRatio: p.UpvoteRatio,
		NumComments: p.NumComments,
		Permalink:   p.Permalink,
		URL:         p.URL,
		IsSelf:      p.IsSelf,
		Over18:      p.Over18,
		Locked:      p.Locked,
	}
}

func (c redditComment) toComment() Comment {
	return Comment{
		ID:        c.ID,
		Author:    c.Author,
		Source:    c.Subreddit,
		Body:      c.Body,
		CreatedAt: time.Unix(int64(c.CreatedUTC), 0).UTC(),
		Score:     c.Score,
		Permalink: c.Permalink,
	}
}

func (rc *RedditClient) getListing(ctx context.Context, path string, params url.Values) (*redditListing, error) {
	if err := rc.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := rc.Host + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", rc.UserAgent)

	resp, err := rc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", path, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("parsing %s listing: %w", path, err)
	}
	return &listing, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func (rc *RedditClient) ListPosts(ctx context.Context, source string, limit int) ([]Post, error) {
	params := url.Values{"limit": []string{fmt.Sprint(clampLimit(limit))}}
	listing, err := rc.getListing(ctx, fmt.Sprintf("/r/%s/new.json", source), params)
	if err != nil {
		return nil, err
	}
	return decodePosts(listing)
}

func (rc *RedditClient) SearchPosts(ctx context.Context, query string, limit int) ([]Post, error) {
	params := url.Values{
		"q":     []string{query},
		"limit": []string{fmt.Sprint(clampLimit(limit))},
		"sort":  []string{"new"},
	}
	listing, err := rc.getListing(ctx, "/search.json", params)
	if err != nil {
		return nil, err
	}
	return decodePosts(listing)
}

func (rc *RedditClient) FetchAccountHistory(ctx context.Context, accountID string, limit int) (*AccountHistory, error) {
	params := url.Values{"limit": []string{fmt.Sprint(clampLimit(limit))}}

	submitted, err := rc.getListing(ctx, fmt.Sprintf("/user/%s/submitted.json", accountID), params)
	if err != nil {
		return nil, err
	}
	posts, err := decodePosts(submitted)
	if err != nil {
		return nil, err
	}

	commented, err := rc.getListing(ctx, fmt.Sprintf("/user/%s/comments.json", accountID), params)
	if err != nil {
		return nil, err
	}
	comments, err := decodeComments(commented)
	if err != nil {
		return nil, err
	}

	return &AccountHistory{
		AccountID: accountID,
		Posts:     posts,
		Comments:  comments,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func decodePosts(listing *redditListing) ([]Post, error) {
	posts := []Post{}
	for _, child := range listing.Data.Children {
		var rp redditPost
		if err := json.Unmarshal(child.Data, &rp); err != nil {
			return nil, fmt.Errorf("parsing post record: %w", err)
		}
		posts = append(posts, rp.toPost())
	}
	return posts, nil
}

func decodeComments(listing *redditListing) ([]Comment, error) {
	comments := []Comment{}
	for _, child := range listing.Data.Children {
		var rc redditComment
		if err := json.Unmarshal(child.Data, &rc); err != nil {
			return nil, fmt.Errorf("parsing comment record: %w", err)
		}
		comments = append(comments, rc.toComment())
	}
	return comments, nil
}
