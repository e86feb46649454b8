package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `{
  "data": {
    "children": [
      {"kind": "t3", "data": {
        "id": "abc123",
        "title": "a post title",
        "selftext": "the post body",
        "author": "someuser",
        "subreddit": "news",
        "created_utc": 1735689600,
        "score": 42,
        "upvote_ratio": 0.93,
        "num_comments": 7,
        "permalink": "/r/news/comments/abc123/",
        "url": "https://example.com/article",
        "is_self": true,
        "over_18": false,
        "locked": false
      }}
    ]
  }
}`

const commentListingFixture = `{
  "data": {
    "children": [
      {"kind": "t1", "data": {
        "id": "def456",
        "author": "someuser",
        "subreddit": "politics",
        "body": "a comment body",
        "created_utc": 1735689600,
        "score": 3,
        "permalink": "/r/politics/comments/xyz/_/def456/"
      }}
    ]
  }
}`

func TestListPostsDecodesListing(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		assert.Equal("25", r.URL.Query().Get("limit"))
		w.Write([]byte(listingFixture))
	}))
	defer srv.Close()

	client := NewRedditClient(srv.URL, 100)
	posts, err := client.ListPosts(context.Background(), "news", 25)
	require.NoError(err)
	require.Len(posts, 1)

	assert.Equal("/r/news/new.json", gotPath)
	assert.Equal(defaultUserAgent, gotUA)

	p := posts[0]
	assert.Equal("abc123", p.ID)
	assert.Equal("a post title", p.Title)
	assert.Equal("the post body", p.Body)
	assert.Equal("someuser", p.Author)
	assert.Equal("news", p.Source)
	assert.Equal(int64(1735689600), p.CreatedAt.Unix())
	assert.Equal(42, p.Score)
	assert.Equal(0.93, p.UpvoteRatio)
	assert.Equal(7, p.NumComments)
	assert.True(p.IsSelf)
	assert.False(p.Over18)
}

func TestSearchPostsQueryAndClamp(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/search.json", r.URL.Path)
		assert.Equal("exterminate", r.URL.Query().Get("q"))
		assert.Equal("new", r.URL.Query().Get("sort"))
		// oversized limits are clamped to the listing API maximum
		assert.Equal("100", r.URL.Query().Get("limit"))
		w.Write([]byte(listingFixture))
	}))
	defer srv.Close()

	client := NewRedditClient(srv.URL, 100)
	posts, err := client.SearchPosts(context.Background(), "exterminate", 500)
	assert.NoError(err)
	assert.Len(posts, 1)
}

func TestFetchAccountHistory(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/someuser/submitted.json":
			w.Write([]byte(listingFixture))
		case "/user/someuser/comments.json":
			w.Write([]byte(commentListingFixture))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewRedditClient(srv.URL, 100)
	history, err := client.FetchAccountHistory(context.Background(), "someuser", 100)
	require.NoError(err)

	assert.Equal("someuser", history.AccountID)
	assert.False(history.Empty())
	require.Len(history.Posts, 1)
	require.Len(history.Comments, 1)
	assert.Equal("def456", history.Comments[0].ID)
	assert.Equal("a comment body", history.Comments[0].Body)
	assert.Equal("politics", history.Comments[0].Source)
	assert.False(history.FetchedAt.IsZero())
}

func TestListPostsUnexpectedStatus(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRedditClient(srv.URL, 100)
	_, err := client.ListPosts(context.Background(), "ghosttown", 25)
	assert.Error(err)
	assert.Contains(err.Error(), "unexpected status 404")
}

func TestListPostsMalformedListing(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewRedditClient(srv.URL, 100)
	_, err := client.ListPosts(context.Background(), "news", 25)
	assert.Error(err)
}
