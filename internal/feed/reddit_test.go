package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealradar/dealworker/pkg/errors"
)

const testListingJSON = `{
	"data": {
		"children": [
			{"data": {
				"id": "abc12",
				"title": "Sony WH-1000XM5 $278 (was $399)",
				"selftext": "",
				"permalink": "/r/deals/comments/abc12/sony/",
				"url": "https://www.amazon.com/dp/B09XS7JWHH",
				"is_self": false,
				"score": 120,
				"thumbnail": "https://b.thumbs.redditmedia.com/x.jpg",
				"subreddit": "deals"
			}},
			{"data": {
				"id": "",
				"title": "No id post",
				"permalink": "/r/deals/comments/def34/noid/",
				"is_self": true,
				"score": 3
			}}
		]
	}
}`

const testCommentsJSON = `[
	{"data": {"children": [{"kind": "t3", "data": {}}]}},
	{"data": {"children": [
		{"kind": "t1", "data": {"body": "link: https://www.flipkart.com/item/p/xyz"}},
		{"kind": "t1", "data": {"body": ""}},
		{"kind": "more", "data": {"body": "ignored"}}
	]}}
]`

func TestFetchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/deals/new.json", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Write([]byte(testListingJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	posts, err := client.FetchPosts(context.Background(), "deals", 25)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "abc12", posts[0].ID)
	assert.Equal(t, "Sony WH-1000XM5 $278 (was $399)", posts[0].Title)
	assert.False(t, posts[0].IsSelf)
	assert.Equal(t, 120, posts[0].Score)
	assert.Equal(t, "https://www.reddit.com/r/deals/comments/abc12/sony/", posts[0].PermalinkURL())

	// Missing id derived from the permalink
	assert.Equal(t, "def34", posts[1].ID)
}

func TestFetchPostsRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	_, err := client.FetchPosts(context.Background(), "deals", 25)
	require.Error(t, err)

	// The rate limit type must survive, not be flattened into a network
	// error, so the worker can set its block key.
	require.True(t, errors.IsRateLimit(err))
	werr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, werr.RetryAfter)
	assert.False(t, werr.IsRetryable())
}

func TestFetchPostsBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	_, err := client.FetchPosts(context.Background(), "deals", 25)
	assert.Error(t, err)
}

func TestFetchComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/deals/comments/abc12/sony.json", r.URL.Path)
		w.Write([]byte(testCommentsJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	comments, err := client.FetchComments(context.Background(), "/r/deals/comments/abc12/sony/")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "flipkart.com")
}
