package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dealradar/dealworker/helpers"
	"dealradar/dealworker/pkg/errors"
)

// Client fetches post listings and comment threads from the feed site
type Client struct {
	baseURL   string
	userAgent string
}

// NewClient creates a feed client. An empty baseURL falls back to the
// public site.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = SiteBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// FetchPosts retrieves the newest posts of a subreddit
func (c *Client) FetchPosts(ctx context.Context, subreddit string, limit int) ([]RawPost, error) {
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", c.baseURL, subreddit, limit)

	data, err := helpers.FetchJSON(ctx, url, c.userAgent)
	if err != nil {
		if errors.IsRateLimit(err) {
			return nil, err
		}
		return nil, errors.NewNetwork(subreddit, "failed to fetch listing", err)
	}

	var l listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.NewParsing(subreddit, "failed to decode listing", err)
	}

	posts := make([]RawPost, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		post := child.Data
		if post.ID == "" {
			// Older listing shards omit the id field; derive it from the permalink
			if id, err := helpers.GetSplitPart(post.Permalink, "/", 4); err == nil {
				post.ID = id
			}
		}
		if post.ID == "" {
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// FetchComments retrieves the top-level comment bodies of a post
func (c *Client) FetchComments(ctx context.Context, permalink string) ([]string, error) {
	url := c.baseURL + strings.TrimSuffix(permalink, "/") + ".json?limit=40"

	data, err := helpers.FetchJSON(ctx, url, c.userAgent)
	if err != nil {
		if errors.IsRateLimit(err) {
			return nil, err
		}
		return nil, errors.NewNetwork(permalink, "failed to fetch comments", err)
	}

	// A post page decodes as a two-element array: the post listing and
	// its comment listing.
	var listings []commentListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, errors.NewParsing(permalink, "failed to decode comments", err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var bodies []string
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" || child.Data.Body == "" {
			continue
		}
		bodies = append(bodies, child.Data.Body)
	}

	return bodies, nil
}
