package parser

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"dealradar/dealworker/internal/feed"
)

// fakePageFetcher serves a canned page body (or error) and records the
// URLs it was asked for.
type fakePageFetcher struct {
	body string
	err  error
	urls []string
}

func (f *fakePageFetcher) Fetch(_ context.Context, url string) (io.Reader, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return strings.NewReader(f.body), nil
}

func previewPost(variants ...feed.ImageVariant) *feed.RawPost {
	return &feed.RawPost{
		Preview: &feed.Preview{
			Images: []feed.PreviewImage{{
				Source:      feed.ImageVariant{URL: "https://preview.example.com/source.jpg", Width: 1920},
				Resolutions: variants,
			}},
		},
	}
}

func TestResolvePrefersMidSizeResolution(t *testing.T) {
	resolver := NewImageResolver(nil)
	post := previewPost(
		feed.ImageVariant{URL: "https://img.example.com/tiny.jpg", Width: 108},
		feed.ImageVariant{URL: "https://img.example.com/card.jpg?w=640&amp;s=abc", Width: 640},
		feed.ImageVariant{URL: "https://img.example.com/huge.jpg", Width: 1080},
	)

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	// HTML entities in the feed payload are unescaped.
	assert.Equal(t, "https://img.example.com/card.jpg?w=640&s=abc", got)
}

func TestResolveFallsBackToPreviewSource(t *testing.T) {
	resolver := NewImageResolver(nil)
	post := previewPost(feed.ImageVariant{URL: "https://img.example.com/tiny.jpg", Width: 108})

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	assert.Equal(t, "https://preview.example.com/source.jpg", got)
}

func TestResolveFallsBackToThumbnail(t *testing.T) {
	resolver := NewImageResolver(nil)
	post := &feed.RawPost{Thumbnail: "https://cdn.example.com/thumb.jpg"}

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", got)
}

func TestResolveIgnoresPlaceholderThumbnails(t *testing.T) {
	resolver := NewImageResolver(nil)
	// "self", "default" and friends are not URLs at all.
	post := &feed.RawPost{Thumbnail: "self"}

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	assert.Equal(t, "", got)
}

func TestResolveFetchesOpenGraphImage(t *testing.T) {
	fetcher := &fakePageFetcher{body: `<html><head>
		<meta property="og:image" content="https://merchant.example.com/product.jpg"/>
	</head><body></body></html>`}
	resolver := NewImageResolver(fetcher)
	post := &feed.RawPost{}

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	assert.Equal(t, "https://merchant.example.com/product.jpg", got)
	assert.Equal(t, []string{"https://amazon.com/dp/x"}, fetcher.urls)
}

func TestResolveFetchesTwitterCardImage(t *testing.T) {
	fetcher := &fakePageFetcher{body: `<html><head>
		<meta name="twitter:image" content="https://merchant.example.com/card.jpg"/>
	</head></html>`}
	resolver := NewImageResolver(fetcher)

	got := resolver.Resolve(context.Background(), &feed.RawPost{}, "https://amazon.com/dp/x", true)
	assert.Equal(t, "https://merchant.example.com/card.jpg", got)
}

func TestResolveReplacesPlaceholderViaPage(t *testing.T) {
	fetcher := &fakePageFetcher{body: `<html><head>
		<meta property="og:image" content="https://merchant.example.com/real.jpg"/>
	</head></html>`}
	resolver := NewImageResolver(fetcher)
	post := &feed.RawPost{Thumbnail: "https://external-preview.redd.it/abc.jpg"}

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	assert.Equal(t, "https://merchant.example.com/real.jpg", got)
}

func TestResolveSkipsFetchForInternalURLs(t *testing.T) {
	fetcher := &fakePageFetcher{body: `<html></html>`}
	resolver := NewImageResolver(fetcher)
	post := &feed.RawPost{}

	got := resolver.Resolve(context.Background(), post, "https://www.reddit.com/r/deals/comments/x/", false)
	assert.Equal(t, "", got)
	assert.Empty(t, fetcher.urls, "permalink targets must not be fetched")
}

func TestResolveFetchFailureDegradesToEmpty(t *testing.T) {
	fetcher := &fakePageFetcher{err: errors.New("connection refused")}
	resolver := NewImageResolver(fetcher)

	got := resolver.Resolve(context.Background(), &feed.RawPost{}, "https://amazon.com/dp/x", true)
	assert.Equal(t, "", got)
}

func TestResolvePageWithoutMetadataKeepsPlaceholder(t *testing.T) {
	fetcher := &fakePageFetcher{body: `<html><head><title>shop</title></head></html>`}
	resolver := NewImageResolver(fetcher)
	post := &feed.RawPost{Thumbnail: "https://external-preview.redd.it/abc.jpg"}

	got := resolver.Resolve(context.Background(), post, "https://amazon.com/dp/x", true)
	// A failed upgrade keeps whatever metadata produced.
	assert.Equal(t, "https://external-preview.redd.it/abc.jpg", got)
}
