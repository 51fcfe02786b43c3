package parser

import (
	"context"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"dealradar/dealworker/helpers"
	"dealradar/dealworker/internal/feed"
	"dealradar/dealworker/logger"
)

// Preview resolutions in this width band are large enough for a card and
// small enough to load fast.
const (
	minPreviewWidth = 300
	maxPreviewWidth = 800
)

// placeholderImageRe flags generic or low-quality image URLs worth
// replacing with page metadata.
var placeholderImageRe = regexp.MustCompile(`(?i)(external-preview|redd\.it|redditmedia)`)

// PageFetcher retrieves an HTML page. It exists so the pipeline stays
// testable without mocking the network at every call site.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (io.Reader, error)
}

// HTTPPageFetcher fetches pages over HTTP with a bounded timeout and a
// generic crawler user-agent.
type HTTPPageFetcher struct {
	UserAgent string
	Timeout   time.Duration
}

// NewHTTPPageFetcher returns a fetcher with the standard 3 second bound.
func NewHTTPPageFetcher() *HTTPPageFetcher {
	return &HTTPPageFetcher{
		UserAgent: "Mozilla/5.0 (compatible; dealradar-bot/1.0)",
		Timeout:   3 * time.Second,
	}
}

// Fetch retrieves the page, cancelling the request once the timeout
// elapses.
func (f *HTTPPageFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return helpers.FetchPage(ctx, url, f.UserAgent)
}

// ImageResolver chooses a preview image for a parsed deal. Resolution is
// always best-effort: every failure degrades to "no image" and never
// surfaces to the caller.
type ImageResolver struct {
	fetcher PageFetcher
	log     *logger.Logger
}

// NewImageResolver creates an image resolver. A nil fetcher disables the
// network fallback.
func NewImageResolver(fetcher PageFetcher) *ImageResolver {
	return &ImageResolver{
		fetcher: fetcher,
		log:     logger.ForParser(),
	}
}

// Resolve picks an image URL for the post, preferring structured preview
// metadata, then the thumbnail, then Open Graph metadata fetched from the
// product page. external reports whether productURL points outside the
// feed site; the network fallback is skipped for permalinks.
func (r *ImageResolver) Resolve(ctx context.Context, post *feed.RawPost, productURL string, external bool) string {
	imageURL := r.fromMetadata(post)

	needsFetch := imageURL == "" || placeholderImageRe.MatchString(imageURL)
	if needsFetch && external && r.fetcher != nil {
		if ogImage := r.fetchPageImage(ctx, productURL); ogImage != "" {
			return ogImage
		}
	}

	return imageURL
}

// fromMetadata picks an image from the post's own fields: the first
// preview image's first resolution in the preferred width band, the
// preview source as a fallback, then an absolute thumbnail URL.
func (r *ImageResolver) fromMetadata(post *feed.RawPost) string {
	if post.Preview != nil && len(post.Preview.Images) > 0 {
		img := post.Preview.Images[0]
		for _, res := range img.Resolutions {
			if res.Width >= minPreviewWidth && res.Width <= maxPreviewWidth {
				return html.UnescapeString(res.URL)
			}
		}
		if img.Source.URL != "" {
			return html.UnescapeString(img.Source.URL)
		}
	}

	thumb := post.Thumbnail
	if strings.HasPrefix(thumb, "http://") || strings.HasPrefix(thumb, "https://") {
		return thumb
	}

	return ""
}

// fetchPageImage reads Open Graph or Twitter-card image metadata from the
// product page. Any failure yields the empty string.
func (r *ImageResolver) fetchPageImage(ctx context.Context, pageURL string) string {
	body, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		r.log.Debug().Err(err).Str("url", pageURL).Msg("page image fetch failed")
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		r.log.Debug().Err(err).Str("url", pageURL).Msg("page image parse failed")
		return ""
	}

	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:secure_url"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			content = strings.TrimSpace(content)
			if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
				return content
			}
		}
	}

	return ""
}
