package feed

// SiteBaseURL is the canonical base of the upstream feed site, used to
// fully qualify permalinks.
const SiteBaseURL = "https://www.reddit.com"

// ImageVariant is one rendition of a preview image
type ImageVariant struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PreviewImage is a preview image with its source and scaled resolutions
type PreviewImage struct {
	Source      ImageVariant   `json:"source"`
	Resolutions []ImageVariant `json:"resolutions"`
}

// Preview is the listing's preview image set.
type Preview struct {
	Images []PreviewImage `json:"images"`
}

// RawPost represents an unprocessed feed item as delivered by the listing API
type RawPost struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	SelfText  string   `json:"selftext"`
	Permalink string   `json:"permalink"`
	URL       string   `json:"url"`
	IsSelf    bool     `json:"is_self"`
	Score     int      `json:"score"`
	Thumbnail string   `json:"thumbnail"`
	Preview   *Preview `json:"preview,omitempty"`
	Subreddit string   `json:"subreddit"`
}

// PermalinkURL returns the fully qualified permalink of the post.
func (p *RawPost) PermalinkURL() string {
	return SiteBaseURL + p.Permalink
}

// listing mirrors the feed's envelope shape for post listings
type listing struct {
	Data struct {
		Children []struct {
			Data RawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// commentListing mirrors the envelope shape for comment listings
type commentListing struct {
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				Body string `json:"body"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}
