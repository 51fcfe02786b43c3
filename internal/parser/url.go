package parser

import (
	"regexp"
	"strings"

	"dealradar/dealworker/internal/feed"
)

// markdownLinkRe captures the target of a markdown-style link. The text
// is adversarial, so the closing paren may end up inside the capture;
// trailing brackets are stripped afterwards.
var markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\((https?://[^\s)]+)\)`)

// bareURLRe matches URLs pasted straight into text.
var bareURLRe = regexp.MustCompile(`https?://[^\s<>\[\]()"']+`)

// nonProductRes reject URLs that can never point at a product: image
// hosts, the feed site's own media and gallery paths, and raw image
// files.
var nonProductRes = compileAll(
	`(?i)i\.redd\.it`,
	`(?i)v\.redd\.it`,
	`(?i)preview\.redd\.it`,
	`(?i)external-preview\.redd\.it`,
	`(?i)redditmedia\.com`,
	`(?i)reddit\.com/(gallery|media)`,
	`(?i)imgur\.com`,
	`(?i)\.(jpe?g|png|gif|webp)(\?|$)`,
)

// CommentProvider supplies comment bodies on demand. Fetching comments is
// real network I/O, so the URL extractor only calls it when the post
// itself carried no usable link ("link in comments" posting pattern).
type CommentProvider func() []string

// ExtractProductURL harvests candidate product URLs from the post body,
// its external link, the title and, lazily, its comments, then picks one.
// Selection is two-pass: a candidate matching a known merchant beats any
// earlier non-merchant candidate; otherwise source order decides. The
// returned flag reports whether a real external URL was found or the
// permalink fallback was taken.
func ExtractProductURL(post *feed.RawPost, comments CommentProvider) (string, bool) {
	candidates := harvest(post.SelfText)

	if !post.IsSelf && post.URL != "" {
		candidates = append(candidates, post.URL)
	}

	candidates = append(candidates, harvest(post.Title)...)
	candidates = dedupe(filterProductURLs(candidates))

	if len(candidates) == 0 && comments != nil {
		var fromComments []string
		for _, body := range comments() {
			fromComments = append(fromComments, harvest(body)...)
		}
		candidates = dedupe(filterProductURLs(fromComments))
	}

	// First pass: prefer a URL from a known merchant.
	for _, candidate := range candidates {
		if DetectStore(candidate) != "" {
			return candidate, true
		}
	}
	// Second pass: any surviving candidate.
	if len(candidates) > 0 {
		return candidates[0], true
	}

	return post.PermalinkURL(), false
}

// harvest pulls markdown link targets first, then bare URLs, preserving
// source order.
func harvest(text string) []string {
	var urls []string
	for _, match := range markdownLinkRe.FindAllStringSubmatch(text, -1) {
		urls = append(urls, match[1])
	}
	urls = append(urls, bareURLRe.FindAllString(text, -1)...)
	return urls
}

// filterProductURLs drops non-product URLs and anything hosted on the
// feed site itself, and strips trailing brackets captured by the
// markdown regex.
func filterProductURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimRight(u, ")],.")
		if u == "" || isFeedSiteURL(u) {
			continue
		}
		if matchesAny(u, nonProductRes) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func isFeedSiteURL(u string) bool {
	lowered := strings.ToLower(u)
	return strings.Contains(lowered, "reddit.com") || strings.Contains(lowered, "redd.it")
}

func matchesAny(s string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	var out []string
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
