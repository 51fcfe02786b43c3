package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealradar/dealworker/internal/feed"
)

func newTestParser() *PostParser {
	return NewPostParser(DefaultOptions(), nil)
}

func TestParseFullLinkPost(t *testing.T) {
	p := newTestParser()
	post := &feed.RawPost{
		ID:        "abc",
		Title:     "🔥 HUGE DEAL: Sony Headphones $199 (was $299) link in comments",
		Permalink: "/r/deals/comments/abc/sony/",
		URL:       "http://amazon.com/dp/xyz",
		IsSelf:    false,
		Score:     50,
		Subreddit: "deals",
	}

	deal, err := p.Parse(context.Background(), post, nil)
	require.NoError(t, err)
	require.NotNil(t, deal)

	assert.Equal(t, "Sony Headphones", deal.Title)
	require.NotNil(t, deal.DealPrice)
	assert.Equal(t, 199.0, *deal.DealPrice)
	require.NotNil(t, deal.OriginalPrice)
	assert.Equal(t, 299.0, *deal.OriginalPrice)
	require.NotNil(t, deal.DiscountPercent)
	assert.Equal(t, 33, *deal.DiscountPercent)
	assert.Equal(t, CurrencyUSD, deal.Currency)
	assert.Equal(t, "http://amazon.com/dp/xyz", deal.ProductURL)
	assert.Equal(t, "Amazon", deal.Store)
	assert.Equal(t, "electronics", deal.CategorySlug)
	assert.Nil(t, deal.Description)
	assert.Equal(t, "abc", deal.SourcePostID)
	assert.Equal(t, 50, deal.SourceScore)
}

func TestParseSkipsNonDealMarkers(t *testing.T) {
	p := newTestParser()

	titles := []string{
		"[Discussion] which laptop should I buy",
		"[meta] subreddit rules update",
		"Looking for a cheap monitor",
		"Suggest me a good phone under $300",
	}
	for _, title := range titles {
		post := &feed.RawPost{ID: "x1", Title: title, Permalink: "/r/deals/comments/x1/t/"}
		deal, err := p.Parse(context.Background(), post, nil)
		assert.NoError(t, err, title)
		assert.Nil(t, deal, title)
	}
}

func TestParseSkipsPostWithNoDealSignal(t *testing.T) {
	p := newTestParser()
	// Self post, no prices, no discount, no external link.
	post := &feed.RawPost{
		ID:        "x2",
		Title:     "Great experience with this seller",
		SelfText:  "just wanted to share",
		Permalink: "/r/deals/comments/x2/t/",
		IsSelf:    true,
	}

	deal, err := p.Parse(context.Background(), post, nil)
	assert.NoError(t, err)
	assert.Nil(t, deal)
}

func TestParsePriceOnlySelfPostUsesPermalink(t *testing.T) {
	p := newTestParser()
	// A price is enough to keep the post even without an external link.
	post := &feed.RawPost{
		ID:        "x3",
		Title:     "Instant Pot Duo $49.99 in-store only",
		Permalink: "/r/deals/comments/x3/instant_pot/",
		IsSelf:    true,
	}

	deal, err := p.Parse(context.Background(), post, nil)
	require.NoError(t, err)
	require.NotNil(t, deal)
	assert.Equal(t, feed.SiteBaseURL+"/r/deals/comments/x3/instant_pot/", deal.ProductURL)
	assert.Equal(t, "", deal.Store)
	require.NotNil(t, deal.DealPrice)
	assert.Equal(t, 49.99, *deal.DealPrice)
}

func TestParseFindsLinkInComments(t *testing.T) {
	p := newTestParser()
	post := &feed.RawPost{
		ID:        "x4",
		Title:     "Anker 65W GaN Charger 40% off, link in comments",
		Permalink: "/r/deals/comments/x4/anker/",
		IsSelf:    true,
	}
	comments := func() []string {
		return []string{"here you go: https://www.amazon.com/dp/B0ANKER65"}
	}

	deal, err := p.Parse(context.Background(), post, comments)
	require.NoError(t, err)
	require.NotNil(t, deal)
	assert.Equal(t, "https://www.amazon.com/dp/B0ANKER65", deal.ProductURL)
	assert.Equal(t, "Amazon", deal.Store)
	require.NotNil(t, deal.DiscountPercent)
	assert.Equal(t, 40, *deal.DiscountPercent)
}

func TestParseTruncatesLongDescriptions(t *testing.T) {
	p := newTestParser()
	post := &feed.RawPost{
		ID:        "x5",
		Title:     "Mega catalog sale 25% off",
		SelfText:  strings.Repeat("a", 3000),
		Permalink: "/r/deals/comments/x5/catalog/",
		URL:       "https://www.target.com/c/sale",
	}

	deal, err := p.Parse(context.Background(), post, nil)
	require.NoError(t, err)
	require.NotNil(t, deal)
	require.NotNil(t, deal.Description)
	assert.Len(t, []rune(*deal.Description), 2000)
}

func TestParseBodyPricesWhenTitleHasNone(t *testing.T) {
	p := newTestParser()
	post := &feed.RawPost{
		ID:        "x6",
		Title:     "Logitech MX Master 3S lowest ever",
		SelfText:  "₹5,999, was ₹8,995 on [Flipkart](https://www.flipkart.com/logitech-mx)",
		Permalink: "/r/dealsforindia/comments/x6/mx/",
		IsSelf:    true,
	}

	deal, err := p.Parse(context.Background(), post, nil)
	require.NoError(t, err)
	require.NotNil(t, deal)
	assert.Equal(t, CurrencyINR, deal.Currency)
	require.NotNil(t, deal.DealPrice)
	assert.Equal(t, 5999.0, *deal.DealPrice)
	require.NotNil(t, deal.OriginalPrice)
	assert.Equal(t, 8995.0, *deal.OriginalPrice)
	assert.Equal(t, "Flipkart", deal.Store)
}
