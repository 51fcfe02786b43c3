package parser

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"dealradar/dealworker/helpers"
	"dealradar/dealworker/internal/feed"
	"dealradar/dealworker/logger"
	"dealradar/dealworker/pkg/errors"
)

// skipMarkers flag posts that are not deals at all: meta threads,
// questions, purchase advice requests.
var skipMarkers = []string{
	"[meta]",
	"[question]",
	"[discussion]",
	"looking for",
	"suggest me",
	"help needed",
	"which one",
}

// PostParser composes the extractors into one candidate deal record.
type PostParser struct {
	opts     Options
	images   *ImageResolver
	validate *validator.Validate
	log      *logger.Logger
}

// NewPostParser creates a parser. fetcher powers the image resolver's
// network fallback and may be nil.
func NewPostParser(opts Options, fetcher PageFetcher) *PostParser {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = CurrencyUSD
	}
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = CategoryOther
	}
	return &PostParser{
		opts:     opts,
		images:   NewImageResolver(fetcher),
		validate: validator.New(),
		log:      logger.ForParser(),
	}
}

// Parse transforms one raw post into a ParsedDeal. It returns (nil, nil)
// when the post is not a deal: a denylisted title, or no actionable
// price, discount, or external link. Single pass, no retry.
func (p *PostParser) Parse(ctx context.Context, post *feed.RawPost, comments CommentProvider) (*ParsedDeal, error) {
	loweredTitle := strings.ToLower(post.Title)
	for _, marker := range skipMarkers {
		if strings.Contains(loweredTitle, marker) {
			p.log.Debug().Str("post_id", post.ID).Str("marker", marker).Msg("skipping non-deal post")
			return nil, nil
		}
	}

	productURL, external := ExtractProductURL(post, comments)

	text := post.Title + "\n" + post.SelfText
	dealPrice, originalPrice, currency := ExtractPricePair(text, p.opts)
	discount := CalculateDiscount(text, dealPrice, originalPrice)
	store := DetectStore(productURL)
	category := ClassifyCategory(text, p.opts)
	imageURL := p.images.Resolve(ctx, post, productURL, external)

	// A post with no price, no discount and no external link carries no
	// actionable deal information.
	if dealPrice == nil && discount == nil && !external {
		p.log.Debug().Str("post_id", post.ID).Msg("skipping post with no deal signal")
		return nil, nil
	}

	var description *string
	if post.SelfText != "" {
		truncated := helpers.TruncateRunes(post.SelfText, maxDescriptionRunes)
		description = &truncated
	}

	deal := &ParsedDeal{
		Title:           CleanTitle(post.Title),
		Description:     description,
		DealPrice:       dealPrice,
		OriginalPrice:   originalPrice,
		DiscountPercent: discount,
		Currency:        currency,
		ProductURL:      productURL,
		ImageURL:        imageURL,
		Store:           store,
		CategorySlug:    category,
		SourcePostID:    post.ID,
		SourceScore:     post.Score,
	}

	if err := p.validate.Struct(deal); err != nil {
		return nil, errors.New(errors.ErrorTypeValidation, post.ID, "assembled deal failed validation", err)
	}

	return deal, nil
}
