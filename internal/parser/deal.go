package parser

// Supported currency codes, in detection priority order.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyCAD = "CAD"
	CurrencyAUD = "AUD"
	CurrencyINR = "INR"
)

// CategoryOther is the catch-all category slug.
const CategoryOther = "other"

// maxDescriptionRunes caps the description copied from the post body.
const maxDescriptionRunes = 2000

// Options carries the tunable defaults of the extraction pipeline.
// Locale-specific deployments override the defaults instead of patching
// the extractors.
type Options struct {
	DefaultCurrency string
	DefaultCategory string
}

// DefaultOptions returns the platform defaults
func DefaultOptions() Options {
	return Options{
		DefaultCurrency: CurrencyUSD,
		DefaultCategory: CategoryOther,
	}
}

// ParsedDeal is the structured, validated output record of the extraction
// pipeline. It is never mutated after construction; persistence and
// deduplication belong to downstream collaborators.
type ParsedDeal struct {
	Title           string   `json:"title" validate:"required"`
	Description     *string  `json:"description,omitempty"`
	DealPrice       *float64 `json:"deal_price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice   *float64 `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *int     `json:"discount_percent,omitempty" validate:"omitempty,gt=0,lte=100"`
	Currency        string   `json:"currency" validate:"required,oneof=USD EUR GBP CAD AUD INR"`
	ProductURL      string   `json:"product_url" validate:"required,url"`
	ImageURL        string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Store           string   `json:"store,omitempty"`
	CategorySlug    string   `json:"category_slug" validate:"required"`
	SourcePostID    string   `json:"source_post_id" validate:"required"`
	SourceScore     int      `json:"source_score"`
}
