package parser

import (
	"math"
	"regexp"
)

// explicitDiscountRe matches an advertised "N% off" or "N% discount"
// phrase.
var explicitDiscountRe = regexp.MustCompile(`(?i)(\d{1,3})\s?%\s?(?:off|discount)`)

// CalculateDiscount derives a percentage discount. An explicit textual
// claim is trusted over price math because sellers advertise rounded
// marketing discounts that rarely match the raw numbers; the derived
// value is the fallback signal. The result is nil unless it lands in
// (0, 100].
func CalculateDiscount(text string, dealPrice, originalPrice *float64) *int {
	if match := explicitDiscountRe.FindStringSubmatch(text); match != nil {
		n := 0
		for _, r := range match[1] {
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 100 {
			return &n
		}
	}

	if dealPrice != nil && originalPrice != nil && *originalPrice > *dealPrice {
		derived := int(math.Round((*originalPrice - *dealPrice) / *originalPrice * 100))
		if derived > 0 && derived <= 100 {
			return &derived
		}
	}

	return nil
}
