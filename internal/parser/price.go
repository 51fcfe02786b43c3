package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a monetary amount with optional thousands
// separators and up to two decimal places.
const amountPattern = `(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

// Amounts outside these bounds are treated as noise (garbage matches,
// order ids, phone numbers).
const (
	minSanePrice = 0
	maxSanePrice = 10_000_000
)

// currencyEntry binds a currency code to its single-amount patterns.
// The registry is ordered; earlier entries win.
type currencyEntry struct {
	Code     string
	Patterns []*regexp.Regexp
}

// currencyRegistry is scanned in declaration order. The bare dollar sign
// is guarded against a preceding letter so that C$ and A$ amounts are not
// claimed by USD.
var currencyRegistry = []currencyEntry{
	{CurrencyUSD, compileAll(
		`(?:^|[^A-Za-z])\$\s?`+amountPattern,
		`(?i)\bUSD\s?`+amountPattern,
	)},
	{CurrencyEUR, compileAll(
		`€\s?`+amountPattern,
		amountPattern+`\s?€`,
		`(?i)\bEUR\s?`+amountPattern,
	)},
	{CurrencyGBP, compileAll(
		`£\s?`+amountPattern,
		`(?i)\bGBP\s?`+amountPattern,
	)},
	{CurrencyCAD, compileAll(
		`(?i)\bC\$\s?`+amountPattern,
		`(?i)\bCAD\s?`+amountPattern,
	)},
	{CurrencyAUD, compileAll(
		`(?i)\bA\$\s?`+amountPattern,
		`(?i)\bAUD\s?`+amountPattern,
	)},
	{CurrencyINR, compileAll(
		`₹\s?`+amountPattern,
		`(?i)\bRs\.?\s?`+amountPattern,
		`(?i)\bINR\s?`+amountPattern,
	)},
}

// pairBridge matches the keyword that separates a deal price from the
// original price in seller phrasing.
const pairBridge = `(?:was|from|orig(?:inal(?:ly)?)?|reg(?:ular)?\.?|list|mrp|msrp)`

// pairEntry binds a currency code to its two-amount pattern.
type pairEntry struct {
	Code    string
	Pattern *regexp.Regexp
}

// pairRegistry is tried in declaration order; the first successful pair
// match wins.
var pairRegistry = []pairEntry{
	{CurrencyUSD, compilePair(`\$`)},
	{CurrencyEUR, compilePair(`€`)},
	{CurrencyGBP, compilePair(`£`)},
	{CurrencyINR, compilePair(`₹`)},
	{CurrencyINR, compilePair(`Rs\.?\s?`)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

func compilePair(symbol string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + symbol + `\s?` + amountPattern +
		`[^\d]{0,40}?` + pairBridge + `[^\d]{0,20}?` + symbol + `\s?` + amountPattern)
}

// parseAmount converts a matched amount literal to a float, rejecting
// values outside the sane price bounds.
func parseAmount(literal string) (float64, bool) {
	cleaned := strings.ReplaceAll(literal, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if value <= minSanePrice || value >= maxSanePrice {
		return 0, false
	}
	return value, true
}

// ExtractPrice scans text for a single monetary amount, trying each
// currency in registry order. When nothing matches, the price is nil and
// the currency is the configured default; currency is always reported.
func ExtractPrice(text string, opts Options) (*float64, string) {
	for _, entry := range currencyRegistry {
		for _, re := range entry.Patterns {
			for _, match := range re.FindAllStringSubmatch(text, -1) {
				if value, ok := parseAmount(match[1]); ok {
					return &value, entry.Code
				}
			}
		}
	}
	return nil, opts.DefaultCurrency
}

// ExtractPricePair looks for a deal/original price pair bridged by a
// was/from/reg/mrp-style keyword. The captured amounts are never trusted
// to be in deal/original order: the smaller one is the deal price. When
// no pair matches, it falls back to single-price extraction with a nil
// original price.
func ExtractPricePair(text string, opts Options) (dealPrice, originalPrice *float64, currency string) {
	for _, entry := range pairRegistry {
		for _, match := range entry.Pattern.FindAllStringSubmatch(text, -1) {
			first, okFirst := parseAmount(match[1])
			second, okSecond := parseAmount(match[2])
			if !okFirst || !okSecond {
				continue
			}
			low, high := first, second
			if low > high {
				low, high = high, low
			}
			return &low, &high, entry.Code
		}
	}

	price, currency := ExtractPrice(text, opts)
	return price, nil, currency
}
