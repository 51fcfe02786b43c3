package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// minCleanTitleRunes is the floor below which a cleanup result is assumed
// to have destroyed meaningful signal.
const minCleanTitleRunes = 5

// fillerPhraseRes remove boilerplate a poster adds around the actual
// product name.
var fillerPhraseRes = compileAll(
	`(?i)link in comments?`,
	`(?i)check comments?`,
	`(?i)see below`,
	`(?i)read caption`,
)

// hypePrefixRe strips a leading marketing shout.
var hypePrefixRe = regexp.MustCompile(`(?i)^(?:huge|mega|super|bumper)\s+(?:deal|sale|discount|offer)s?\s*[:\-–]*\s*`)

// emojiRe covers the emoji blocks and a fixed set of decorative symbols
// that show up in deal titles.
var emojiRe = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{1F1E6}-\x{1F1FF}\x{2190}-\x{21FF}★☆✦✧▶►➤»¤]`)

// priceParenRe removes a parenthetical that only carries price noise,
// e.g. "(was $299)".
var priceParenRe = regexp.MustCompile(`(?i)\([^()]*(?:[$€£₹]|\brs\.?|\binr|\busd|\beur|\bgbp)\s?\.?\s?\d[^()]*\)`)

// priceFragmentRe removes a bare amount with its currency marker.
var priceFragmentRe = regexp.MustCompile(`(?i)(?:[$€£₹]|\brs\.?\s?|\binr\s?|\busd\s?)\s?\d[\d,]*(?:\.\d{1,2})?`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanTitle strips boilerplate, hype and price noise from a raw post
// title. Cleanup never destroys signal: when the result falls under
// minCleanTitleRunes, the trimmed original is returned instead.
func CleanTitle(raw string) string {
	cleaned := raw

	for _, re := range fillerPhraseRes {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}

	cleaned = emojiRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = hypePrefixRe.ReplaceAllString(cleaned, "")
	cleaned = priceParenRe.ReplaceAllString(cleaned, " ")
	cleaned = priceFragmentRe.ReplaceAllString(cleaned, " ")

	cleaned = strings.TrimFunc(cleaned, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")

	if len([]rune(cleaned)) < minCleanTitleRunes {
		cleaned = strings.TrimSpace(raw)
	}

	return capitalizeFirst(cleaned)
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
