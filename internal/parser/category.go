package parser

import "strings"

// categoryEntry binds a category slug to its keyword list. The registry
// order is the tie-break: when two categories score the same, the one
// declared first keeps the win.
type categoryEntry struct {
	Slug     string
	Keywords []string
}

// longKeywordLen is the length above which a keyword counts double.
// Longer keywords are more specific and less prone to false positives.
const longKeywordLen = 5

var categoryRegistry = []categoryEntry{
	{"electronics", []string{
		"laptop", "headphone", "earbud", "earphone", "monitor", "smartphone",
		"tablet", "camera", "speaker", "television", " tv ", "soundbar",
		"ssd", "processor", "router", "smartwatch", "charger", "power bank",
		"sony", "bose", "jbl",
	}},
	{"gaming", []string{
		"gaming", "playstation", "xbox", "nintendo", "ps5", "ps4", "console",
		"graphics card", "controller", "steam deck",
	}},
	{"fashion", []string{
		"shirt", "t-shirt", "jeans", "shoes", "sneaker", "dress", "jacket",
		"hoodie", "handbag", "apparel", "clothing", "kurta", "saree",
	}},
	{"home-kitchen", []string{
		"sofa", "mattress", "cookware", "kitchen", "vacuum", "furniture",
		"bedsheet", "mixer grinder", "air fryer", "decor", "curtain",
		"pressure cooker",
	}},
	{"beauty-health", []string{
		"shampoo", "skincare", "makeup", "perfume", "lipstick", "moisturizer",
		"sunscreen", "vitamin", "protein", "supplement", "trimmer",
	}},
	{"grocery", []string{
		"grocery", "snack", "coffee", "chocolate", "beverage", "pantry",
		"biscuit", "cereal", "masala",
	}},
	{"books-media", []string{
		"book", "novel", "kindle", "audiobook", "paperback", "textbook",
		"comics",
	}},
	{"toys-kids", []string{
		"toy", "lego", "diaper", "stroller", "puzzle", "board game",
		"action figure",
	}},
	{"sports-outdoors", []string{
		"bicycle", "treadmill", "dumbbell", "fitness", "camping", "yoga",
		"running", "trekking", "badminton", "cricket",
	}},
	{"automotive", []string{
		"dashcam", "helmet", "motorcycle", "tyre", "engine oil",
		"car accessories", "car charger",
	}},
}

// ClassifyCategory scores every category's keywords as substrings of the
// lower-cased text: weight 2 for keywords longer than longKeywordLen,
// weight 1 otherwise. The strictly highest total wins; all-zero scores
// yield the default slug. Enumeration order is fixed, so the result is
// deterministic across runs.
func ClassifyCategory(text string, opts Options) string {
	lowered := strings.ToLower(text)

	best := opts.DefaultCategory
	bestScore := 0
	for _, entry := range categoryRegistry {
		score := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(lowered, kw) {
				if len(kw) > longKeywordLen {
					score += 2
				} else {
					score++
				}
			}
		}
		if score > bestScore {
			best = entry.Slug
			bestScore = score
		}
	}

	return best
}
