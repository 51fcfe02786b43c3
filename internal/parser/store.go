package parser

import "regexp"

// merchantEntry binds a merchant label to its domain patterns. The
// registry is ordered; the first matching merchant wins.
type merchantEntry struct {
	Name     string
	Patterns []*regexp.Regexp
}

// merchantRegistry covers the international and India-specific stores the
// feed links to most often. Matching is case-insensitive and independent
// of path or query.
var merchantRegistry = []merchantEntry{
	{"Amazon", compileAll(`(?i)amazon\.(com|in|co\.uk|ca|com\.au|de)`, `(?i)amzn\.(to|in|eu)`)},
	{"Flipkart", compileAll(`(?i)flipkart\.com`, `(?i)fkrt\.(it|cc)`)},
	{"Myntra", compileAll(`(?i)myntra\.com`)},
	{"Ajio", compileAll(`(?i)ajio\.com`)},
	{"Tata CLiQ", compileAll(`(?i)tatacliq\.com`)},
	{"Croma", compileAll(`(?i)croma\.com`)},
	{"Reliance Digital", compileAll(`(?i)reliancedigital\.in`)},
	{"Snapdeal", compileAll(`(?i)snapdeal\.com`)},
	{"Nykaa", compileAll(`(?i)nykaa(fashion)?\.com`)},
	{"FirstCry", compileAll(`(?i)firstcry\.com`)},
	{"BigBasket", compileAll(`(?i)bigbasket\.com`)},
	{"Blinkit", compileAll(`(?i)blinkit\.com`)},
	{"Meesho", compileAll(`(?i)meesho\.com`)},
	{"JioMart", compileAll(`(?i)jiomart\.com`)},
	{"Paytm Mall", compileAll(`(?i)paytmmall\.com`)},
	{"Walmart", compileAll(`(?i)walmart\.(com|ca)`)},
	{"Target", compileAll(`(?i)target\.com`)},
	{"Best Buy", compileAll(`(?i)bestbuy\.(com|ca)`)},
	{"eBay", compileAll(`(?i)ebay\.(com|in|co\.uk|ca)`)},
	{"Newegg", compileAll(`(?i)newegg\.com`)},
	{"Costco", compileAll(`(?i)costco\.(com|ca)`)},
	{"AliExpress", compileAll(`(?i)aliexpress\.(com|us)`)},
	{"Etsy", compileAll(`(?i)etsy\.com`)},
	{"Home Depot", compileAll(`(?i)homedepot\.(com|ca)`)},
	{"B&H", compileAll(`(?i)bhphotovideo\.com`)},
}

// DetectStore returns the first merchant whose domain pattern matches the
// URL, or the empty string when no merchant matches.
func DetectStore(url string) string {
	for _, entry := range merchantRegistry {
		for _, re := range entry.Patterns {
			if re.MatchString(url) {
				return entry.Name
			}
		}
	}
	return ""
}
