package feed

// Presets maps friendly names to RSS feed URLs accepted by the import
// endpoint and the CLI.
var Presets = map[string]string{
	"cna": "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml",
	"st":  "https://www.straitstimes.com/news/singapore/rss.xml",
	"hn":  "https://hnrss.org/newest",
	"tr":  "https://www.technologyreview.com/feed/",
}

// ResolveURL resolves a feed identifier to a URL: preset names map to
// their URL, anything else passes through as a direct URL.
func ResolveURL(feedInput string) string {
	if url, exists := Presets[feedInput]; exists {
		return url
	}
	return feedInput
}
