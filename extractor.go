package modsdump

// LinkExtractor finds catalog links in raw page text.
// Implementations never fail: malformed input yields fewer matches.
type LinkExtractor interface {
	// ItemLinks returns the absolute URLs of every item page linked from html,
	// deduplicated, in document order.
	ItemLinks(html string) []string

	// DownloadLinks returns the absolute URLs of every download link in html,
	// deduplicated, in document order.
	DownloadLinks(html string) []string
}
