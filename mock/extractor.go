package mock

import "github.com/fwojciec/modsdump"

var _ modsdump.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of modsdump.LinkExtractor.
type LinkExtractor struct {
	ItemLinksFn     func(html string) []string
	DownloadLinksFn func(html string) []string
}

func (e *LinkExtractor) ItemLinks(html string) []string {
	return e.ItemLinksFn(html)
}

func (e *LinkExtractor) DownloadLinks(html string) []string {
	return e.DownloadLinksFn(html)
}
