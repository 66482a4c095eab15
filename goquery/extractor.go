// Package goquery implements modsdump.LinkExtractor using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/modsdump"
)

var _ modsdump.LinkExtractor = (*Extractor)(nil)

// Extractor finds item and download links by matching the href attribute of
// every element against the site's link shapes.
type Extractor struct {
	site     *modsdump.Site
	item     *regexp.Regexp
	download *regexp.Regexp
}

// NewExtractor creates an Extractor for site.
func NewExtractor(site *modsdump.Site) *Extractor {
	return &Extractor{
		site:     site,
		item:     site.ItemPattern(),
		download: site.DownloadPattern(),
	}
}

// ItemLinks returns the absolute item page URLs linked from html.
func (e *Extractor) ItemLinks(html string) []string {
	return e.extract(html, e.item)
}

// DownloadLinks returns the absolute download URLs linked from html.
func (e *Extractor) DownloadLinks(html string) []string {
	return e.extract(html, e.download)
}

func (e *Extractor) extract(html string, shape *regexp.Regexp) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !shape.MatchString(href) {
			return
		}
		abs := e.site.Qualify(href)
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	return links
}
