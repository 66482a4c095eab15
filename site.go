package modsdump

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Defaults describe the SM64CoopDX mods site.
const (
	DefaultOrigin           = "https://mods.sm64coopdx.com"
	DefaultCatalogPath      = "/mods/"
	DefaultPageParam        = "page"
	DefaultChooseFileMarker = `<h1 class="p-title-value">Choose file…</h1>`
)

// DefaultExtensions lists the file extensions accepted without reclassification.
func DefaultExtensions() []string {
	return []string{".lua", ".rar", ".7z", ".zip"}
}

// Site describes the catalog layout of a mod-sharing website.
type Site struct {
	// Origin is the scheme and host every relative link is qualified with.
	Origin string

	// CatalogPath is the listing path. Item pages live directly below it.
	CatalogPath string

	// PageParam is the query parameter selecting a listing page.
	PageParam string

	// ChooseFileMarker is the literal text marking a multi-file item page.
	ChooseFileMarker string

	// Extensions are the accepted file name suffixes, matched case-insensitively.
	Extensions []string
}

// DefaultSite returns the site configuration for mods.sm64coopdx.com.
func DefaultSite() *Site {
	return &Site{
		Origin:           DefaultOrigin,
		CatalogPath:      DefaultCatalogPath,
		PageParam:        DefaultPageParam,
		ChooseFileMarker: DefaultChooseFileMarker,
		Extensions:       DefaultExtensions(),
	}
}

// Validate returns an error if the site contains invalid fields.
func (s *Site) Validate() error {
	if s.Origin == "" {
		return Errorf(EINVALID, "site origin required")
	}
	u, err := url.Parse(s.Origin)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "site origin %q must be an absolute http(s) URL", s.Origin)
	}
	if u.Path != "" && u.Path != "/" {
		return Errorf(EINVALID, "site origin %q must not contain a path", s.Origin)
	}
	if !strings.HasPrefix(s.CatalogPath, "/") || !strings.HasSuffix(s.CatalogPath, "/") {
		return Errorf(EINVALID, "catalog path %q must start and end with a slash", s.CatalogPath)
	}
	if s.PageParam == "" {
		return Errorf(EINVALID, "page parameter required")
	}
	if s.ChooseFileMarker == "" {
		return Errorf(EINVALID, "choose-file marker required")
	}
	if len(s.Extensions) == 0 {
		return Errorf(EINVALID, "at least one accepted extension required")
	}
	return nil
}

// ListingURL returns the bare catalog listing URL.
func (s *Site) ListingURL() string {
	return strings.TrimSuffix(s.Origin, "/") + s.CatalogPath
}

// PageURL returns the URL of the zero-based catalog page n.
// Page 0 is the bare listing URL.
func (s *Site) PageURL(n int) string {
	if n == 0 {
		return s.ListingURL()
	}
	return fmt.Sprintf("%s?%s=%d", s.ListingURL(), s.PageParam, n)
}

// Qualify turns a site-relative path into an absolute URL.
func (s *Site) Qualify(relative string) string {
	return strings.TrimSuffix(s.Origin, "/") + relative
}

// ItemPattern matches relative item links such as /mods/<slug>/.
func (s *Site) ItemPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(s.CatalogPath) + `[^/?#]+/$`)
}

// DownloadPattern matches relative download links such as
// /mods/<slug>/download?file=<id>.
func (s *Site) DownloadPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(s.CatalogPath) + `[^/?#]+/download\?file=.+$`)
}

// ImplicitDownloadURL returns the single download URL of an item page that
// does not offer a choice of files.
func (s *Site) ImplicitDownloadURL(itemURL string) string {
	return strings.TrimSuffix(itemURL, "/") + "/download"
}

// Accepts reports whether name ends with one of the accepted extensions.
func (s *Site) Accepts(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// FileName reduces a server-provided or URL-derived name to a single path
// element. It returns false when nothing usable remains.
func FileName(name string) (string, bool) {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", false
	}
	return name, true
}
