package http

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/fwojciec/modsdump"
)

var _ modsdump.Opener = (*Opener)(nil)

// Opener requests download candidates and hands back the open response.
// It has no overall client timeout; WithTimeout limits the wait for headers.
type Opener struct {
	client    *http.Client
	userAgent string
}

// NewOpener creates a new HTTP-based Opener.
func NewOpener(opts ...Option) *Opener {
	o := newOptions(opts)

	var rt http.RoundTripper
	if o.transport != nil {
		rt = o.transport
	} else {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = o.timeout
		rt = t
	}

	return &Opener{
		client:    &http.Client{Transport: rt, Jar: o.jar},
		userAgent: o.userAgent,
	}
}

// Open issues a GET request for url. The declared attachment name, if any,
// is taken from the Content-Disposition header.
func (o *Opener) Open(ctx context.Context, url string) (*modsdump.Download, error) {
	resp, err := get(ctx, o.client, url, o.userAgent)
	if err != nil {
		return nil, err
	}

	return &modsdump.Download{
		URL:  url,
		Name: AttachmentName(resp.Header.Get("Content-Disposition")),
		Size: resp.ContentLength,
		Body: resp.Body,
	}, nil
}

// AttachmentName returns the filename parameter of a Content-Disposition
// header value, or "" when there is none. Values that do not parse as a
// media type fall back to the text after "filename=" with quotes removed.
func AttachmentName(header string) string {
	if header == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(header); err == nil {
		return strings.TrimSpace(params["filename"])
	}

	_, after, ok := strings.Cut(header, "filename=")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(after, ';'); i >= 0 {
		after = after[:i]
	}
	return strings.TrimSpace(strings.ReplaceAll(after, `"`, ""))
}
