// Package direct turns a record's own cover URL into loadable candidates.
// Sheet rows often carry sharing-page links (Google Drive file views,
// Dropbox shared links, Imgur galleries) that are not fetchable as images;
// this provider rewrites them to their direct-download equivalents and can
// add an image-proxy variant that sidesteps cross-origin and hotlink
// restrictions.
package direct

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"cratedig/internal/domain"
	"cratedig/internal/normalize"
)

const proxyBase = "https://images.weserv.nl/"

var (
	driveFile = regexp.MustCompile(`drive\.google\.com/file/d/([^/]+)/`)
	driveOpen = regexp.MustCompile(`drive\.google\.com/open\?id=([^&]+)`)
	imgurPage = regexp.MustCompile(`imgur\.com/(?:a|gallery)/([A-Za-z0-9]+)`)
	imgurBare = regexp.MustCompile(`imgur\.com/([A-Za-z0-9]+)$`)
)

// Provider serves the record's user-supplied cover URL.
type Provider struct {
	// UseProxy adds an images.weserv.nl variant after the direct URL, so a
	// host that refuses hotlinking still yields a loadable image.
	UseProxy bool
}

func New(useProxy bool) *Provider {
	return &Provider{UseProxy: useProxy}
}

func (p *Provider) Name() string { return "direct" }

// Candidates yields at most one trusted candidate: the sanitized source-row
// URL followed by its proxy variant. The URL is read from the immutable Raw
// row rather than the record's cover field, which other goroutines may be
// rewriting as resolutions land. No network access happens here; the
// engine's load verification does the probing.
func (p *Provider) Candidates(_ context.Context, rec *domain.Record) ([]domain.ArtCandidate, error) {
	sanitized := Sanitize(normalize.SourceCoverURL(rec.Raw))
	if sanitized == "" {
		return nil, nil
	}

	urls := []string{sanitized}
	if p.UseProxy {
		urls = append(urls, ProxyURL(sanitized))
	}
	return []domain.ArtCandidate{{URLs: urls}}, nil
}

// Sanitize rewrites known sharing-link hosts into direct-download URLs.
// Unrecognized URLs pass through trimmed.
func Sanitize(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}

	if m := driveFile.FindStringSubmatch(u); m != nil {
		return "https://drive.google.com/uc?export=download&id=" + m[1]
	}
	if m := driveOpen.FindStringSubmatch(u); m != nil {
		return "https://drive.google.com/uc?export=download&id=" + m[1]
	}

	if strings.Contains(u, "dropbox.com") {
		u = strings.Replace(u, "www.dropbox.com", "dl.dropboxusercontent.com", 1)
		u = strings.Replace(u, "?dl=0", "", 1)
		u = strings.Replace(u, "&dl=0", "", 1)
		return u
	}

	if m := imgurPage.FindStringSubmatch(u); m != nil {
		return "https://i.imgur.com/" + m[1] + ".jpg"
	}
	if m := imgurBare.FindStringSubmatch(u); m != nil && !strings.Contains(u, "i.imgur.com") {
		return "https://i.imgur.com/" + m[1] + ".jpg"
	}

	return u
}

// ProxyURL derives the resize-proxy transport for an image URL.
func ProxyURL(u string) string {
	stripped := strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
	return fmt.Sprintf("%s?url=%s&w=1200&h=1200&fit=cover", proxyBase, url.QueryEscape(stripped))
}
