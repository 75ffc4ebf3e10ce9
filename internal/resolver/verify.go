package resolver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	probeTimeout = 8 * time.Second
	probeAgent   = "cratedig/1.0"
)

// Verifier checks that a candidate URL actually serves an image before the
// engine accepts or caches it.
type Verifier struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewVerifier(logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		httpClient: &http.Client{Timeout: probeTimeout},
		logger:     logger,
	}
}

// Probe reports whether url is loadable. HEAD first; hosts that reject HEAD
// get one GET whose body is discarded after a sniff-sized read.
func (v *Verifier) Probe(ctx context.Context, url string) bool {
	if ok, decided := v.attempt(ctx, http.MethodHead, url); decided {
		return ok
	}
	ok, _ := v.attempt(ctx, http.MethodGet, url)
	return ok
}

// attempt runs one probe request. decided is false when the method itself
// was refused (e.g. 405) and a different method may still succeed.
func (v *Verifier) attempt(ctx context.Context, method, url string) (ok, decided bool) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false, true
	}
	req.Header.Set("User-Agent", probeAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Debug("probe failed", "url", url, "error", err)
		return false, true
	}
	defer resp.Body.Close()

	if method == http.MethodGet {
		io.CopyN(io.Discard, resp.Body, 512)
	}

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		return false, false
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, true
	}

	// A sharing page that answers 200 with HTML is not a cover.
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		return false, true
	}
	return true, true
}
