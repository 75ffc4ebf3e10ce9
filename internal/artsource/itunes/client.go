// Package itunes resolves artwork through the iTunes Search API. Free-text
// album search is noisy, so each result carries its own artist/album names
// and the resolution engine scores them before accepting anything.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cratedig/internal/domain"
)

const (
	DefaultBaseURL = "https://itunes.apple.com"

	defaultTimeout = 8 * time.Second
	searchLimit    = 50
	userAgent      = "cratedig/1.0"
)

// Artwork size variants tried per candidate, best first. The API hands out
// 100x100 thumbnails; larger renditions live at predictable sibling paths.
var artSizes = []string{"1200x1200bb", "600x600bb", "300x300bb"}

// Client queries the iTunes Search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

func (c *Client) Name() string { return "itunes" }

// search runs one album search, optionally narrowed by attribute
// ("albumTerm", "artistTerm").
func (c *Client) search(ctx context.Context, term, attribute string) (*searchResponse, error) {
	query := url.Values{}
	query.Set("media", "music")
	query.Set("entity", "album")
	query.Set("limit", fmt.Sprintf("%d", searchLimit))
	query.Set("term", term)
	if attribute != "" {
		query.Set("attribute", attribute)
	}

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("itunes search", "term", term, "attribute", attribute)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrSourceUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &parsed, nil
}

// Candidates runs the query shapes in order and concatenates their results,
// preserving shape priority. Shapes that fail are skipped; one reachable
// shape is enough.
func (c *Client) Candidates(ctx context.Context, rec *domain.Record) ([]domain.ArtCandidate, error) {
	title := stripParenthetical(rec.Title)
	shapes := []struct {
		term      string
		attribute string
	}{
		{title + " " + rec.Artist, ""},
		{rec.Artist + " " + title, "albumTerm"},
		{rec.Artist, "artistTerm"},
		{title, "albumTerm"},
	}

	var candidates []domain.ArtCandidate
	var lastErr error
	for _, shape := range shapes {
		resp, err := c.search(ctx, shape.term, shape.attribute)
		if err != nil {
			lastErr = err
			c.logger.Debug("itunes shape failed", "term", shape.term, "error", err)
			continue
		}
		for _, result := range resp.Results {
			if result.ArtworkURL100 == "" {
				continue
			}
			candidates = append(candidates, domain.ArtCandidate{
				Artist: result.ArtistName,
				Title:  result.CollectionName,
				Genre:  result.PrimaryGenreName,
				URLs:   sizeVariants(result.ArtworkURL100),
			})
		}
	}

	if candidates == nil && lastErr != nil {
		return nil, lastErr
	}
	return candidates, nil
}

// sizeVariants upgrades the API's 100x100 thumbnail URL to larger
// renditions, preferred first.
func sizeVariants(thumb string) []string {
	if !strings.Contains(thumb, "100x100bb") {
		return []string{thumb}
	}
	urls := make([]string, 0, len(artSizes))
	for _, size := range artSizes {
		urls = append(urls, strings.Replace(thumb, "100x100bb", size, 1))
	}
	return urls
}

// stripParenthetical drops "(Deluxe Edition)" style suffixes before
// searching; scoring tolerates them on the result side instead.
func stripParenthetical(s string) string {
	for {
		open := strings.IndexAny(s, "([")
		if open < 0 {
			break
		}
		closer := ")"
		if s[open] == '[' {
			closer = "]"
		}
		end := strings.Index(s[open:], closer)
		if end < 0 {
			break
		}
		s = s[:open] + s[open+end+1:]
	}
	return strings.Join(strings.Fields(s), " ")
}
