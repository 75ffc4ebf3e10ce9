// Package deezer resolves artwork through the Deezer album search API using
// a structured artist/album query.
package deezer

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
	DefaultBaseURL = "https://api.deezer.com"

	defaultTimeout = 9 * time.Second
	userAgent      = "cratedig/1.0"
)

// Client queries the Deezer API.
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

func (c *Client) Name() string { return "deezer" }

// Candidates searches albums with a structured query. Cover URL variants
// come largest-first; the engine's verification picks the first loadable.
func (c *Client) Candidates(ctx context.Context, rec *domain.Record) ([]domain.ArtCandidate, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("artist:%q album:%q", rec.Artist, rec.Title))

	reqURL := fmt.Sprintf("%s/search/album?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("deezer search", "artist", rec.Artist, "title", rec.Title)

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

	var candidates []domain.ArtCandidate
	for _, album := range parsed.Data {
		urls := coverVariants(album)
		if len(urls) == 0 {
			continue
		}
		candidates = append(candidates, domain.ArtCandidate{
			Artist: album.Artist.Name,
			Title:  album.Title,
			URLs:   urls,
		})
	}
	return candidates, nil
}

func coverVariants(album albumResult) []string {
	var urls []string
	for _, u := range []string{album.CoverXL, album.CoverBig, album.CoverMedium} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
