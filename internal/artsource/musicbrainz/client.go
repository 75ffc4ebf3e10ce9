// Package musicbrainz resolves artwork by finding a release-group through
// the MusicBrainz search API, then handing the Cover Art Archive's size
// ladder for that group to the resolution engine. CAA URLs are trusted: the
// release-group came from a structured artist+release query, so no further
// match scoring applies and only load verification stands between a ladder
// URL and acceptance.
package musicbrainz

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
	DefaultBaseURL    = "https://musicbrainz.org/ws/2"
	DefaultArchiveURL = "https://coverartarchive.org"

	defaultTimeout = 8 * time.Second
	// MusicBrainz rejects anonymous clients.
	userAgent = "cratedig/1.0 (vinyl collection browser)"
)

// Preferred front-cover sizes, descending. The bare "front" endpoint is the
// unscaled original and comes last.
var coverSizes = []string{"1200", "1000", "800", "500", "250"}

// Client queries MusicBrainz and derives Cover Art Archive URLs.
type Client struct {
	baseURL    string
	archiveURL string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, archiveURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		archiveURL: strings.TrimRight(archiveURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

func (c *Client) Name() string { return "musicbrainz" }

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

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
	return body, nil
}

// ReleaseGroupID resolves the best-ranked release-group for an
// (artist, title) pair using a structured lucene query.
func (c *Client) ReleaseGroupID(ctx context.Context, artist, title string) (string, error) {
	query := url.Values{}
	query.Set("query", fmt.Sprintf("artist:%q AND release:%q", artist, title))
	query.Set("fmt", "json")
	query.Set("limit", "1")

	c.logger.Debug("musicbrainz lookup", "artist", artist, "title", title)

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/release-group/?%s", c.baseURL, query.Encode()))
	if err != nil {
		return "", err
	}

	var parsed releaseGroupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.ReleaseGroups) == 0 {
		return "", nil
	}
	return parsed.ReleaseGroups[0].ID, nil
}

// GenreTags returns the release-group's folksonomy tags, most-used first.
func (c *Client) GenreTags(ctx context.Context, releaseGroupID string) ([]string, error) {
	query := url.Values{}
	query.Set("inc", "tags")
	query.Set("fmt", "json")

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/release-group/%s?%s", c.baseURL, releaseGroupID, query.Encode()))
	if err != nil {
		return nil, err
	}

	var parsed releaseGroupDetail
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	tags := parsed.Tags
	for i := 1; i < len(tags); i++ {
		j := i
		for j > 0 && tags[j].Count > tags[j-1].Count {
			tags[j], tags[j-1] = tags[j-1], tags[j]
			j--
		}
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names, nil
}

// Candidates yields at most one trusted candidate holding the Cover Art
// Archive size ladder for the matched release-group.
func (c *Client) Candidates(ctx context.Context, rec *domain.Record) ([]domain.ArtCandidate, error) {
	id, err := c.ReleaseGroupID(ctx, rec.Artist, rec.Title)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	urls := make([]string, 0, len(coverSizes)+1)
	for _, size := range coverSizes {
		urls = append(urls, fmt.Sprintf("%s/release-group/%s/front-%s", c.archiveURL, id, size))
	}
	urls = append(urls, fmt.Sprintf("%s/release-group/%s/front", c.archiveURL, id))

	return []domain.ArtCandidate{{URLs: urls}}, nil
}
