package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cratedig/internal/domain"
)

const sheetTimeout = 20 * time.Second

// SheetClient fetches a published spreadsheet CSV export.
type SheetClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewSheetClient(logger *slog.Logger) *SheetClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetClient{
		httpClient: &http.Client{Timeout: sheetTimeout},
		logger:     logger,
	}
}

// Fetch downloads and parses the CSV at url. The caller keeps its current
// collection when this fails.
func (c *SheetClient) Fetch(ctx context.Context, url string) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	c.logger.Debug("sheet fetch", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("sheet fetch failed", "error", err)
		return nil, domain.ErrSourceUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("sheet fetch error", "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	rows, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("loaded sheet", "rows", len(rows))
	return rows, nil
}
