package edgar

import (
	"context"
	"fmt"
	"io"

	"github.com/wonny/insidertracker/backend/pkg/httputil"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// Client handles communication with SEC EDGAR: the Form 4 Atom feed, filing
// index pages and raw ownership documents.
// ⭐ SSOT: all EDGAR requests go through this client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a new EDGAR client. The identification User-Agent is
// attached by the shared HTTP client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
	}
}

// fetch performs a GET and returns the response body on a 2xx status
func (c *Client) fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.httpClient.GetWithHeaders(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// FetchDocument fetches a raw filing document
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, nil)
}
