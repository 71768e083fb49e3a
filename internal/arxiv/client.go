// Package arxiv provides a client for the arXiv export API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the arXiv export API endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateInterval is the minimum spacing between requests. arXiv's API
	// terms ask for no more than one request every three seconds.
	RateInterval = 3 * time.Second

	// DefaultSearchLimit is the default number of search results.
	DefaultSearchLimit = 10
)

// Client is a rate-limited HTTP client for the arXiv export API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a new arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(RateInterval), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries arXiv and returns up to maxResults entries sorted by
// relevance.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Entry, error) {
	if maxResults <= 0 {
		maxResults = DefaultSearchLimit
	}
	params := url.Values{
		"search_query": {query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}
	feed, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	return feed.Entries, nil
}

// FetchByID retrieves a single paper by its arXiv ID. Returns (nil, nil)
// when the ID resolves to nothing.
func (c *Client) FetchByID(ctx context.Context, arxivID string) (*Entry, error) {
	params := url.Values{
		"id_list":     {arxivID},
		"max_results": {"1"},
	}
	feed, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}
	entry := feed.Entries[0]
	// The API returns a placeholder entry with an empty title for
	// nonexistent IDs.
	if entry.Title == "" {
		return nil, nil
	}
	return &entry, nil
}

// fetch performs a rate-limited GET against the export API and parses the
// Atom feed.
func (c *Client) fetch(ctx context.Context, params url.Values) (*feed, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}
	return &f, nil
}
