// Package arxiv fetches entry metadata from the arXiv export API.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the arXiv export API query endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is one request per three seconds per arXiv API etiquette.
	RateLimit = 1.0 / 3.0

	// errorTitle is the literal title of the synthetic entry arXiv
	// returns for an unknown id.
	errorTitle = "Error"
)

// Common errors returned by the arXiv client.
var (
	// ErrNotFound indicates no entry exists for the id.
	ErrNotFound = errors.New("id not found on arXiv")

	// ErrTransport indicates a network or HTTP-level failure.
	ErrTransport = errors.New("arXiv transport error")

	// ErrMalformedResponse indicates the feed could not be parsed.
	ErrMalformedResponse = errors.New("malformed arXiv response")
)

// Entry is the plain transfer record an arXiv lookup parses into.
type Entry struct {
	ID        string
	Title     string
	Published time.Time
	Updated   time.Time
	Authors   []string // full names, "first-name(s) last-name"
}

// Client is a rate-limited arXiv export API client.
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
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new arXiv client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetEntry fetches the entry for an arXiv id. Only the first entry of the
// feed is consulted.
func (c *Client) GetEntry(ctx context.Context, id string) (*Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s?id_list=%s", c.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return parseFeed(body, id)
}

// Atom feed structures for the arXiv export API.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Published string       `xml:"published"`
	Updated   string       `xml:"updated"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

func parseFeed(body []byte, id string) (*Entry, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	raw := feed.Entries[0]
	title := strings.TrimSpace(raw.Title)
	if title == errorTitle {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entry := &Entry{
		ID:    extractID(raw.ID, id),
		Title: title,
	}
	entry.Published, _ = time.Parse(time.RFC3339, raw.Published)
	entry.Updated, _ = time.Parse(time.RFC3339, raw.Updated)
	for _, a := range raw.Authors {
		entry.Authors = append(entry.Authors, strings.TrimSpace(a.Name))
	}

	return entry, nil
}

// extractID pulls the bare id out of the entry's abs URL
// (http://arxiv.org/abs/2301.00001v1 -> 2301.00001), dropping the version
// suffix. Falls back to the requested id.
func extractID(entryID, fallback string) string {
	idx := strings.LastIndex(entryID, "/abs/")
	if idx < 0 {
		return fallback
	}
	id := entryID[idx+5:]
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		id = id[:vIdx]
	}
	return id
}
