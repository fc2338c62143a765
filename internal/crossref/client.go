// Package crossref fetches bibliographic works from the CrossRef REST API
// by DOI, honoring the rate limit the server advertises in its response
// headers.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// defaultUserAgent identifies us to CrossRef. Polite-pool callers
	// should append a mailto via WithMailto.
	defaultUserAgent = "snowball/1.0 (https://github.com/refsnow/snowball)"
)

// Cache stores raw work responses keyed by normalized DOI so repeated
// snowball runs skip the network.
type Cache interface {
	Get(doi string) ([]byte, bool)
	Put(doi string, body []byte)
}

// Client is a CrossRef REST API client with an adaptive rate limiter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *windowLimiter
	cache      Cache
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
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithMailto appends a contact address to the User-Agent, which routes
// requests into CrossRef's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		if mailto != "" {
			c.userAgent = fmt.Sprintf("%s (mailto:%s)", defaultUserAgent, mailto)
		}
	}
}

// WithCache sets a response cache.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a new CrossRef client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
		userAgent:  defaultUserAgent,
		limiter:    newWindowLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeDOI normalizes a DOI for lookup and deduplication: it strips
// common URL and "doi:" prefixes and lowercases the rest.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "doi:", "DOI:"} {
		if strings.HasPrefix(strings.ToLower(doi), strings.ToLower(prefix)) {
			doi = doi[len(prefix):]
			break
		}
	}
	return strings.ToLower(doi)
}

// GetWork fetches and parses the work registered for the DOI. Lookups
// that would exceed the server-advertised rate limit block until they can
// proceed; every other failure is surfaced, never retried.
func (c *Client) GetWork(ctx context.Context, doi string) (*Work, error) {
	doi = NormalizeDOI(doi)
	if doi == "" {
		return nil, fmt.Errorf("%w: empty DOI", ErrNotFound)
	}

	if c.cache != nil {
		if body, ok := c.cache.Get(doi); ok {
			return parseWork(body)
		}
	}

	c.limiter.wait()

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.updateLimit(resp.Header)

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	work, err := parseWork(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Put(doi, body)
	}
	return work, nil
}

// updateLimit adopts the rate limit advertised by the response headers.
// The interval value carries a trailing unit character ("1s" means one
// second).
func (c *Client) updateLimit(h http.Header) {
	limit, err := strconv.Atoi(strings.TrimSpace(h.Get("X-Rate-Limit-Limit")))
	if err != nil {
		return
	}
	interval := strings.TrimSpace(h.Get("X-Rate-Limit-Interval"))
	interval = strings.TrimRightFunc(interval, func(r rune) bool {
		return r < '0' || r > '9'
	})
	seconds, err := strconv.Atoi(interval)
	if err != nil {
		return
	}
	c.limiter.update(limit, time.Duration(seconds)*time.Second)
}

// parseWork parses the response envelope into a Work.
func parseWork(body []byte) (*Work, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Status != "ok" || env.MessageType != "work" {
		return nil, fmt.Errorf("%w: status %q, message-type %q", ErrMalformedResponse, env.Status, env.MessageType)
	}

	m := env.Message
	work := &Work{
		DOI:    NormalizeDOI(m.DOI),
		Title:  first(m.Title),
		Volume: m.Volume,
		Issue:  m.Issue,
		Pages:  m.Page,
	}
	work.Journal = first(m.ContainerTitle)
	work.ISSN = first(m.ISSN)

	if len(m.Issued.DateParts) > 0 {
		parts := m.Issued.DateParts[0]
		if len(parts) > 0 {
			work.Year = strconv.Itoa(parts[0])
		}
		if len(parts) > 1 {
			work.Month = strconv.Itoa(parts[1])
		}
	}

	for _, a := range m.Author {
		work.Authors = append(work.Authors, WorkAuthor{
			Given:  a.Given,
			Family: a.Family,
			ORCID:  normalizeORCID(a.ORCID),
		})
	}
	for _, r := range m.Reference {
		work.References = append(work.References, WorkReference{
			DOI:     NormalizeDOI(r.DOI),
			Title:   r.ArticleTitle,
			Author:  r.Author,
			Journal: r.JournalTitle,
			Year:    r.Year,
		})
	}

	return work, nil
}

// normalizeORCID strips the URL form CrossRef uses
// (https://orcid.org/0000-...) down to the bare identifier.
func normalizeORCID(orcid string) string {
	orcid = strings.TrimSpace(orcid)
	if i := strings.LastIndex(orcid, "/"); i >= 0 {
		orcid = orcid[i+1:]
	}
	return orcid
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
