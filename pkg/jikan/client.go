package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.jikan.moe/v3/search"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "anisearch"
)

// ErrFetchFailed is returned for every failed search: transport errors,
// non-2xx statuses and undecodable bodies alike. The underlying cause is
// wrapped alongside it for logging.
var ErrFetchFailed = errors.New("fetch failed")

// Client is a Jikan search API client.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	transport  http.RoundTripper
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
// The client is used as-is: WithTransport and WithTimeout no longer apply and
// compressed responses are only decoded if its transport does so.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport sets the round tripper underneath the decompressing transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.With("component", "jikan")
		}
	}
}

// New creates a new Jikan client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: newCompressionTransport(c.transport),
		}
	}
	return c
}

// Search looks up shows by title.
//
// The query is appended to the request as the q parameter exactly as given;
// callers must pass text that is already URL-encoded. Results keep the order
// of the response.
func (c *Client) Search(ctx context.Context, query string) ([]Show, error) {
	start := time.Now()

	endpoint := c.baseURL + "/anime?q=" + query
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fetchError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fetchError(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, fetchError(err)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fetchError(fmt.Errorf("decode search response: %w", err))
	}

	results := searchResp.Results
	if results == nil {
		results = []Show{}
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(results), "duration_ms", time.Since(start).Milliseconds())
	}

	return results, nil
}

// checkResponse rejects any status outside 2xx.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// Drain a little of the body so the connection can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
	return fmt.Errorf("jikan API error: %s", resp.Status)
}

func fetchError(cause error) error {
	return fmt.Errorf("%w: %w", ErrFetchFailed, cause)
}
