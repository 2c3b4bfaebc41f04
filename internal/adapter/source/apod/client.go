package apod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/astrodaily/internal/domain"
)

const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "AstroDaily/1.0"

	contentPath = "/v1/apod"

	// DefaultMaxBodyBytes bounds a single response body read. It stays above
	// the cache's record ceiling so any cacheable record can be fetched.
	DefaultMaxBodyBytes = 16 << 20
)

// Client implements domain.ContentFetcher against the daily content endpoint.
// It performs no retries; retry policy belongs to the resolver.
type Client struct {
	baseURL    string
	apiKey     string
	maxBody    int64
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithAPIKey sends key as the api_key query parameter
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// NewClient creates a new content client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		maxBody: DefaultMaxBodyBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the record for date's calendar day.
// Every failure is a *domain.FetchError.
func (c *Client) Fetch(ctx context.Context, date time.Time) (*domain.ContentRecord, error) {
	query := url.Values{}
	query.Set("date", domain.FormatDate(date))
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	body, err := c.doRequest(ctx, contentPath, query)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &domain.FetchError{Kind: domain.FetchNoData}
	}

	var resp ContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, &domain.FetchError{Kind: domain.FetchDecode, Err: err}
	}

	record, err := MapRecord(&resp)
	if err != nil {
		c.logger.Error("invalid content record", "error", err, "date", domain.FormatDate(date))
		return nil, &domain.FetchError{Kind: domain.FetchDecode, Err: err}
	}

	return record, nil
}

// doRequest performs a GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	c.logger.Debug("content request", "path", path, "date", query.Get("date"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("content request failed", "error", err)
		return nil, &domain.FetchError{Kind: domain.FetchTransport, Err: err}
	}
	defer resp.Body.Close()

	// 204 is the server's explicit "nothing published for this date", which the
	// resolver steps past like a 404. The body of a non-2xx response is never read.
	if resp.StatusCode < 200 || resp.StatusCode > 299 || resp.StatusCode == http.StatusNoContent {
		c.logger.Debug("content request status", "status", resp.StatusCode, "date", query.Get("date"))
		return nil, &domain.FetchError{Kind: domain.FetchStatus, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength > c.maxBody {
		return nil, c.tooLarge(resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, c.tooLarge(int64(len(body)))
	}

	return body, nil
}

func (c *Client) tooLarge(size int64) error {
	c.logger.Error("content response too large", "size", size, "limit", c.maxBody)
	return &domain.FetchError{
		Kind: domain.FetchDecode,
		Err:  fmt.Errorf("%w: more than %d bytes", domain.ErrResponseTooLarge, c.maxBody),
	}
}
