// Package httpclient is a small JSON-over-HTTP client with optional retries,
// used for identity provider calls.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/liftmate/liftmate/pkg/resilience"
)

const defaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read
const maxBody = 1 << 20

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client sends requests relative to baseURL
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig *resilience.RetryConfig
}

// Option configures a Client
type Option func(*Client)

// NewClient creates a client. The first timeout, when positive, overrides the default.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	t := defaultTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		t = timeout[0]
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: t},
	}
}

// With applies options and returns the client
func (c *Client) With(opts ...Option) *Client {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithRetry enables retries with cfg
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		if cfg.IsRetryable == nil {
			cfg.IsRetryable = isHTTPRetryable
		}
		c.retryConfig = &cfg
	}
}

// WithDefaultRetry enables retries of 5xx, 429 and transport errors
func WithDefaultRetry() Option {
	cfg := resilience.DefaultRetryConfig()
	cfg.IsRetryable = isHTTPRetryable
	return WithRetry(cfg)
}

// WithHTTPClient swaps the transport, e.g. for an oauth2 authenticated client.
// The client keeps its own timeout when hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		if hc.Timeout == 0 {
			copied := *hc
			copied.Timeout = c.httpClient.Timeout
			hc = &copied
		}
		c.httpClient = hc
	}
}

// Get sends a GET request to path and returns the response body
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	op := func(ctx context.Context) (interface{}, error) {
		return c.do(ctx, http.MethodGet, path, headers)
	}

	if c.retryConfig == nil {
		res, err := op(ctx)
		if err != nil {
			return nil, err
		}
		return res.([]byte), nil
	}

	res, err := resilience.Retry(ctx, *c.retryConfig, op)
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// isHTTPRetryable retries server errors, rate limiting and transport failures
func isHTTPRetryable(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
