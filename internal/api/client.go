package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the per-request timeout of the underlying HTTP client.
const DefaultTimeout = 30 * time.Second

// DefaultCSRFCookieName is the cookie the backend issues its anti-forgery
// token in. Its value is echoed back in the X-CSRF-Token header on
// mutating requests.
const DefaultCSRFCookieName = "mp_csrf"

// maxErrorBodySize bounds how much of an error response body is read.
const maxErrorBodySize = 64 << 10

// TokenSource yields the current session token. It returns ok=false when
// no session is active, in which case no Authorization header is sent.
type TokenSource func() (token string, ok bool)

// Client is the resilient HTTP client for the Matchpoint API. Every
// outcome of a request is represented in the returned error; no failure
// escapes as a panic.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryPolicy
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     RequestLogger
	csrfCookie string
}

// Option configures the API client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetryPolicy sets the retry policy. The policy is normalized, so
// invalid values fall back to defaults.
func WithRetryPolicy(policy *RetryPolicy) Option {
	return func(c *Client) {
		if policy != nil {
			c.retry = policy
		}
	}
}

// WithTokenSource sets the session token source.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		if src != nil {
			c.tokens = src
		}
	}
}

// WithRateLimit applies a client-side token bucket of rps requests per
// second with the given burst before each request's first attempt.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger RequestLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCSRFCookieName overrides the cookie the CSRF token is read from.
func WithCSRFCookieName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.csrfCookie = name
		}
	}
}

// New creates a new API client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		retry:      DefaultRetryPolicy(),
		logger:     &NoopLogger{},
		csrfCookie: DefaultCSRFCookieName,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.retry.Normalize()

	return c, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BearerToken returns the current session token, if any.
func (c *Client) BearerToken() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens()
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Do performs an HTTP request against the configured base URL, retrying
// transient failures according to the retry policy. body is JSON-encoded
// when non-nil; a 2xx response body is decoded into result when result
// is non-nil.
//
// Attempts are strictly sequential and bounded by MaxRetries + 1. The
// context is checked before each attempt, during the network call, and
// during each backoff wait; a cancellation observed at any of those
// points returns an error matching ErrRequestCancelled and stops the
// operation, including when the context was cancelled before the first
// attempt started.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Err: fmt.Errorf("marshal request body: %w", err), URL: c.baseURL + path}
		}
		payload = data
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return cancelled(err)
		}
	}

	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}

		err := c.attempt(ctx, method, path, payload, result, requestID, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !c.shouldRetry(err, attempt) {
			return err
		}

		c.logger.Debugf("retrying %s %s after attempt %d: %v", method, path, attempt+1, err)
		if werr := c.retry.Wait(ctx, attempt); werr != nil {
			return cancelled(werr)
		}
	}

	return lastErr
}

// attempt issues a single HTTP request and classifies its outcome.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, result any, requestID string, attempt int) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("create request: %w", err), URL: fullURL, Attempt: attempt}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token, ok := c.BearerToken(); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if mutating(method) {
		if csrf := c.csrfToken(); csrf != "" {
			req.Header.Set("X-CSRF-Token", csrf)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return cancelled(ctxErr)
		}
		return &NetworkError{Err: err, URL: fullURL, Attempt: attempt}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		apiErr := parseErrorResponse(resp.StatusCode, body, resp.Header.Get("X-Request-ID"))
		c.logger.Warnf("%s %s failed: %v", method, path, apiErr)
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err), URL: fullURL, Attempt: attempt}
		}
	}

	return nil
}

// shouldRetry decides whether a failed attempt is followed by another.
// Cancellations are never retried. API errors retry when the policy
// marks their status code retryable. Transport errors retry except for
// DNS resolution failures, which indicate a misconfigured base URL
// rather than a transient fault.
func (c *Client) shouldRetry(err error, attempt int) bool {
	if attempt >= c.retry.MaxRetries {
		return false
	}
	if errors.Is(err, ErrRequestCancelled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return c.retry.RetryableStatus(apiErr.StatusCode)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		var dnsErr *net.DNSError
		if errors.As(netErr.Err, &dnsErr) {
			return false
		}
		return true
	}

	return false
}

// csrfToken reads the anti-forgery token from the cookie jar, if present.
func (c *Client) csrfToken() string {
	if c.httpClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == c.csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
