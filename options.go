package matchpoint

import (
	"net/http"
	"time"

	"github.com/matchpoint/client-go/internal/api"
	"github.com/matchpoint/client-go/internal/session"
)

// DeliveryStrategy specifies how the client receives new messages.
type DeliveryStrategy string

const (
	// StrategyWebSocket uses the backend's WebSocket channel for
	// real-time push with automatic reconnection.
	StrategyWebSocket DeliveryStrategy = "websocket"
	// StrategyPolling uses periodic API calls with adaptive backoff.
	StrategyPolling DeliveryStrategy = "polling"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient       *http.Client
	timeout          time.Duration
	retryPolicy      *RetryPolicy
	rateRPS          float64
	rateBurst        int
	logger           RequestLogger
	tokenStore       TokenStore
	tokenKeys        []string
	csrfCookieName   string
	deliveryStrategy DeliveryStrategy

	pollingInitialInterval   time.Duration
	pollingMaxBackoff        time.Duration
	pollingBackoffMultiplier float64
	pollingJitterFactor      float64
}

// Option configures the client. Invalid values are silently ignored and
// the default is retained.
type Option func(*clientConfig)

// WithHTTPClient sets a custom HTTP client. Supply one with a cookie
// jar if the backend's CSRF cookie should be honored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryPolicy replaces the whole retry policy.
func WithRetryPolicy(policy *RetryPolicy) Option {
	return func(c *clientConfig) {
		if policy != nil {
			c.retryPolicy = policy
		}
	}
}

// WithRetries sets the maximum number of retry attempts. The total
// number of attempts per request is count + 1.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		if count >= 0 {
			c.retryPolicy.MaxRetries = count
		}
	}
}

// WithRetryDelay sets the base delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *clientConfig) {
		if delay > 0 {
			c.retryPolicy.RetryDelay = delay
		}
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: 408, 429, 500, 502, 503, 504.
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		if len(statusCodes) > 0 {
			c.retryPolicy.RetryableOn = api.StatusCodeSet(statusCodes)
		}
	}
}

// WithFlatBackoff disables exponential backoff; every retry waits the
// flat base delay.
func WithFlatBackoff() Option {
	return func(c *clientConfig) {
		c.retryPolicy.ExponentialBackoff = false
	}
}

// WithRateLimit applies a client-side token bucket of rps requests per
// second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		if rps > 0 && burst > 0 {
			c.rateRPS = rps
			c.rateBurst = burst
		}
	}
}

// WithRequestLogger sets the logger used for request, retry, and
// realtime connection diagnostics.
func WithRequestLogger(logger RequestLogger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenStore sets the durable store the session token is kept in.
// Default is an in-memory store that does not survive the process.
func WithTokenStore(store TokenStore) Option {
	return func(c *clientConfig) {
		if store != nil {
			c.tokenStore = store
		}
	}
}

// WithTokenFile persists the session token in a JSON file at path,
// written with 0600 permissions.
func WithTokenFile(path string) Option {
	return func(c *clientConfig) {
		if path != "" {
			c.tokenStore = session.NewFileStore(path)
		}
	}
}

// WithTokenKeys overrides the ordered candidate storage keys. The first
// key is canonical; values found under later (legacy) keys are migrated
// to it at construction.
func WithTokenKeys(keys ...string) Option {
	return func(c *clientConfig) {
		if len(keys) > 0 {
			c.tokenKeys = keys
		}
	}
}

// WithCSRFCookieName overrides the cookie the anti-forgery token is
// read from. Default: "mp_csrf".
func WithCSRFCookieName(name string) Option {
	return func(c *clientConfig) {
		if name != "" {
			c.csrfCookieName = name
		}
	}
}

// WithDeliveryStrategy sets how new messages are received.
func WithDeliveryStrategy(strategy DeliveryStrategy) Option {
	return func(c *clientConfig) {
		switch strategy {
		case StrategyWebSocket, StrategyPolling:
			c.deliveryStrategy = strategy
		}
	}
}

// WithPollingInitialInterval sets the starting poll interval used while
// a conversation is active. Default: 2 seconds.
func WithPollingInitialInterval(interval time.Duration) Option {
	return func(c *clientConfig) {
		if interval > 0 {
			c.pollingInitialInterval = interval
		}
	}
}

// WithPollingMaxBackoff sets the maximum poll interval reached while a
// conversation is idle. Default: 30 seconds.
func WithPollingMaxBackoff(maxBackoff time.Duration) Option {
	return func(c *clientConfig) {
		if maxBackoff > 0 {
			c.pollingMaxBackoff = maxBackoff
		}
	}
}

// WithPollingBackoffMultiplier sets the factor the poll interval grows
// by after each unchanged poll. Default: 1.5.
func WithPollingBackoffMultiplier(multiplier float64) Option {
	return func(c *clientConfig) {
		if multiplier > 1 {
			c.pollingBackoffMultiplier = multiplier
		}
	}
}

// WithPollingJitterFactor sets the random jitter added to poll
// intervals, as a fraction of the interval. Default: 0.3.
func WithPollingJitterFactor(factor float64) Option {
	return func(c *clientConfig) {
		if factor >= 0 && factor <= 1 {
			c.pollingJitterFactor = factor
		}
	}
}
