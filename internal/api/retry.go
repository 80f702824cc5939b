package api

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Default retry configuration values.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultMaxDelay   = 30 * time.Second
)

// DefaultRetryableStatusCodes are the HTTP status codes considered
// transient: request timeout, rate limiting, and server-side failures.
var DefaultRetryableStatusCodes = []int{408, 429, 500, 502, 503, 504}

// RetryPolicy configures retry behavior for failed HTTP requests.
// Invalid values are clamped to defaults by Normalize; a policy never
// causes a request to fail on its own.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retry attempts. The total
	// number of attempts is MaxRetries + 1.
	MaxRetries int
	// RetryDelay is the base delay between retry attempts.
	RetryDelay time.Duration
	// MaxDelay caps the delay between retry attempts.
	MaxDelay time.Duration
	// ExponentialBackoff doubles the delay after each attempt. When
	// false, every wait uses the flat RetryDelay.
	ExponentialBackoff bool
	// Jitter is the randomization factor (0.0 to 1.0) added to delays
	// to prevent thundering herd. Zero means deterministic delays.
	Jitter float64
	// RetryableOn determines whether a status code should trigger a
	// retry. Nil means DefaultRetryableStatusCodes.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryPolicy returns the default retry policy: three retries,
// exponential backoff from 500ms, retrying on 408/429/5xx.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:         DefaultMaxRetries,
		RetryDelay:         DefaultRetryDelay,
		MaxDelay:           DefaultMaxDelay,
		ExponentialBackoff: true,
		RetryableOn:        StatusCodeSet(DefaultRetryableStatusCodes),
	}
}

// StatusCodeSet builds a RetryableOn predicate from a list of status codes.
func StatusCodeSet(codes []int) func(int) bool {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return func(statusCode int) bool {
		_, ok := set[statusCode]
		return ok
	}
}

// Normalize clamps invalid values to defaults. Callers supplying a
// negative retry count or a non-positive delay get default behavior,
// never an error.
func (p *RetryPolicy) Normalize() {
	if p.MaxRetries < 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = DefaultRetryDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.Jitter > 1 {
		p.Jitter = 1
	}
	if p.RetryableOn == nil {
		p.RetryableOn = StatusCodeSet(DefaultRetryableStatusCodes)
	}
}

// RetryableStatus reports whether the status code is retryable.
func (p *RetryPolicy) RetryableStatus(statusCode int) bool {
	if p.RetryableOn == nil {
		return StatusCodeSet(DefaultRetryableStatusCodes)(statusCode)
	}
	return p.RetryableOn(statusCode)
}

// Backoff calculates the delay before retry attempt k (0-indexed).
// Under exponential mode the delay is RetryDelay * 2^k capped at
// MaxDelay; otherwise it is the flat RetryDelay.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	delay := float64(p.RetryDelay)
	if p.ExponentialBackoff {
		delay *= math.Pow(2, float64(attempt))
	}
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	if p.Jitter > 0 {
		jitterAmount := delay * p.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// Wait sleeps for the backoff delay of the given attempt, racing the
// wait against ctx so a cancellation during backoff terminates
// immediately instead of completing the wait.
func (p *RetryPolicy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.Backoff(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
