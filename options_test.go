package matchpoint

import (
	"testing"
	"time"
)

func newTestConfig(opts ...Option) *clientConfig {
	cfg := &clientConfig{
		retryPolicy:      DefaultRetryPolicy(),
		logger:           &NoopLogger{},
		deliveryStrategy: StrategyWebSocket,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func TestOptions_Defaults(t *testing.T) {
	cfg := newTestConfig()

	if cfg.retryPolicy.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.retryPolicy.MaxRetries)
	}
	if cfg.retryPolicy.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.retryPolicy.RetryDelay)
	}
	if !cfg.retryPolicy.ExponentialBackoff {
		t.Error("ExponentialBackoff = false, want true")
	}
	if cfg.deliveryStrategy != StrategyWebSocket {
		t.Errorf("deliveryStrategy = %q, want websocket", cfg.deliveryStrategy)
	}
}

func TestOptions_ApplyValidValues(t *testing.T) {
	cfg := newTestConfig(
		WithRetries(5),
		WithRetryDelay(2*time.Second),
		WithTimeout(10*time.Second),
		WithFlatBackoff(),
		WithRateLimit(4, 8),
		WithDeliveryStrategy(StrategyPolling),
		WithCSRFCookieName("custom_csrf"),
		WithTokenKeys("new.key", "old.key"),
		WithPollingInitialInterval(time.Second),
	)

	if cfg.retryPolicy.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.retryPolicy.MaxRetries)
	}
	if cfg.retryPolicy.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.retryPolicy.RetryDelay)
	}
	if cfg.timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.timeout)
	}
	if cfg.retryPolicy.ExponentialBackoff {
		t.Error("ExponentialBackoff = true after WithFlatBackoff")
	}
	if cfg.rateRPS != 4 || cfg.rateBurst != 8 {
		t.Errorf("rate limit = %v/%d, want 4/8", cfg.rateRPS, cfg.rateBurst)
	}
	if cfg.deliveryStrategy != StrategyPolling {
		t.Errorf("deliveryStrategy = %q, want polling", cfg.deliveryStrategy)
	}
	if cfg.csrfCookieName != "custom_csrf" {
		t.Errorf("csrfCookieName = %q", cfg.csrfCookieName)
	}
	if len(cfg.tokenKeys) != 2 || cfg.tokenKeys[0] != "new.key" {
		t.Errorf("tokenKeys = %v", cfg.tokenKeys)
	}
	if cfg.pollingInitialInterval != time.Second {
		t.Errorf("pollingInitialInterval = %v, want 1s", cfg.pollingInitialInterval)
	}
}

func TestOptions_InvalidValuesRetainDefaults(t *testing.T) {
	cfg := newTestConfig(
		WithRetries(-1),
		WithRetryDelay(0),
		WithTimeout(-time.Second),
		WithRateLimit(0, 0),
		WithDeliveryStrategy("carrier-pigeon"),
		WithCSRFCookieName(""),
		WithTokenKeys(),
		WithRequestLogger(nil),
		WithTokenStore(nil),
		WithHTTPClient(nil),
		WithPollingBackoffMultiplier(0.5),
		WithPollingJitterFactor(2),
	)

	if cfg.retryPolicy.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.retryPolicy.MaxRetries)
	}
	if cfg.retryPolicy.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want default 500ms", cfg.retryPolicy.RetryDelay)
	}
	if cfg.timeout != 0 {
		t.Errorf("timeout = %v, want unset", cfg.timeout)
	}
	if cfg.rateRPS != 0 {
		t.Errorf("rateRPS = %v, want unset", cfg.rateRPS)
	}
	if cfg.deliveryStrategy != StrategyWebSocket {
		t.Errorf("deliveryStrategy = %q, want websocket", cfg.deliveryStrategy)
	}
	if cfg.csrfCookieName != "" {
		t.Errorf("csrfCookieName = %q, want unset", cfg.csrfCookieName)
	}
	if cfg.tokenKeys != nil {
		t.Errorf("tokenKeys = %v, want nil", cfg.tokenKeys)
	}
	if cfg.logger == nil {
		t.Error("logger = nil, want retained default")
	}
	if cfg.tokenStore != nil || cfg.httpClient != nil {
		t.Error("nil store/client options were applied")
	}
	if cfg.pollingBackoffMultiplier != 0 {
		t.Errorf("pollingBackoffMultiplier = %v, want unset", cfg.pollingBackoffMultiplier)
	}
	if cfg.pollingJitterFactor != 0 {
		t.Errorf("pollingJitterFactor = %v, want unset", cfg.pollingJitterFactor)
	}
}

func TestWithRetryOn_ReplacesStatusSet(t *testing.T) {
	cfg := newTestConfig(WithRetryOn([]int{418}))

	if !cfg.retryPolicy.RetryableStatus(418) {
		t.Error("418 not retryable after WithRetryOn")
	}
	if cfg.retryPolicy.RetryableStatus(503) {
		t.Error("503 still retryable after WithRetryOn([]int{418})")
	}
}
