package matchpoint

import (
	"context"
	"errors"
	"sync"

	"github.com/matchpoint/client-go/internal/api"
	"github.com/matchpoint/client-go/internal/realtime"
	"github.com/matchpoint/client-go/internal/session"
)

// convState tracks which messages of a watched conversation have been
// delivered to subscribers, so reconnection resync never replays them.
type convState struct {
	seen map[string]struct{}
}

// Client is the main Matchpoint client. It owns the resilient API
// client, the session token lifecycle, and the realtime delivery
// strategy. A Client is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	session   *session.Manager
	strategy  realtime.Strategy
	subs      *subscriptionManager
	logger    RequestLogger

	mu      sync.RWMutex
	watched map[string]*convState // keyed by conversation ID
	closed  bool

	strategyStarted bool
	strategyCtx     context.Context
	strategyCancel  context.CancelFunc
}

// New creates a new Matchpoint client for the given base URL.
//
// The session token store is checked at construction: a token written
// under a legacy storage key by an older release is migrated to the
// canonical key so already-logged-in sessions survive an upgrade.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	cfg := &clientConfig{
		retryPolicy:      DefaultRetryPolicy(),
		logger:           &NoopLogger{},
		deliveryStrategy: StrategyWebSocket,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	store := cfg.tokenStore
	if store == nil {
		store = session.NewMemoryStore()
	}
	sess, err := session.NewManager(store, cfg.tokenKeys...)
	if err != nil {
		return nil, err
	}

	apiClient, err := buildAPIClient(baseURL, cfg, sess)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiClient: apiClient,
		session:   sess,
		strategy:  createDeliveryStrategy(cfg, apiClient),
		subs:      newSubscriptionManager(),
		logger:    cfg.logger,
		watched:   make(map[string]*convState),
	}
	c.strategy.OnReconnect(c.resyncWatched)

	return c, nil
}

// buildAPIClient creates and configures an API client from the config.
func buildAPIClient(baseURL string, cfg *clientConfig, sess *session.Manager) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithRetryPolicy(cfg.retryPolicy),
		api.WithLogger(cfg.logger),
		api.WithTokenSource(func() (string, bool) {
			token, err := sess.Token()
			return token, err == nil && token != ""
		}),
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.rateRPS > 0 {
		apiOpts = append(apiOpts, api.WithRateLimit(cfg.rateRPS, cfg.rateBurst))
	}
	if cfg.csrfCookieName != "" {
		apiOpts = append(apiOpts, api.WithCSRFCookieName(cfg.csrfCookieName))
	}

	return api.New(baseURL, apiOpts...)
}

// createDeliveryStrategy creates a delivery strategy from the config.
func createDeliveryStrategy(cfg *clientConfig, apiClient *api.Client) realtime.Strategy {
	deliveryCfg := realtime.Config{
		APIClient:                apiClient,
		Logger:                   cfg.logger,
		PollingInitialInterval:   cfg.pollingInitialInterval,
		PollingMaxBackoff:        cfg.pollingMaxBackoff,
		PollingBackoffMultiplier: cfg.pollingBackoffMultiplier,
		PollingJitterFactor:      cfg.pollingJitterFactor,
	}
	switch cfg.deliveryStrategy {
	case StrategyPolling:
		return realtime.NewPollingStrategy(deliveryCfg)
	default:
		return realtime.NewWebSocketStrategy(deliveryCfg)
	}
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// ensureStrategy starts the delivery strategy on first use.
func (c *Client) ensureStrategy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if c.strategyStarted {
		return nil
	}

	c.strategyCtx, c.strategyCancel = context.WithCancel(context.Background())
	if err := c.strategy.Start(c.strategyCtx, c.handleEvent); err != nil {
		c.strategyCancel()
		return err
	}
	c.strategyStarted = true
	return nil
}

// handleEvent processes incoming message events from the delivery
// strategy and fans them out to subscribers.
func (c *Client) handleEvent(_ context.Context, event *api.MessageEvent) error {
	if event == nil {
		return nil
	}

	c.mu.Lock()
	state := c.watched[event.ConversationID]
	if state != nil {
		if _, seen := state.seen[event.Message.ID]; seen {
			c.mu.Unlock()
			return nil
		}
		state.seen[event.Message.ID] = struct{}{}
	}
	c.mu.Unlock()

	msg := event.Message
	c.subs.notify(event.ConversationID, &msg)
	return nil
}

// resyncWatched fetches messages for all watched conversations and
// notifies subscribers of any that arrived while the realtime
// connection was down.
func (c *Client) resyncWatched(ctx context.Context) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	ids := make([]string, 0, len(c.watched))
	for id := range c.watched {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	for _, id := range ids {
		page, err := c.apiClient.Messages(ctx, id, "", 0)
		if err != nil {
			c.logger.Warnf("resync failed for conversation %s: %v", id, err)
			continue
		}

		for _, msg := range page.Messages {
			c.mu.Lock()
			state := c.watched[id]
			if state == nil {
				c.mu.Unlock()
				break
			}
			if _, seen := state.seen[msg.ID]; seen {
				c.mu.Unlock()
				continue
			}
			state.seen[msg.ID] = struct{}{}
			c.mu.Unlock()

			msg := msg
			c.subs.notify(id, &msg)
		}
	}
}

// registerConversation adds a conversation to the watched set and the
// delivery strategy.
func (c *Client) registerConversation(conversationID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	if c.watched[conversationID] == nil {
		c.watched[conversationID] = &convState{seen: make(map[string]struct{})}
	}
	c.mu.Unlock()

	return c.strategy.AddConversation(conversationID)
}

// releaseConversation drops a conversation from the watched set once no
// subscribers remain.
func (c *Client) releaseConversation(conversationID string) {
	if c.subs.count(conversationID) > 0 {
		return
	}

	c.mu.Lock()
	delete(c.watched, conversationID)
	c.mu.Unlock()

	if err := c.strategy.RemoveConversation(conversationID); err != nil {
		c.logger.Debugf("remove conversation %s from strategy: %v", conversationID, err)
	}
}

// wrap converts an internal error to its public form, tagging it with
// the resource type and destroying the stored session token when the
// backend reports it invalid or expired.
func (c *Client) wrap(err error, rt ResourceType) error {
	wrapped := wrapError(err, rt)
	if wrapped != nil {
		var apiErr *APIError
		if errors.As(wrapped, &apiErr) && apiErr.StatusCode == 401 {
			if clearErr := c.session.ClearToken(); clearErr != nil {
				c.logger.Warnf("clear session token after 401: %v", clearErr)
			}
		}
	}
	return wrapped
}

// Close closes the client and releases realtime resources. The stored
// session token is left intact; call Logout to end the session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.strategyCancel != nil {
		c.strategyCancel()
	}
	if c.strategyStarted {
		if err := c.strategy.Stop(); err != nil {
			return err
		}
	}

	c.watched = make(map[string]*convState)
	c.subs.clear()

	return nil
}
