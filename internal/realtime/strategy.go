// Package realtime delivers new-message events to the client, either
// over the backend's WebSocket push channel or by adaptive polling.
package realtime

import (
	"context"
	"time"

	"github.com/matchpoint/client-go/internal/api"
)

// EventHandler is invoked for each new message event. Return an error to
// signal processing failure; errors are logged, not propagated.
type EventHandler func(ctx context.Context, event *api.MessageEvent) error

// Strategy defines the interface for message delivery mechanisms.
// Implementations include WebSocketStrategy and PollingStrategy.
//
// The typical lifecycle is:
//  1. Create a strategy with NewXxxStrategy(cfg)
//  2. Call Start(ctx, handler) to begin receiving events
//  3. Call AddConversation/RemoveConversation as threads are watched
//  4. Call Stop() when done to release resources
//
// All implementations are safe for concurrent use.
type Strategy interface {
	// Start begins listening for message events. The handler is called
	// for each new message. Start returns immediately; delivery is
	// asynchronous.
	Start(ctx context.Context, handler EventHandler) error

	// Stop shuts down the strategy. After Stop returns no more events
	// are delivered. Stop is idempotent.
	Stop() error

	// AddConversation starts delivering events for the conversation.
	// The WebSocket channel carries every conversation the session can
	// see, so for that strategy this only records intent; polling
	// begins polling the conversation on its next cycle.
	AddConversation(conversationID string) error

	// RemoveConversation stops delivering events for the conversation.
	RemoveConversation(conversationID string) error

	// Name returns the strategy name for logging. "websocket" or "polling".
	Name() string

	// OnReconnect sets a callback invoked after each successful
	// reconnection, so the caller can resync messages that arrived
	// during the reconnection window. Polling has no persistent
	// connection and never invokes it.
	OnReconnect(fn func(ctx context.Context))
}

// Config holds configuration shared by delivery strategies.
type Config struct {
	// APIClient is used for polling and for deriving the WebSocket URL
	// and credentials.
	APIClient *api.Client

	// Logger receives connection and delivery diagnostics. Nil means
	// no logging.
	Logger api.RequestLogger

	// PollingInitialInterval is the starting interval between polls.
	PollingInitialInterval time.Duration

	// PollingMaxBackoff is the maximum interval between polls.
	PollingMaxBackoff time.Duration

	// PollingBackoffMultiplier grows the interval after each poll with
	// no changes.
	PollingBackoffMultiplier float64

	// PollingJitterFactor is the maximum random jitter added to poll
	// intervals, as a fraction of the interval.
	PollingJitterFactor float64
}

// Default delivery configuration values.
const (
	DefaultPollingInitialInterval   = 2 * time.Second
	DefaultPollingMaxBackoff        = 30 * time.Second
	DefaultPollingBackoffMultiplier = 1.5
	DefaultPollingJitterFactor      = 0.3
)
