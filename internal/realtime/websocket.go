package realtime

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matchpoint/client-go/internal/api"
)

// WebSocket connection tuning.
const (
	WSReconnectInitial      = 1 * time.Second
	WSReconnectMax          = 30 * time.Second
	WSMaxReconnectAttempts  = 10
	WSReconnectJitterFactor = 0.3

	wsPingInterval  = 30 * time.Second
	wsPongTimeout   = 60 * time.Second
	wsWriteTimeout  = 10 * time.Second
	wsHandshakeWait = 15 * time.Second
)

// WebSocketStrategy implements message delivery via the backend's
// WebSocket event channel. The socket carries events for every
// conversation the session can see; AddConversation/RemoveConversation
// only track intent, and filtering happens in the subscriber layer.
type WebSocketStrategy struct {
	apiClient     *api.Client
	logger        api.RequestLogger
	dialer        *websocket.Dialer
	handler       EventHandler
	conversations map[string]struct{}
	cancel        context.CancelFunc
	mu            sync.RWMutex
	started       bool
	attempts      int
	onReconnect   func(ctx context.Context)
	lastError     error
}

// NewWebSocketStrategy creates a new WebSocket strategy.
func NewWebSocketStrategy(cfg Config) *WebSocketStrategy {
	logger := cfg.Logger
	if logger == nil {
		logger = &api.NoopLogger{}
	}
	return &WebSocketStrategy{
		apiClient: cfg.APIClient,
		logger:    logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: wsHandshakeWait,
		},
		conversations: make(map[string]struct{}),
	}
}

// Name returns the strategy name.
func (s *WebSocketStrategy) Name() string {
	return "websocket"
}

// LastError returns the last connection error, if any.
func (s *WebSocketStrategy) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Start begins listening for message events.
func (s *WebSocketStrategy) Start(ctx context.Context, handler EventHandler) error {
	if s.apiClient == nil {
		return fmt.Errorf("websocket strategy: API client is nil")
	}

	s.mu.Lock()
	s.handler = handler
	s.started = true
	s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	go s.connectLoop(ctx)
	return nil
}

// Stop shuts down the strategy. Idempotent.
func (s *WebSocketStrategy) Stop() error {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// AddConversation records a watched conversation.
func (s *WebSocketStrategy) AddConversation(conversationID string) error {
	s.mu.Lock()
	s.conversations[conversationID] = struct{}{}
	s.mu.Unlock()
	return nil
}

// RemoveConversation forgets a watched conversation.
func (s *WebSocketStrategy) RemoveConversation(conversationID string) error {
	s.mu.Lock()
	delete(s.conversations, conversationID)
	s.mu.Unlock()
	return nil
}

// OnReconnect sets the reconnection callback.
func (s *WebSocketStrategy) OnReconnect(fn func(ctx context.Context)) {
	s.mu.Lock()
	s.onReconnect = fn
	s.mu.Unlock()
}

func (s *WebSocketStrategy) connectLoop(ctx context.Context) {
	connectedBefore := false

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := s.connect(ctx, connectedBefore)
		if err == nil {
			// Clean shutdown
			return
		}
		connectedBefore = true

		s.mu.Lock()
		s.lastError = err
		s.attempts++
		attempts := s.attempts
		s.mu.Unlock()

		if attempts >= WSMaxReconnectAttempts {
			s.logger.Errorf("websocket: giving up after %d reconnect attempts: %v", attempts, err)
			return
		}

		wait := reconnectBackoff(attempts)
		s.logger.Debugf("websocket: reconnecting in %v (attempt %d): %v", wait, attempts, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// connect dials the event channel and runs the read loop until the
// connection drops or ctx is cancelled. A nil return means a clean
// shutdown; any error triggers a reconnect.
func (s *WebSocketStrategy) connect(ctx context.Context, isReconnect bool) error {
	header := http.Header{}
	if token, ok := s.apiClient.BearerToken(); ok && token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := s.dialer.DialContext(ctx, wsURL(s.apiClient.BaseURL())+"/api/events", header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return fmt.Errorf("dial event channel: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("dial event channel: %w", err)
	}
	defer conn.Close()

	// Connection established: reset the backoff counter and let the
	// owner resync anything that arrived while disconnected.
	s.mu.Lock()
	s.attempts = 0
	s.lastError = nil
	onReconnect := s.onReconnect
	s.mu.Unlock()

	if isReconnect && onReconnect != nil {
		go onReconnect(ctx)
	}

	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go s.pingLoop(pingCtx, conn)

	for {
		var event api.MessageEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		s.dispatch(ctx, &event)
	}
}

func (s *WebSocketStrategy) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (s *WebSocketStrategy) dispatch(ctx context.Context, event *api.MessageEvent) {
	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()

	if handler == nil || event.ConversationID == "" {
		return
	}
	if err := handler(ctx, event); err != nil {
		s.logger.Warnf("websocket: event handler failed for conversation %s: %v", event.ConversationID, err)
	}
}

// reconnectBackoff computes the wait before reconnect attempt n
// (1-indexed): exponential from WSReconnectInitial, capped, jittered.
func reconnectBackoff(attempt int) time.Duration {
	wait := WSReconnectInitial * time.Duration(1<<(attempt-1))
	if wait > WSReconnectMax || wait <= 0 {
		wait = WSReconnectMax
	}
	jitter := time.Duration(rand.Float64() * WSReconnectJitterFactor * float64(wait))
	return wait + jitter
}

// wsURL converts an http(s) base URL to its ws(s) equivalent.
func wsURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}
