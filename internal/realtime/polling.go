package realtime

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/matchpoint/client-go/internal/api"
)

// PollingStrategy implements message delivery by polling each watched
// conversation's sync state. The interval backs off while a conversation
// is idle and resets when a change is detected.
type PollingStrategy struct {
	apiClient     *api.Client
	logger        api.RequestLogger
	conversations map[string]*polledConversation
	handler       EventHandler
	cancel        context.CancelFunc
	mu            sync.RWMutex
	started       bool

	initialInterval time.Duration
	maxBackoff      time.Duration
	multiplier      float64
	jitterFactor    float64
}

type polledConversation struct {
	id       string
	lastHash string
	seen     map[string]struct{}
	interval time.Duration
	primed   bool
}

// NewPollingStrategy creates a new polling strategy.
func NewPollingStrategy(cfg Config) *PollingStrategy {
	logger := cfg.Logger
	if logger == nil {
		logger = &api.NoopLogger{}
	}

	p := &PollingStrategy{
		apiClient:       cfg.APIClient,
		logger:          logger,
		conversations:   make(map[string]*polledConversation),
		initialInterval: cfg.PollingInitialInterval,
		maxBackoff:      cfg.PollingMaxBackoff,
		multiplier:      cfg.PollingBackoffMultiplier,
		jitterFactor:    cfg.PollingJitterFactor,
	}
	if p.initialInterval <= 0 {
		p.initialInterval = DefaultPollingInitialInterval
	}
	if p.maxBackoff <= 0 {
		p.maxBackoff = DefaultPollingMaxBackoff
	}
	if p.multiplier <= 1 {
		p.multiplier = DefaultPollingBackoffMultiplier
	}
	if p.jitterFactor < 0 {
		p.jitterFactor = DefaultPollingJitterFactor
	}
	return p
}

// Name returns the strategy name.
func (p *PollingStrategy) Name() string {
	return "polling"
}

// Start begins polling watched conversations.
func (p *PollingStrategy) Start(ctx context.Context, handler EventHandler) error {
	p.mu.Lock()
	p.handler = handler
	p.started = true
	p.mu.Unlock()

	ctx, p.cancel = context.WithCancel(ctx)
	go p.pollLoop(ctx)
	return nil
}

// Stop shuts down the strategy. Idempotent.
func (p *PollingStrategy) Stop() error {
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

// AddConversation begins polling the conversation on the next cycle.
func (p *PollingStrategy) AddConversation(conversationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.conversations[conversationID]; exists {
		return nil
	}
	p.conversations[conversationID] = &polledConversation{
		id:       conversationID,
		seen:     make(map[string]struct{}),
		interval: p.initialInterval,
	}
	return nil
}

// RemoveConversation stops polling the conversation.
func (p *PollingStrategy) RemoveConversation(conversationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conversations, conversationID)
	return nil
}

// OnReconnect is a no-op: polling has no persistent connection.
func (p *PollingStrategy) OnReconnect(_ func(ctx context.Context)) {}

func (p *PollingStrategy) pollLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		minWait := p.pollAll(ctx)
		if minWait <= 0 {
			minWait = p.initialInterval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(minWait):
		}
	}
}

// pollAll polls every watched conversation and returns the minimum
// jittered wait until the next cycle.
func (p *PollingStrategy) pollAll(ctx context.Context) time.Duration {
	p.mu.RLock()
	conversations := make([]*polledConversation, 0, len(p.conversations))
	for _, conv := range p.conversations {
		conversations = append(conversations, conv)
	}
	p.mu.RUnlock()

	if len(conversations) == 0 {
		return p.initialInterval
	}

	for _, conv := range conversations {
		p.pollConversation(ctx, conv)
	}

	var minWait time.Duration
	for _, conv := range conversations {
		wait := p.waitDuration(conv)
		if minWait == 0 || wait < minWait {
			minWait = wait
		}
	}
	return minWait
}

// pollConversation checks the conversation's sync hash and, when it
// changed, fetches messages and emits events for unseen ones. The first
// successful poll only seeds the seen set so history is not replayed to
// new watchers.
func (p *PollingStrategy) pollConversation(ctx context.Context, conv *polledConversation) {
	if p.apiClient == nil {
		return
	}

	state, err := p.apiClient.GetConversationSync(ctx, conv.id)
	if err != nil {
		p.logger.Debugf("polling: sync check failed for conversation %s: %v", conv.id, err)
		return
	}

	if state.MessagesHash == conv.lastHash {
		newInterval := time.Duration(float64(conv.interval) * p.multiplier)
		if newInterval > p.maxBackoff {
			newInterval = p.maxBackoff
		}
		conv.interval = newInterval
		return
	}

	conv.lastHash = state.MessagesHash
	conv.interval = p.initialInterval

	page, err := p.apiClient.Messages(ctx, conv.id, "", 0)
	if err != nil {
		p.logger.Debugf("polling: fetch failed for conversation %s: %v", conv.id, err)
		return
	}

	p.mu.RLock()
	handler := p.handler
	p.mu.RUnlock()

	for _, msg := range page.Messages {
		if _, seen := conv.seen[msg.ID]; seen {
			continue
		}
		conv.seen[msg.ID] = struct{}{}

		if !conv.primed || handler == nil {
			continue
		}
		event := &api.MessageEvent{
			ConversationID: conv.id,
			Message:        msg,
		}
		if err := handler(ctx, event); err != nil {
			p.logger.Warnf("polling: event handler failed for conversation %s: %v", conv.id, err)
		}
	}
	conv.primed = true
}

func (p *PollingStrategy) waitDuration(conv *polledConversation) time.Duration {
	jitter := time.Duration(rand.Float64() * p.jitterFactor * float64(conv.interval))
	return conv.interval + jitter
}
