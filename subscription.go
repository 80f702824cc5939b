package matchpoint

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// subscription represents an active message subscription.
type subscription struct {
	id             string
	conversationID string
	callback       func(*Message)
	active         atomic.Bool
}

// subscriptionManager handles message subscriptions with safe lifecycle
// management. Callbacks are never invoked after unsubscription completes.
type subscriptionManager struct {
	mu     sync.RWMutex
	subs   map[string]map[string]*subscription // conversationID -> subID -> subscription
	nextID atomic.Uint64
}

func newSubscriptionManager() *subscriptionManager {
	return &subscriptionManager{
		subs: make(map[string]map[string]*subscription),
	}
}

// subscribe registers a callback for messages arriving in the given
// conversation. The callback is invoked synchronously. The returned
// unsubscribe function must be called to clean up.
func (m *subscriptionManager) subscribe(conversationID string, callback func(*Message)) func() {
	id := strconv.FormatUint(m.nextID.Add(1), 10)

	sub := &subscription{
		id:             id,
		conversationID: conversationID,
		callback:       callback,
	}
	sub.active.Store(true)

	m.mu.Lock()
	if m.subs[conversationID] == nil {
		m.subs[conversationID] = make(map[string]*subscription)
	}
	m.subs[conversationID][id] = sub
	m.mu.Unlock()

	return func() {
		m.unsubscribe(conversationID, id)
	}
}

// unsubscribe removes a subscription. Safe to call multiple times.
func (m *subscriptionManager) unsubscribe(conversationID, subID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if convSubs, ok := m.subs[conversationID]; ok {
		if sub, ok := convSubs[subID]; ok {
			sub.active.Store(false) // Mark inactive before removing
			delete(convSubs, subID)
			if len(convSubs) == 0 {
				delete(m.subs, conversationID)
			}
		}
	}
}

// count returns the number of active subscriptions for a conversation.
func (m *subscriptionManager) count(conversationID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[conversationID])
}

// notify calls all registered callbacks for the given conversation.
// Callbacks are invoked after releasing the read lock; the active flag
// is checked first to prevent calls after unsubscribe.
func (m *subscriptionManager) notify(conversationID string, msg *Message) {
	m.mu.RLock()
	convSubs := m.subs[conversationID]
	if len(convSubs) == 0 {
		m.mu.RUnlock()
		return
	}

	subs := make([]*subscription, 0, len(convSubs))
	for _, sub := range convSubs {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.callback(msg)
		}
	}
}

// clear removes all subscriptions. Called during Client.Close().
func (m *subscriptionManager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, convSubs := range m.subs {
		for _, sub := range convSubs {
			sub.active.Store(false)
		}
	}
	m.subs = make(map[string]map[string]*subscription)
}
