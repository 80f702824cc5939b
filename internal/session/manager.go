package session

import (
	"errors"
	"sync"
)

// Storage keys checked in priority order. The first is canonical; the
// rest are legacy names kept readable so sessions written by older
// releases survive an upgrade.
const (
	CanonicalTokenKey = "matchpoint.session.token"
	LegacyTokenKey    = "auth_token"
)

// Manager owns the session token's lifecycle against a Store. It checks
// an ordered list of candidate keys at construction and migrates any
// value found under a legacy key to the canonical one, so the rest of
// the client only ever deals with a single key.
type Manager struct {
	store Store
	keys  []string // keys[0] is canonical
	mu    sync.Mutex
}

// NewManager creates a manager over store. keys is the ordered candidate
// list; when empty, the default canonical+legacy pair is used. Any value
// found under a legacy key is written back to the canonical key once and
// the legacy keys are deleted.
func NewManager(store Store, keys ...string) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if len(keys) == 0 {
		keys = []string{CanonicalTokenKey, LegacyTokenKey}
	}

	m := &Manager{store: store, keys: keys}
	if err := m.migrate(); err != nil {
		return nil, err
	}
	return m, nil
}

// migrate promotes the highest-priority stored value to the canonical
// key and clears the legacy keys.
func (m *Manager) migrate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found string
	foundAt := -1
	for i, key := range m.keys {
		value, err := m.store.Get(key)
		if errors.Is(err, ErrTokenNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		found = value
		foundAt = i
		break
	}

	if foundAt <= 0 {
		return nil
	}

	if err := m.store.Set(m.keys[0], found); err != nil {
		return err
	}
	for _, key := range m.keys[1:] {
		if err := m.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// SetToken stores the session token under the canonical key.
func (m *Manager) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Set(m.keys[0], token)
}

// Token returns the current session token, or ErrTokenNotFound when no
// session is active.
func (m *Manager) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Get(m.keys[0])
}

// ClearToken erases the token from every candidate key, so a stale
// legacy value can never resurrect a logged-out session.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.keys {
		if err := m.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
