// Package session manages the durable session token: a key-value Store
// abstraction with in-memory and file-backed implementations, and a
// Manager that owns the candidate storage keys and their migration.
package session

import (
	"errors"
	"sync"
)

// ErrTokenNotFound indicates the requested key holds no value.
var ErrTokenNotFound = errors.New("token not found")

// Store is durable key-value storage for session tokens. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStore is an in-memory Store. Tokens do not survive process
// restarts; it is the default when no durable store is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key, or ErrTokenNotFound.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
