package matchpoint

import "github.com/matchpoint/client-go/internal/session"

// TokenStore is durable key-value storage for session tokens.
// Implementations must be safe for concurrent use; Get returns
// ErrTokenNotFound when the key holds no value.
type TokenStore = session.Store

// ErrTokenNotFound indicates a token store key holds no value.
var ErrTokenNotFound = session.ErrTokenNotFound

// NewMemoryTokenStore returns an in-memory TokenStore. Tokens do not
// survive the process; it is the default store.
func NewMemoryTokenStore() TokenStore {
	return session.NewMemoryStore()
}

// NewFileTokenStore returns a TokenStore backed by a JSON file at path,
// written with 0600 permissions.
func NewFileTokenStore(path string) TokenStore {
	return session.NewFileStore(path)
}
