package session

import (
	"errors"
	"testing"
)

func TestManager_RequiresStore(t *testing.T) {
	if _, err := NewManager(nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestManager_SetGetClear(t *testing.T) {
	m, err := NewManager(NewMemoryStore())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if _, err := m.Token(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Token() on fresh manager error = %v, want ErrTokenNotFound", err)
	}

	if err := m.SetToken("abc123"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	token, err := m.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "abc123" {
		t.Errorf("Token() = %q, want abc123", token)
	}

	if err := m.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if _, err := m.Token(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Token() after clear error = %v, want ErrTokenNotFound", err)
	}
}

func TestManager_MigratesLegacyKey(t *testing.T) {
	store := NewMemoryStore()
	store.Set(LegacyTokenKey, "legacy-token")

	m, err := NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	token, err := m.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "legacy-token" {
		t.Errorf("Token() = %q, want legacy-token", token)
	}

	// The value moved to the canonical key and the legacy key is gone.
	if value, err := store.Get(CanonicalTokenKey); err != nil || value != "legacy-token" {
		t.Errorf("canonical key = %q, %v; want legacy-token, nil", value, err)
	}
	if _, err := store.Get(LegacyTokenKey); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("legacy key error = %v, want ErrTokenNotFound", err)
	}
}

func TestManager_CanonicalKeyWinsOverLegacy(t *testing.T) {
	store := NewMemoryStore()
	store.Set(CanonicalTokenKey, "current")
	store.Set(LegacyTokenKey, "stale")

	m, err := NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	token, err := m.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "current" {
		t.Errorf("Token() = %q, want current", token)
	}
}

func TestManager_ClearRemovesStaleLegacyValue(t *testing.T) {
	store := NewMemoryStore()

	m, err := NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.SetToken("abc"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	// A stale value written under the legacy key after construction
	// must not resurrect the session once cleared.
	store.Set(LegacyTokenKey, "stale")

	if err := m.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if _, err := m.Token(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Token() after clear error = %v, want ErrTokenNotFound", err)
	}
	if _, err := store.Get(LegacyTokenKey); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("legacy key survived ClearToken")
	}
}

func TestManager_CustomKeys(t *testing.T) {
	store := NewMemoryStore()
	store.Set("old.key", "v1")

	m, err := NewManager(store, "new.key", "old.key")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	token, err := m.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "v1" {
		t.Errorf("Token() = %q, want v1", token)
	}
	if value, _ := store.Get("new.key"); value != "v1" {
		t.Errorf("migration did not write canonical key, got %q", value)
	}
}
