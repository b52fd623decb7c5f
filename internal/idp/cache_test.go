package idp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionCache(t *testing.T) {
	open := func(t *testing.T) *SessionCache {
		t.Helper()
		cache, err := OpenSessionCache(filepath.Join(t.TempDir(), "sessions.db"))
		if err != nil {
			t.Fatalf("failed to open cache: %v", err)
		}
		t.Cleanup(func() { cache.Close() })
		return cache
	}

	t.Run("empty cache loads nothing", func(t *testing.T) {
		cache := open(t)
		saved, err := cache.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved != nil {
			t.Errorf("expected no session, got %#v", saved)
		}
	})

	t.Run("store and load round trip", func(t *testing.T) {
		cache := open(t)
		if err := cache.Store("alice", "refresh-1"); err != nil {
			t.Fatalf("failed to store: %v", err)
		}

		saved, err := cache.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if saved == nil {
			t.Fatal("expected a session")
		}
		if saved.Username != "alice" || saved.RefreshToken != "refresh-1" {
			t.Errorf("unexpected session: %#v", saved)
		}
		if saved.UpdatedAt.IsZero() {
			t.Error("expected updated_at to be set")
		}
	})

	t.Run("store replaces the previous session", func(t *testing.T) {
		cache := open(t)
		if err := cache.Store("alice", "refresh-1"); err != nil {
			t.Fatalf("failed to store: %v", err)
		}
		if err := cache.Store("bob", "refresh-2"); err != nil {
			t.Fatalf("failed to replace: %v", err)
		}

		saved, err := cache.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if saved.Username != "bob" || saved.RefreshToken != "refresh-2" {
			t.Errorf("expected the replacement, got %#v", saved)
		}
	})

	t.Run("clear removes the session", func(t *testing.T) {
		cache := open(t)
		if err := cache.Store("alice", "refresh-1"); err != nil {
			t.Fatalf("failed to store: %v", err)
		}
		if err := cache.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		saved, err := cache.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if saved != nil {
			t.Errorf("expected no session after clear, got %#v", saved)
		}
	})

	t.Run("cache file is owner-only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sessions.db")
		cache, err := OpenSessionCache(path)
		if err != nil {
			t.Fatalf("failed to open cache: %v", err)
		}
		defer cache.Close()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat cache: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected permissions 0600, got %o", perm)
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "sessions.db")
		cache, err := OpenSessionCache(path)
		if err != nil {
			t.Fatalf("failed to open cache: %v", err)
		}
		cache.Close()
	})
}
