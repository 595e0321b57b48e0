package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testPayload struct {
	UserID string `json:"user_id"`
	Value  string `json:"value"`
}

func TestSaveAndLoad(t *testing.T) {
	c := New(t.TempDir())

	saved := testPayload{UserID: "alice", Value: "hello"}
	if err := c.Save("alice", saved, 24); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var loaded testPayload
	cachedAt, ok := c.Load("alice", &loaded)
	if !ok {
		t.Fatal("Load reported a fresh entry as absent")
	}
	if loaded != saved {
		t.Errorf("Load returned %+v, want %+v", loaded, saved)
	}
	if cachedAt.IsZero() {
		t.Errorf("Load returned a zero cached-at time")
	}
}

func TestLoadMissing(t *testing.T) {
	c := New(t.TempDir())

	var payload testPayload
	if _, ok := c.Load("nobody", &payload); ok {
		t.Errorf("Load reported a missing entry as present")
	}
}

func TestLoadExpired(t *testing.T) {
	c := New(t.TempDir())
	if err := c.Save("alice", testPayload{UserID: "alice"}, 1); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	var payload testPayload
	if _, ok := c.Load("alice", &payload); ok {
		t.Errorf("Load returned an entry past its TTL")
	}
}

func TestLoadZeroTTLUsesDefault(t *testing.T) {
	c := New(t.TempDir())
	if err := c.Save("alice", testPayload{UserID: "alice"}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add((DefaultTTLHours - 1) * time.Hour) }
	var payload testPayload
	if _, ok := c.Load("alice", &payload); !ok {
		t.Errorf("entry with ttl 0 expired before the default TTL")
	}

	c.now = func() time.Time { return time.Now().Add((DefaultTTLHours + 1) * time.Hour) }
	if _, ok := c.Load("alice", &payload); ok {
		t.Errorf("entry with ttl 0 survived past the default TTL")
	}
}

func TestLoadCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "alice.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt entry: %v", err)
	}

	var payload testPayload
	if _, ok := c.Load("alice", &payload); ok {
		t.Errorf("Load reported a corrupt entry as present")
	}
}

func TestPathSanitizesKey(t *testing.T) {
	c := New("/cache")

	got := c.Path("../weird user!")
	if got != "/cache/___weird_user_.json" {
		t.Errorf("Path(%q) = %q, want /cache/___weird_user_.json", "../weird user!", got)
	}
	if !strings.HasPrefix(got, "/cache/") {
		t.Errorf("Path escaped the cache directory: %q", got)
	}
}

func TestPathKeepsSafeCharacters(t *testing.T) {
	c := New("/cache")
	if got := c.Path("alice_b-2"); got != "/cache/alice_b-2.json" {
		t.Errorf("Path = %q, want /cache/alice_b-2.json", got)
	}
}

func TestClear(t *testing.T) {
	c := New(t.TempDir())
	if err := c.Save("alice", testPayload{UserID: "alice"}, 24); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := c.Clear("alice"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	var payload testPayload
	if _, ok := c.Load("alice", &payload); ok {
		t.Errorf("entry still present after Clear")
	}

	if err := c.Clear("alice"); err != nil {
		t.Errorf("Clear of a missing entry returned error: %v", err)
	}
}

func TestClearAll(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	for _, user := range []string{"alice", "bob"} {
		if err := c.Save(user, testPayload{UserID: user}, 24); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := c.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries remain after ClearAll", len(entries))
	}
}
