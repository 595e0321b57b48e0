// Package cache is a file-backed store for raw fetched catalog data, so the
// scoring logic can change and rerun without re-fetching. One JSON file per
// user, expiring after a TTL recorded in the file itself.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultTTLHours is how long cached data stays fresh unless overridden.
const DefaultTTLHours = 24

var unsafeKeyChars = regexp.MustCompile(`[^\w\-]`)

// envelope is the flat on-disk record wrapped around a payload.
type envelope struct {
	CachedAt string `json:"cached_at"`
	TTLHours int    `json:"ttl_hours"`
	UserID   string `json:"user_id"`
}

// Cache stores one entry file per sanitized user key under dir.
type Cache struct {
	dir string
	now func() time.Time
}

func New(dir string) *Cache {
	return &Cache{dir: dir, now: time.Now}
}

// Path returns the entry file for a raw user key. Characters outside
// [A-Za-z0-9_-] are replaced with underscores; collisions between distinct
// keys are an accepted risk.
func (c *Cache) Path(userKey string) string {
	safe := unsafeKeyChars.ReplaceAllString(userKey, "_")
	return filepath.Join(c.dir, safe+".json")
}

// Load reads the cached payload for a user into payload. ok is false when
// the entry is missing, expired, or unreadable; corrupt entries are treated
// as absent with a warning, never an error.
func (c *Cache) Load(userKey string, payload any) (cachedAt time.Time, ok bool) {
	raw, err := os.ReadFile(c.Path(userKey))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: could not read cache for %q: %v\n", userKey, err)
		}
		return time.Time{}, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse cache for %q: %v\n", userKey, err)
		return time.Time{}, false
	}

	cachedAt, err = time.Parse(time.RFC3339, env.CachedAt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid cache timestamp for %q: %v\n", userKey, err)
		return time.Time{}, false
	}

	ttl := env.TTLHours
	if ttl == 0 {
		ttl = DefaultTTLHours
	}
	if c.now().Sub(cachedAt) > time.Duration(ttl)*time.Hour {
		fmt.Fprintf(os.Stderr, "Cache expired for user %s\n", userKey)
		return time.Time{}, false
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not decode cache for %q: %v\n", userKey, err)
		return time.Time{}, false
	}
	return cachedAt, true
}

// Save writes the payload for a user with the envelope fields folded in flat.
// Payload fields take precedence over the envelope's user_id default.
func (c *Cache) Save(userKey string, payload any, ttlHours int) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	record := map[string]json.RawMessage{
		"cached_at": mustMarshal(c.now().UTC().Format(time.RFC3339)),
		"ttl_hours": mustMarshal(ttlHours),
		"user_id":   mustMarshal(userKey),
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return fmt.Errorf("flattening payload: %w", err)
	}
	for k, v := range fields {
		record[k] = v
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if err := os.WriteFile(c.Path(userKey), out, 0o644); err != nil {
		return fmt.Errorf("writing cache for %q: %w", userKey, err)
	}
	return nil
}

// Clear removes one user's entry. Removing a missing entry is not an error.
func (c *Cache) Clear(userKey string) error {
	err := os.Remove(c.Path(userKey))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing cache for %q: %w", userKey, err)
	}
	return nil
}

// ClearAll removes every entry file in the cache directory.
func (c *Cache) ClearAll() error {
	entries, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	for _, entry := range entries {
		if err := os.Remove(entry); err != nil {
			return fmt.Errorf("removing %s: %w", entry, err)
		}
	}
	return nil
}

func mustMarshal(v any) json.RawMessage {
	out, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return out
}
