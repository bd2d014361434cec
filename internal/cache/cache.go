// Package cache provides a file-based cache for API lookups.
//
// Cache files are JSON, scoped per resource, API base URL and credential
// profile. Default TTL is 5 minutes. Disable with LI_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// EnvDir overrides the cache directory; EnvDisable turns caching off.
const (
	EnvDir     = "LI_CACHE_DIR"
	EnvDisable = "LI_NO_CACHE"
)

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

// Store reads and writes a single cache key (resource+server+profile).
type Store struct {
	path string
	ttl  time.Duration
}

// NewStore creates a Store with the default 5-minute TTL.
func NewStore(dir, key, baseURL, profile string) *Store {
	return NewStoreWithTTL(dir, key, baseURL, profile, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, key, baseURL, profile string, ttl time.Duration) *Store {
	hash := sha1.Sum([]byte(baseURL))
	filename := fmt.Sprintf("%s_%s_%s.json", sanitize(key, "cache"), hex.EncodeToString(hash[:6]), sanitize(profile, "default"))
	return &Store{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Path is the cache file backing the store.
func (s *Store) Path() string { return s.path }

// Get loads cached items into dst. Returns false on miss (no file, expired, disabled).
func (s *Store) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}

	// Member names are personal data; keep the files private.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// Files lists the cache files in dir.
func Files(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsCacheFilename(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names
}

// ClearAll removes all cache files from the directory and reports how
// many were removed. Other files are left alone.
func ClearAll(dir string) int {
	n := 0
	for _, name := range Files(dir) {
		if os.Remove(filepath.Join(dir, name)) == nil {
			n++
		}
	}
	return n
}

// Dir returns LI_CACHE_DIR or the platform cache directory.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvDir)); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "linkedin-cli"), nil
}

func disabled() bool {
	return os.Getenv(EnvDisable) != ""
}

// sanitize maps s onto the filename alphabet [a-z0-9-].
func sanitize(s, fallback string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

func isNameChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-'
}

// IsCacheFilename reports whether name follows "<key>_<12hex>_<profile>.json".
func IsCacheFilename(name string) bool {
	if filepath.Ext(name) != ".json" {
		return false
	}
	parts := strings.Split(strings.TrimSuffix(name, ".json"), "_")
	if len(parts) != 3 || len(parts[1]) != 12 {
		return false
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return false
	}
	for _, part := range []string{parts[0], parts[2]} {
		if part == "" || strings.IndexFunc(part, func(r rune) bool { return !isNameChar(r) }) >= 0 {
			return false
		}
	}
	return true
}
