package twitterapi

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lukechampine.com/blake3"
)

// Cache persists collection results as one JSON document per
// (kind, subject, key) triple: {dir}/{kind}/{subject}/{key}.json.
// Entries are overwritten on save and live until rewritten; there is
// no expiry. Concurrent writers race last-writer-wins.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir, or the default
// ~/.twitterapi-go/cache when dir is empty.
func NewCache(dir string) *Cache {
	return &Cache{dir: resolveCacheDir(dir)}
}

func resolveCacheDir(override string) string {
	if override != "" {
		return override
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".twitterapi-go", "cache")
}

// CacheKey derives the stable on-disk key for a query text and limit:
// the first 12 hex characters of a BLAKE3 digest. The digest covers the
// canonical query text, never the raw parameter set, so two differently
// built filters producing the same text share an entry while differing
// text practically never collides. The limit is folded in because it
// changes the size of the stored result set.
func CacheKey(queryText string, limit int) string {
	sum := blake3.Sum256(fmt.Appendf(nil, "%s\n%d", queryText, limit))
	return hex.EncodeToString(sum[:])[:12]
}

// CacheMetadata describes how a cached result was produced. It is
// stored for introspection only; key derivation never reads it back.
type CacheMetadata struct {
	Subject     string    `json:"subject"`
	Query       string    `json:"query"`
	Limit       int       `json:"limit"`
	PageSize    int       `json:"page_size"`
	StartCursor string    `json:"start_cursor,omitempty"`
	Key         string    `json:"key"`
	ItemCount   int       `json:"item_count"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// entryPath returns the on-disk location for a cache entry.
func (c *Cache) entryPath(kind ResultKind, subject, key string) string {
	return filepath.Join(c.dir, string(kind), normalizeHandle(subject), key+".json")
}

// Save writes a cache entry, replacing any previous entry for the same
// key, and returns the file path written.
func (c *Cache) Save(kind ResultKind, subject, key string, res *CollectionResult, meta CacheMetadata) (string, error) {
	path := c.entryPath(kind, subject, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	items := res.Items
	if items == nil {
		items = []Item{}
	}
	doc := map[string]any{
		"metadata":        meta,
		kind.ItemsField(): items,
		"has_next_page":   res.HasNextPage,
		"next_cursor":     res.NextCursor,
		"status":          res.Status,
		"message":         res.Message,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cache entry %s: %w", path, err)
	}
	slog.Debug("cache entry written",
		slog.String("kind", string(kind)),
		slog.String("key", key),
		slog.Int("items", meta.ItemCount))
	return path, nil
}

// Load returns the cached result for a key. The result is structurally
// identical to a live fetch; only log output distinguishes a hit.
// Missing, unreadable, or malformed entries are reported as a miss,
// never an error.
func (c *Cache) Load(kind ResultKind, subject, key string) (*CollectionResult, bool) {
	path := c.entryPath(kind, subject, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("cache entry unreadable, ignoring", slog.String("path", path), slog.Any("error", err))
		}
		return nil, false
	}
	res, err := decodeCollectionResult(kind, data)
	if err != nil {
		slog.Warn("corrupt cache entry, treating as miss", slog.String("path", path), slog.Any("error", err))
		return nil, false
	}
	return res, true
}

// Clear removes every cached entry for a subject under one result kind.
func (c *Cache) Clear(kind ResultKind, subject string) error {
	dir := filepath.Join(c.dir, string(kind), normalizeHandle(subject))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear cache %s: %w", dir, err)
	}
	return nil
}
