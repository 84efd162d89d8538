package twitterapi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyDeterministic(t *testing.T) {
	k1 := CacheKey("from:alice -is:reply", 100)
	k2 := CacheKey("from:alice -is:reply", 100)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 12)
}

func TestCacheKeyDiscriminates(t *testing.T) {
	base := CacheKey("from:alice -is:reply", 100)
	assert.NotEqual(t, base, CacheKey("from:bob -is:reply", 100), "different query text")
	assert.NotEqual(t, base, CacheKey("from:alice -is:reply", 200), "different limit")
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(t.TempDir())

	res := &CollectionResult{
		Kind:        KindTweets,
		Items:       makeItems("1", "2", "3"),
		HasNextPage: true,
		NextCursor:  "cursor-abc",
		Status:      "success",
		Message:     "Fetched 3 tweets",
	}
	meta := CacheMetadata{
		Subject:   "alice",
		Query:     "from:alice -is:reply",
		Limit:     3,
		PageSize:  20,
		Key:       CacheKey("from:alice -is:reply", 3),
		ItemCount: 3,
		FetchedAt: time.Now().UTC(),
	}

	path, err := cache.Save(KindTweets, "alice", meta.Key, res, meta)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, meta.Key+".json", filepath.Base(path))

	got, ok := cache.Load(KindTweets, "alice", meta.Key)
	require.True(t, ok)
	assert.Equal(t, res.Items, got.Items)
	assert.Equal(t, res.HasNextPage, got.HasNextPage)
	assert.Equal(t, res.NextCursor, got.NextCursor)
	assert.Equal(t, res.Status, got.Status)
	assert.Equal(t, res.Message, got.Message)
	assert.Equal(t, KindTweets, got.Kind)
}

func TestCacheLoadMiss(t *testing.T) {
	cache := NewCache(t.TempDir())
	_, ok := cache.Load(KindTweets, "alice", "000000000000")
	assert.False(t, ok)
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)

	path := filepath.Join(dir, "tweets", "alice", "deadbeef0000.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	_, ok := cache.Load(KindTweets, "alice", "deadbeef0000")
	assert.False(t, ok, "corrupt entry must read as a miss, not an error")
}

func TestCacheWrongKindIsMiss(t *testing.T) {
	cache := NewCache(t.TempDir())
	key := "aaaabbbbcccc"

	res := &CollectionResult{Kind: KindTweets, Items: makeItems("1"), Status: "success"}
	_, err := cache.Save(KindTweets, "alice", key, res, CacheMetadata{Key: key})
	require.NoError(t, err)

	// A followers load against a tweets entry has no followers field.
	_, ok := cache.Load(KindFollowers, "alice", key)
	assert.False(t, ok)
}

func TestCacheSubjectNamespacing(t *testing.T) {
	cache := NewCache(t.TempDir())
	key := CacheKey("shared query", 10)

	res := &CollectionResult{Kind: KindTweets, Items: makeItems("1"), Status: "success"}
	_, err := cache.Save(KindTweets, "@alice", key, res, CacheMetadata{Key: key})
	require.NoError(t, err)

	// Marker-insensitive subject lookup, separate namespaces per subject.
	_, ok := cache.Load(KindTweets, "alice", key)
	assert.True(t, ok)
	_, ok = cache.Load(KindTweets, "bob", key)
	assert.False(t, ok)
}

func TestCacheOverwrite(t *testing.T) {
	cache := NewCache(t.TempDir())
	key := "112233445566"

	first := &CollectionResult{Kind: KindTweets, Items: makeItems("1"), Status: "success"}
	_, err := cache.Save(KindTweets, "alice", key, first, CacheMetadata{Key: key})
	require.NoError(t, err)

	second := &CollectionResult{Kind: KindTweets, Items: makeItems("1", "2"), Status: "success"}
	_, err = cache.Save(KindTweets, "alice", key, second, CacheMetadata{Key: key})
	require.NoError(t, err)

	got, ok := cache.Load(KindTweets, "alice", key)
	require.True(t, ok)
	assert.Len(t, got.Items, 2)
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(t.TempDir())
	key := "ffeeddccbbaa"

	res := &CollectionResult{Kind: KindFollowings, Items: makeItems("1"), Status: "success"}
	_, err := cache.Save(KindFollowings, "alice", key, res, CacheMetadata{Key: key})
	require.NoError(t, err)

	require.NoError(t, cache.Clear(KindFollowings, "alice"))
	_, ok := cache.Load(KindFollowings, "alice", key)
	assert.False(t, ok)

	// Clearing an already-empty subject is not an error.
	assert.NoError(t, cache.Clear(KindFollowings, "nobody"))
}
