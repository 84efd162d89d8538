package twitterapi

import (
	"context"
	"log/slog"
	"time"
)

// fetchCached is the single point deciding whether a query is a repeat:
// derive the key, try the cache, and only on a miss touch the network
// and write the entry back. A hit performs zero fetches and leaves the
// entry untouched.
func fetchCached(ctx context.Context, fetcher pageFetcher, cache *Cache, q Query, subject string, opts CollectOptions) (*CollectionResult, error) {
	key := CacheKey(q.Text, opts.Limit)
	if res, ok := cache.Load(q.Kind, subject, key); ok {
		slog.Info("cache hit",
			slog.String("kind", string(q.Kind)),
			slog.String("subject", normalizeHandle(subject)),
			slog.String("key", key))
		return res, nil
	}
	slog.Debug("cache miss, fetching",
		slog.String("kind", string(q.Kind)),
		slog.String("key", key))

	res, err := collect(ctx, fetcher, q, opts)
	if err != nil {
		return nil, err
	}
	meta := CacheMetadata{
		Subject:     normalizeHandle(subject),
		Query:       q.Text,
		Limit:       opts.Limit,
		PageSize:    clampPageSize(opts.PageSize),
		StartCursor: opts.StartCursor,
		Key:         key,
		ItemCount:   len(res.Items),
		FetchedAt:   time.Now().UTC(),
	}
	if _, err := cache.Save(q.Kind, subject, key, res, meta); err != nil {
		slog.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return res, nil
}

// SearchTweets runs an advanced search, paginating up to opts.Limit
// tweets.
func (c *Client) SearchTweets(ctx context.Context, query string, opts CollectOptions) (*CollectionResult, error) {
	return collect(ctx, c, Query{Text: query, Kind: KindTweets, Type: "Latest"}, opts)
}

// SearchTweetsCached is SearchTweets behind the result cache. The
// subject handle namespaces the entry on disk.
func (c *Client) SearchTweetsCached(ctx context.Context, subject, query string, opts CollectOptions) (*CollectionResult, error) {
	return fetchCached(ctx, c, c.cache, Query{Text: query, Kind: KindTweets, Type: "Latest"}, subject, opts)
}

// GetUserTweets fetches up to limit tweets for a filter's subject
// without exposing cursor mechanics.
func (c *Client) GetUserTweets(ctx context.Context, f Filter, limit int) (*CollectionResult, error) {
	if normalizeHandle(f.Handle) == "" {
		return nil, ErrUsernameRequired
	}
	return c.SearchTweets(ctx, f.BuildQuery(), CollectOptions{Limit: limit})
}

// GetUserTweetsCached is GetUserTweets behind the result cache.
func (c *Client) GetUserTweetsCached(ctx context.Context, f Filter, limit int) (*CollectionResult, error) {
	if normalizeHandle(f.Handle) == "" {
		return nil, ErrUsernameRequired
	}
	q := Query{Text: f.BuildQuery(), Kind: KindTweets, Type: "Latest"}
	return fetchCached(ctx, c, c.cache, q, f.Handle, CollectOptions{Limit: limit})
}

// GetFollowings fetches accounts a user follows, most recent first.
func (c *Client) GetFollowings(ctx context.Context, username string, opts CollectOptions) (*CollectionResult, error) {
	return c.getUserList(ctx, KindFollowings, username, opts, false)
}

// GetFollowingsCached is GetFollowings behind the result cache.
func (c *Client) GetFollowingsCached(ctx context.Context, username string, opts CollectOptions) (*CollectionResult, error) {
	return c.getUserList(ctx, KindFollowings, username, opts, true)
}

// GetFollowers fetches a user's followers.
func (c *Client) GetFollowers(ctx context.Context, username string, opts CollectOptions) (*CollectionResult, error) {
	return c.getUserList(ctx, KindFollowers, username, opts, false)
}

// GetFollowersCached is GetFollowers behind the result cache.
func (c *Client) GetFollowersCached(ctx context.Context, username string, opts CollectOptions) (*CollectionResult, error) {
	return c.getUserList(ctx, KindFollowers, username, opts, true)
}

// getUserList is the shared follow-list entry point; the kind picks the
// endpoint and items field, nothing else differs.
func (c *Client) getUserList(ctx context.Context, kind ResultKind, username string, opts CollectOptions, cached bool) (*CollectionResult, error) {
	handle := normalizeHandle(username)
	if handle == "" {
		return nil, ErrUsernameRequired
	}
	q := Query{Text: handle, Kind: kind}
	if cached {
		return fetchCached(ctx, c, c.cache, q, handle, opts)
	}
	return collect(ctx, c, q, opts)
}
