package twitterapi

import (
	"context"
	"log/slog"
	"time"
)

// tweetSearcher is the slice of Client the monitor needs.
type tweetSearcher interface {
	SearchTweets(ctx context.Context, query string, opts CollectOptions) (*CollectionResult, error)
}

// monitorWindowLimit bounds how many tweets a single tick will drain.
// An account posting more than this inside one interval is beyond what
// the poll loop is for.
const monitorWindowLimit = 1000

// Monitor polls one account for new tweets on a fixed interval and
// hands each batch to a handler. Each tick searches the window since
// the previous successful check; a failed check keeps the window so no
// tweets are skipped.
type Monitor struct {
	Searcher tweetSearcher
	Handle   string
	Interval time.Duration // default 5m
	Lookback time.Duration // window before the first tick, default 1h
	Handler  func(items []Item)

	lastChecked time.Time
}

// Run blocks, checking immediately and then once per interval, until
// the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if normalizeHandle(m.Handle) == "" {
		return ErrUsernameRequired
	}
	if m.Interval <= 0 {
		m.Interval = 5 * time.Minute
	}
	if m.Lookback <= 0 {
		m.Lookback = time.Hour
	}
	m.lastChecked = time.Now().UTC().Add(-m.Lookback)

	slog.Info("monitoring started",
		slog.String("handle", normalizeHandle(m.Handle)),
		slog.Duration("interval", m.Interval))

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		if err := m.checkOnce(ctx); err != nil {
			slog.Warn("monitor check failed",
				slog.String("handle", normalizeHandle(m.Handle)),
				slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// checkOnce searches the window since the last successful check, hands
// any tweets to the handler, and advances the window.
func (m *Monitor) checkOnce(ctx context.Context) error {
	until := time.Now().UTC()
	query := WindowQuery(m.Handle, m.lastChecked, until)

	res, err := m.Searcher.SearchTweets(ctx, query, CollectOptions{Limit: monitorWindowLimit})
	if err != nil {
		return err
	}

	if len(res.Items) > 0 && m.Handler != nil {
		m.Handler(res.Items)
	}
	slog.Info("monitor tick",
		slog.String("handle", normalizeHandle(m.Handle)),
		slog.Int("new", len(res.Items)))

	m.lastChecked = until
	return nil
}
