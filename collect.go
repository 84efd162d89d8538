package twitterapi

import (
	"context"
	"fmt"
)

// pageFetcher is the capability the collector drives: fetch one page of
// results at a cursor. *Client implements it over the live API.
type pageFetcher interface {
	fetchPage(ctx context.Context, q Query, pageSize int, cursor string) (Page, error)
}

const (
	minPageSize = 20
	maxPageSize = 200
)

// clampPageSize bounds a page size to the provider-accepted range.
func clampPageSize(n int) int {
	if n < minPageSize {
		return minPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// CollectOptions bound a single collection run.
type CollectOptions struct {
	// Limit is the total number of items to return across pages.
	Limit int
	// PageSize is the per-request item count, clamped to 20..200.
	PageSize int
	// StartCursor resumes pagination from a prior result's NextCursor.
	// Empty means the first page.
	StartCursor string
}

// collect drives the fetcher page by page until the limit is reached or
// the stream ends, deduplicating by item id across pages. Duplicates
// happen when cursor pagination and id-boundary pagination overlap, so
// the first occurrence always wins. A page with no new items and no
// next page terminates the run even under the limit.
func collect(ctx context.Context, fetcher pageFetcher, q Query, opts CollectOptions) (*CollectionResult, error) {
	res := &CollectionResult{
		Kind:   q.Kind,
		Items:  make([]Item, 0),
		Status: "success",
	}
	if opts.Limit <= 0 {
		res.Message = fmt.Sprintf("Fetched 0 %s", q.Kind)
		return res, nil
	}

	pageSize := clampPageSize(opts.PageSize)
	seen := make(map[string]struct{})
	cursor := opts.StartCursor
	more := true

	for more && len(res.Items) < opts.Limit {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		page, err := fetcher.fetchPage(ctx, q, pageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.Kind, err)
		}

		newCount := 0
		for _, it := range page.Items {
			if len(res.Items) >= opts.Limit {
				break
			}
			if id := it.ID(); id != "" {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
			res.Items = append(res.Items, it)
			newCount++
		}

		more = page.HasNextPage
		if more {
			cursor = page.NextCursor
		} else {
			cursor = ""
		}
		if len(page.Items) == 0 || (newCount == 0 && !more) {
			break
		}
	}

	res.HasNextPage = more
	res.NextCursor = cursor
	res.Message = fmt.Sprintf("Fetched %d %s", len(res.Items), q.Kind)
	return res, nil
}

// CollectAll fetches every tweet matching query, deduplicated by id.
// When the cursor stream ends but the last page still produced new
// tweets, it switches to max_id boundary pagination to reach past the
// provider's cursor depth cap. maxResults <= 0 means unbounded.
func (c *Client) CollectAll(ctx context.Context, query string, maxResults int) ([]Item, error) {
	return collectAll(ctx, c, query, maxResults)
}

func collectAll(ctx context.Context, fetcher pageFetcher, query string, maxResults int) ([]Item, error) {
	q := Query{Text: query, Kind: KindTweets, Type: "Latest"}
	seen := make(map[string]struct{})
	all := make([]Item, 0)
	cursor := ""
	lastID := ""

	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		q.Text = query
		if cursor == "" && lastID != "" {
			q.Text = fmt.Sprintf("%s max_id:%s", query, lastID)
		}

		page, err := fetcher.fetchPage(ctx, q, minPageSize, cursor)
		if err != nil {
			return all, fmt.Errorf("collect all: %w", err)
		}

		newCount := 0
		for _, it := range page.Items {
			id := it.ID()
			if id != "" {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				lastID = id
			}
			all = append(all, it)
			newCount++
		}

		if maxResults > 0 && len(all) >= maxResults {
			return all[:maxResults], nil
		}
		if newCount == 0 && !page.HasNextPage {
			return all, nil
		}

		if page.HasNextPage {
			cursor = page.NextCursor
			continue
		}
		// Cursor stream exhausted but new tweets arrived: restart with a
		// max_id boundary on the next iteration.
		cursor = ""
	}
}
