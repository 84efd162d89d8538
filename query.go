package twitterapi

import (
	"fmt"
	"strings"
	"time"
)

// Filter describes an advanced-search query over one subject's tweets.
type Filter struct {
	Handle         string // with or without a leading @
	Since          string // YYYY-MM-DD, inclusive
	Until          string // YYYY-MM-DD, exclusive
	MinFaves       int    // minimum favorites; 0 means unset
	IncludeReplies bool
}

// normalizeHandle strips a leading @ marker.
func normalizeHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}

// BuildQuery renders the filter in the provider's advanced-search
// syntax. Clause order is fixed — the query text doubles as the cache
// key input, so it must be deterministic. Absent parameters emit no
// clause; a zero MinFaves is indistinguishable from unset and dropped.
func (f Filter) BuildQuery() string {
	parts := []string{"from:" + normalizeHandle(f.Handle)}
	if f.Since != "" {
		parts = append(parts, "since:"+f.Since)
	}
	if f.Until != "" {
		parts = append(parts, "until:"+f.Until)
	}
	if f.MinFaves > 0 {
		parts = append(parts, fmt.Sprintf("min_faves:%d", f.MinFaves))
	}
	if !f.IncludeReplies {
		parts = append(parts, "-is:reply")
	}
	return strings.Join(parts, " ")
}

// searchTimeLayout is the provider's timestamp syntax for windowed
// since:/until: clauses.
const searchTimeLayout = "2006-01-02_15:04:05_UTC"

// FormatSearchTime renders t for a windowed since:/until: clause.
func FormatSearchTime(t time.Time) string {
	return t.UTC().Format(searchTimeLayout)
}

// WindowQuery builds the polling query for a handle over a time window,
// retweets included.
func WindowQuery(handle string, since, until time.Time) string {
	return fmt.Sprintf("from:%s since:%s until:%s include:nativeretweets",
		normalizeHandle(handle), FormatSearchTime(since), FormatSearchTime(until))
}
