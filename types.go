package twitterapi

import (
	"encoding/json"
	"strconv"
)

// ResultKind selects which resource type a collection paginates over.
// It determines the endpoint and the JSON key items arrive under, but
// not the pagination mechanics.
type ResultKind string

const (
	KindTweets     ResultKind = "tweets"
	KindFollowings ResultKind = "followings"
	KindFollowers  ResultKind = "followers"
)

// ItemsField returns the JSON key the provider nests page items under.
func (k ResultKind) ItemsField() string { return string(k) }

// Item is a raw provider record. The core only interprets its "id"
// field; everything else passes through untouched.
type Item map[string]any

// ID returns the item's stable identity, or "" if absent.
func (it Item) ID() string {
	switch v := it["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Query is an immutable provider query: opaque text (an advanced-search
// string for tweets, a handle for follow lists), a result kind, and the
// provider query mode.
type Query struct {
	Text string
	Kind ResultKind
	Type string // provider queryType, e.g. "Latest"
}

// Page is one page of provider results plus continuation state.
type Page struct {
	Items       []Item
	NextCursor  string
	HasNextPage bool
}

// CollectionResult is the outcome of a paginated collection: unique
// items in fetch order, the final continuation state, and a status
// descriptor. When HasNextPage is false the result was exhaustive at
// fetch time.
type CollectionResult struct {
	Kind        ResultKind
	Items       []Item
	HasNextPage bool
	NextCursor  string
	Status      string
	Message     string
}

// MarshalJSON nests items under the kind-specific field name so the
// serialized shape matches the provider's live responses.
func (r CollectionResult) MarshalJSON() ([]byte, error) {
	items := r.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(map[string]any{
		r.Kind.ItemsField(): items,
		"has_next_page":     r.HasNextPage,
		"next_cursor":       r.NextCursor,
		"status":            r.Status,
		"message":           r.Message,
	})
}

// decodeCollectionResult rebuilds a CollectionResult from its
// serialized form for the given kind.
func decodeCollectionResult(kind ResultKind, data []byte) (*CollectionResult, error) {
	var env struct {
		HasNextPage bool   `json:"has_next_page"`
		NextCursor  string `json:"next_cursor"`
		Status      string `json:"status"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	res := &CollectionResult{
		Kind:        kind,
		Items:       make([]Item, 0),
		HasNextPage: env.HasNextPage,
		NextCursor:  env.NextCursor,
		Status:      env.Status,
		Message:     env.Message,
	}
	raw, ok := fields[kind.ItemsField()]
	if !ok {
		return nil, errMissingItemsField
	}
	if err := json.Unmarshal(raw, &res.Items); err != nil {
		return nil, err
	}
	return res, nil
}
