package twitterapi

import (
	"testing"
)

func TestPageParamsTweets(t *testing.T) {
	q := Query{Text: "from:alice -is:reply", Kind: KindTweets, Type: "Latest"}

	params := pageParams(q, 20, "")
	if got := params.Get("query"); got != "from:alice -is:reply" {
		t.Errorf("query = %q", got)
	}
	if got := params.Get("queryType"); got != "Latest" {
		t.Errorf("queryType = %q", got)
	}
	// First page: no cursor parameter at all, not an empty one.
	if _, present := params["cursor"]; present {
		t.Error("empty cursor must be omitted from params")
	}

	params = pageParams(q, 20, "abc123")
	if got := params.Get("cursor"); got != "abc123" {
		t.Errorf("cursor = %q, want abc123", got)
	}
}

func TestPageParamsDefaultQueryType(t *testing.T) {
	q := Query{Text: "golang", Kind: KindTweets}
	if got := pageParams(q, 20, "").Get("queryType"); got != "Latest" {
		t.Errorf("queryType = %q, want Latest", got)
	}
}

func TestPageParamsUserList(t *testing.T) {
	q := Query{Text: "alice", Kind: KindFollowings}

	params := pageParams(q, 200, "")
	if got := params.Get("userName"); got != "alice" {
		t.Errorf("userName = %q", got)
	}
	if got := params.Get("pageSize"); got != "200" {
		t.Errorf("pageSize = %q, want 200", got)
	}
	if _, present := params["query"]; present {
		t.Error("follow-list params must not carry a query field")
	}
	if _, present := params["cursor"]; present {
		t.Error("empty cursor must be omitted from params")
	}
}

func TestDecodePage(t *testing.T) {
	tests := []struct {
		name       string
		kind       ResultKind
		body       string
		wantItems  int
		wantCursor string
		wantMore   bool
	}{
		{
			name:       "tweets page",
			kind:       KindTweets,
			body:       `{"tweets":[{"id":"1"},{"id":"2"}],"has_next_page":true,"next_cursor":"c2"}`,
			wantItems:  2,
			wantCursor: "c2",
			wantMore:   true,
		},
		{
			name:      "followings page",
			kind:      KindFollowings,
			body:      `{"followings":[{"id":"7"}],"has_next_page":false,"next_cursor":""}`,
			wantItems: 1,
		},
		{
			name:      "followers page",
			kind:      KindFollowers,
			body:      `{"followers":[{"id":"8"},{"id":"9"}],"has_next_page":false}`,
			wantItems: 2,
		},
		{
			name: "empty last page",
			kind: KindTweets,
			body: `{"tweets":[],"has_next_page":false,"next_cursor":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage(tt.kind, []byte(tt.body))
			if err != nil {
				t.Fatalf("decodePage: %v", err)
			}
			if len(page.Items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(page.Items), tt.wantItems)
			}
			if page.NextCursor != tt.wantCursor {
				t.Errorf("next_cursor = %q, want %q", page.NextCursor, tt.wantCursor)
			}
			if page.HasNextPage != tt.wantMore {
				t.Errorf("has_next_page = %v, want %v", page.HasNextPage, tt.wantMore)
			}
		})
	}
}

func TestDecodePageMalformed(t *testing.T) {
	if _, err := decodePage(KindTweets, []byte("not json")); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 20},
		{5, 20},
		{20, 20},
		{100, 100},
		{200, 200},
		{500, 200},
		{-1, 20},
	}

	for _, tt := range tests {
		if got := clampPageSize(tt.in); got != tt.want {
			t.Errorf("clampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
