package twitterapi

import (
	"testing"
	"time"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			name: "all clauses",
			filter: Filter{
				Handle:   "alice",
				Since:    "2024-01-01",
				Until:    "2024-02-01",
				MinFaves: 10,
			},
			want: "from:alice since:2024-01-01 until:2024-02-01 min_faves:10 -is:reply",
		},
		{
			name:   "handle only",
			filter: Filter{Handle: "alice"},
			want:   "from:alice -is:reply",
		},
		{
			name:   "at marker stripped",
			filter: Filter{Handle: "@alice"},
			want:   "from:alice -is:reply",
		},
		{
			name:   "zero min_faves dropped",
			filter: Filter{Handle: "alice", Since: "2024-01-01", MinFaves: 0},
			want:   "from:alice since:2024-01-01 -is:reply",
		},
		{
			name:   "replies included",
			filter: Filter{Handle: "alice", IncludeReplies: true},
			want:   "from:alice",
		},
		{
			name:   "until without since",
			filter: Filter{Handle: "bob", Until: "2024-06-15", IncludeReplies: true},
			want:   "from:bob until:2024-06-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.BuildQuery(); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQueryDeterministic(t *testing.T) {
	f := Filter{Handle: "alice", Since: "2024-01-01", Until: "2024-02-01", MinFaves: 5}
	first := f.BuildQuery()
	for range 10 {
		if got := f.BuildQuery(); got != first {
			t.Fatalf("BuildQuery() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"@alice", "alice"},
		{"  @alice  ", "alice"},
		{"@", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeHandle(tt.in); got != tt.want {
			t.Errorf("normalizeHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSearchTime(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	want := "2024-03-15_09:30:00_UTC"
	if got := FormatSearchTime(ts); got != want {
		t.Errorf("FormatSearchTime() = %q, want %q", got, want)
	}

	// Non-UTC input is converted, not formatted in its own zone.
	est := time.FixedZone("EST", -5*3600)
	if got := FormatSearchTime(ts.In(est)); got != want {
		t.Errorf("FormatSearchTime(non-UTC) = %q, want %q", got, want)
	}
}

func TestWindowQuery(t *testing.T) {
	since := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	want := "from:alice since:2024-03-15_09:00:00_UTC until:2024-03-15_10:00:00_UTC include:nativeretweets"
	if got := WindowQuery("@alice", since, until); got != want {
		t.Errorf("WindowQuery() = %q, want %q", got, want)
	}
}
