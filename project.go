package twitterapi

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultTweetFields is the canonical projection for downstream
// consumers. Dotted paths descend into nested objects.
var DefaultTweetFields = []string{
	"type",
	"id",
	"url",
	"twitterUrl",
	"text",
	"source",
	"retweetCount",
	"replyCount",
	"likeCount",
	"quoteCount",
	"viewCount",
	"createdAt",
	"lang",
	"bookmarkCount",
	"isReply",
	"inReplyToId",
	"conversationId",
	"inReplyToUserId",
	"inReplyToUsername",
	"author.userName",
	"author.id",
	"author.name",
	"author.isVerified",
	"author.isBlueVerified",
	"author.profilePicture",
	"author.description",
	"author.location",
	"author.followers",
	"author.following",
	"author.createdAt",
	"author.statusesCount",
}

// ProjectItem copies only the requested fields from a raw item,
// preserving dotted-path nesting in the output. Absent fields are
// skipped silently.
func ProjectItem(it Item, fields []string) Item {
	out := Item{}
	for _, f := range fields {
		val, ok := lookupPath(map[string]any(it), f)
		if !ok {
			continue
		}
		setPath(out, f, val)
	}
	return out
}

// ProjectItems projects every item in a collection.
func ProjectItems(items []Item, fields []string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, ProjectItem(it, fields))
	}
	return out
}

// lookupPath walks a dotted path through nested objects.
func lookupPath(m map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	cur := any(m)
	for _, p := range parts {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes a value at a dotted path, creating intermediate
// objects as needed.
func setPath(m map[string]any, path string, val any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

var mentionRe = regexp.MustCompile(`@(\w+)`)

// ExtractFirstMention returns the first @username in the text without
// the marker, or "" when nobody is mentioned (typically a thread reply
// to the author's own post).
func ExtractFirstMention(text string) string {
	m := mentionRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// DefaultTierBreaks splits a metric's cumulative share into four tiers:
// the items holding the top 20% of the total, then up to 50%, 80%, and
// the rest. Cumulative-share tiers fit power-law engagement far better
// than plain quantiles.
var DefaultTierBreaks = []float64{0.2, 0.5, 0.8, 1.0}

// EngagementTiers labels items by cumulative share of a numeric metric
// field, descending. The result maps item id to a tier label such as
// "Top-20%" or "20%-50%". Items without an id or the metric are skipped.
func EngagementTiers(items []Item, metric string, breaks []float64) map[string]string {
	if len(breaks) == 0 {
		breaks = DefaultTierBreaks
	}

	type scored struct {
		id    string
		value float64
	}
	var ranked []scored
	total := 0.0
	for _, it := range items {
		id := it.ID()
		if id == "" {
			continue
		}
		v, ok := itemNumber(it, metric)
		if !ok {
			continue
		}
		ranked = append(ranked, scored{id: id, value: v})
		total += v
	}
	out := make(map[string]string, len(ranked))
	if total <= 0 {
		return out
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].value > ranked[j].value })

	labels := tierLabels(breaks)
	cum := 0.0
	for _, s := range ranked {
		cum += s.value
		share := cum / total
		label := labels[len(labels)-1]
		for i, b := range breaks {
			if share <= b {
				label = labels[i]
				break
			}
		}
		out[s.id] = label
	}
	return out
}

func tierLabels(breaks []float64) []string {
	labels := make([]string, len(breaks))
	for i, b := range breaks {
		if i == 0 {
			labels[i] = "Top-" + strconv.Itoa(int(b*100)) + "%"
			continue
		}
		labels[i] = strconv.Itoa(int(breaks[i-1]*100)) + "%-" + strconv.Itoa(int(b*100)) + "%"
	}
	return labels
}

// itemNumber extracts a numeric field via dotted path, tolerating the
// number representations json decoding produces.
func itemNumber(it Item, path string) (float64, bool) {
	v, ok := lookupPath(map[string]any(it), path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
