package twitterapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUsernameRequired is returned before any I/O when a subject handle
// is empty.
var ErrUsernameRequired = errors.New("username is required")

var errMissingItemsField = errors.New("response missing items field")

// errorClass categorizes provider HTTP responses for retry handling.
type errorClass int

const (
	errNone        errorClass = iota
	errRateLimited            // 429 — throttled, retry after reset
	errServer                 // 5xx — transient provider failure
	errAuth                   // 401/403 — bad or exhausted API key
	errClient                 // other 4xx — request is wrong, retrying won't help
)

// classifyStatus maps an HTTP status to an error class.
func classifyStatus(status int) errorClass {
	switch {
	case status == 200 || status == 201:
		return errNone
	case status == 429:
		return errRateLimited
	case status == 401 || status == 403:
		return errAuth
	case status >= 500:
		return errServer
	default:
		return errClient
	}
}

// retryable reports whether another attempt may succeed.
func (c errorClass) retryable() bool {
	return c == errRateLimited || c == errServer
}

// apiError is a non-2xx provider response, fatal to the call that
// received it.
type apiError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Endpoint, e.Status, e.Body)
}

// isBlockedLoginMessage detects login responses that ask the caller to
// wait before retrying (temporarily blocked accounts).
func isBlockedLoginMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "blocked") || strings.Contains(m, "wait")
}

// parseRateLimitReset parses the x-rate-limit-reset unix timestamp header.
// Falls back to 5 seconds from now if missing or invalid — the provider's
// free-tier QPS window is short.
func parseRateLimitReset(v string) time.Time {
	if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(ts, 0)
	}
	return time.Now().Add(5 * time.Second)
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
