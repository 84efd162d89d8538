package twitterapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// pageParams builds the request parameters for one page fetch. An empty
// cursor means "first page" and is omitted entirely — the provider
// rejects a literal empty cursor value.
func pageParams(q Query, pageSize int, cursor string) url.Values {
	params := url.Values{}
	switch q.Kind {
	case KindTweets:
		params.Set("query", q.Text)
		qt := q.Type
		if qt == "" {
			qt = "Latest"
		}
		params.Set("queryType", qt)
	default:
		params.Set("userName", q.Text)
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return params
}

// decodePage extracts one page from a provider response body, reading
// items from the kind-specific field.
func decodePage(kind ResultKind, body []byte) (Page, error) {
	var env struct {
		HasNextPage bool   `json:"has_next_page"`
		NextCursor  string `json:"next_cursor"`
		Tweets      []Item `json:"tweets"`
		Followings  []Item `json:"followings"`
		Followers   []Item `json:"followers"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Page{}, fmt.Errorf("unmarshal %s page: %w", kind, err)
	}
	p := Page{HasNextPage: env.HasNextPage, NextCursor: env.NextCursor}
	switch kind {
	case KindFollowings:
		p.Items = env.Followings
	case KindFollowers:
		p.Items = env.Followers
	default:
		p.Items = env.Tweets
	}
	return p, nil
}

// fetchPage performs one page fetch for a query at the given cursor.
// It makes exactly one logical call; the retry policy around the HTTP
// request lives in doGET, not here.
func (c *Client) fetchPage(ctx context.Context, q Query, pageSize int, cursor string) (Page, error) {
	ep := kindEndpoint(q.Kind)
	body, err := c.doGET(ctx, ep, pageParams(q, pageSize, cursor))
	if err != nil {
		return Page{}, err
	}
	return decodePage(q.Kind, body)
}

// doGET executes a GET with the configured retry policy and
// per-endpoint rate limiting.
func (c *Client) doGET(ctx context.Context, ep endpoint, params url.Values) ([]byte, error) {
	if err := stealth.DefaultJitter.Sleep(ctx); err != nil {
		return nil, err
	}

	u := c.cfg.BaseURL + ep.Path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for attempt := range c.cfg.Retry.MaxAttempts {
		if attempt > 0 {
			delay := c.cfg.Retry.Backoff.Duration(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := c.waitForEndpoint(ctx, ep.Name); err != nil {
			return nil, err
		}

		body, respHdrs, status, err := c.client.DoWithHeaderOrder(ep.Method, u, apiHeaders(c.cfg.APIKey), nil, apiHeaderOrder)
		if err != nil {
			lastErr = err
			continue
		}

		switch cls := classifyStatus(status); cls {
		case errNone:
			c.recordAPICall(ep.Name, true, false)
			return body, nil
		case errRateLimited:
			c.recordAPICall(ep.Name, false, true)
			reset := parseRateLimitReset(respHdrs["x-rate-limit-reset"])
			c.limiter.MarkRateLimited(ep.Name, reset)
			slog.Info("rate limited, backing off",
				slog.String("endpoint", ep.Name),
				slog.Time("reset", reset))
			lastErr = &apiError{Endpoint: ep.Name, Status: status, Body: truncateBytes(body, 200)}
		default:
			c.recordAPICall(ep.Name, false, false)
			apiErr := &apiError{Endpoint: ep.Name, Status: status, Body: truncateBytes(body, 200)}
			if !cls.retryable() {
				return nil, apiErr
			}
			slog.Warn("request failed, retrying",
				slog.String("endpoint", ep.Name),
				slog.Int("status", status))
			lastErr = apiErr
		}
	}
	return nil, fmt.Errorf("%s failed after %d attempts: %w", ep.Name, c.cfg.Retry.MaxAttempts, lastErr)
}

// doPOST executes a JSON mutation with the configured retry policy.
func (c *Client) doPOST(ctx context.Context, ep endpoint, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ep.Name, err)
	}
	if err := stealth.DefaultJitter.Sleep(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := range c.cfg.Retry.MaxAttempts {
		if attempt > 0 {
			delay := c.cfg.Retry.Backoff.Duration(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := c.waitForEndpoint(ctx, ep.Name); err != nil {
			return nil, err
		}

		body, respHdrs, status, err := c.client.DoWithHeaderOrder(ep.Method, c.cfg.BaseURL+ep.Path, postHeaders(c.cfg.APIKey), bytes.NewReader(data), apiHeaderOrder)
		if err != nil {
			lastErr = err
			continue
		}

		switch cls := classifyStatus(status); cls {
		case errNone:
			c.recordAPICall(ep.Name, true, false)
			return body, nil
		case errRateLimited:
			c.recordAPICall(ep.Name, false, true)
			c.limiter.MarkRateLimited(ep.Name, parseRateLimitReset(respHdrs["x-rate-limit-reset"]))
			lastErr = &apiError{Endpoint: ep.Name, Status: status, Body: truncateBytes(body, 200)}
		default:
			c.recordAPICall(ep.Name, false, false)
			apiErr := &apiError{Endpoint: ep.Name, Status: status, Body: truncateBytes(body, 200)}
			if !cls.retryable() {
				return nil, apiErr
			}
			lastErr = apiErr
		}
	}
	return nil, fmt.Errorf("%s failed after %d attempts: %w", ep.Name, c.cfg.Retry.MaxAttempts, lastErr)
}

// waitForEndpoint blocks until the per-endpoint limiter admits another
// request, or the context is cancelled.
func (c *Client) waitForEndpoint(ctx context.Context, endpoint string) error {
	for !c.limiter.Allow(endpoint) {
		wait := time.Until(c.limiter.AvailableAt(endpoint))
		if wait < time.Second {
			wait = time.Second
		}
		slog.Info("endpoint throttled, waiting",
			slog.String("endpoint", endpoint),
			slog.Duration("wait", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
