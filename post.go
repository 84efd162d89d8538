package twitterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// PostOptions carries optional tweet attributes.
type PostOptions struct {
	ReplyToTweetID string
	AttachmentURL  string
}

// PostTweet publishes a tweet using the stored login cookies and
// returns the new tweet's id when the provider reports one.
func (c *Client) PostTweet(ctx context.Context, text string, opts PostOptions) (string, error) {
	cookies, ok := c.loginCookiesCached()
	if !ok {
		return "", fmt.Errorf("no login cookies: call Login first")
	}

	payload := map[string]any{
		"login_cookies": cookies,
		"tweet_text":    text,
	}
	if c.cfg.Proxy != "" {
		payload["proxy"] = c.cfg.Proxy
	}
	if opts.ReplyToTweetID != "" {
		payload["reply_to_tweet_id"] = opts.ReplyToTweetID
	}
	if opts.AttachmentURL != "" {
		payload["attachment_url"] = opts.AttachmentURL
	}

	body, err := c.doPOST(ctx, endpoints["CreateTweet"], payload)
	if err != nil {
		return "", fmt.Errorf("CreateTweet: %w", err)
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			CreateTweet struct {
				TweetID string `json:"tweet_id"`
			} `json:"create_tweet"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal CreateTweet: %w", err)
	}
	if resp.Status != "success" {
		return "", fmt.Errorf("CreateTweet rejected: %s", resp.Message)
	}
	slog.Info("tweet posted", slog.String("tweet_id", resp.Data.CreateTweet.TweetID))
	return resp.Data.CreateTweet.TweetID, nil
}
