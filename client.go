package twitterapi

import (
	"fmt"
	"sync"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Client is the top-level twitterapi.io client.
type Client struct {
	client  *stealth.BrowserClient
	limiter *ratelimit.Limiter
	cache   *Cache
	cfg     ClientConfig

	mu           sync.Mutex
	loginCookies string
}

// NewClient creates a fully-wired client.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(apiHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}

	return &Client{
		client:  bc,
		limiter: ratelimit.NewLimiter(cfg.RateLimit),
		cache:   NewCache(cfg.CacheDir),
		cfg:     cfg,
	}, nil
}

// Cache returns the underlying result cache.
func (c *Client) Cache() *Cache { return c.cache }

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}

// setLoginCookies stores fresh login cookies from the provider.
func (c *Client) setLoginCookies(cookies string) {
	c.mu.Lock()
	c.loginCookies = cookies
	c.mu.Unlock()
}

// loginCookiesCached returns the stored login cookies and whether they
// are set.
func (c *Client) loginCookiesCached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginCookies, c.loginCookies != ""
}
