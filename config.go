package twitterapi

import (
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// RetryPolicy bounds the attempts made for a single page fetch and the
// backoff schedule between them. It wraps individual requests; the
// pagination loop itself never retries.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     stealth.BackoffConfig
}

// ClientConfig holds all configuration for the twitterapi.io client.
// The entry point constructs it once and passes it in; the library
// never reads environment variables or config files itself.
type ClientConfig struct {
	// APIKey is the twitterapi.io credential sent as X-API-Key.
	APIKey string

	// BaseURL overrides the provider base URL. Default: https://api.twitterapi.io
	BaseURL string

	// Proxy is an optional proxy URL applied to all requests.
	Proxy string

	// CacheDir overrides the result cache directory.
	// Default: ~/.twitterapi-go/cache
	CacheDir string

	// SessionDir overrides the login session persistence directory.
	// Default: ~/.twitterapi-go/sessions
	SessionDir string

	// SessionTTL controls how long saved login sessions are considered valid.
	SessionTTL time.Duration

	// Retry is the policy applied around each page fetch.
	Retry RetryPolicy

	// RateLimit configures per-endpoint rate limiting.
	RateLimit ratelimit.Config

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the operation name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.Backoff.InitialWait == 0 {
		cfg.Retry.Backoff = stealth.BackoffConfig{
			InitialWait: 2 * time.Second,
			MaxWait:     60 * time.Second,
			Multiplier:  2.0,
			JitterPct:   0.3,
		}
	}
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig
	}
}
