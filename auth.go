package twitterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pquerna/otp/totp"
)

const maxLoginAttempts = 3

// Credentials identify one Twitter account for the hosted login flow.
// The provider performs the actual browser login server-side; only the
// returned login_cookies are kept client-side.
type Credentials struct {
	Username   string
	Email      string
	Password   string
	TOTPSecret string
	Proxy      string // proxy the provider logs in through; falls back to ClientConfig.Proxy
}

// sessionDir returns the directory for persisting login sessions.
func sessionDir(override string) string {
	if override != "" {
		return override
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".twitterapi-go", "sessions")
}

// sessionPath returns the file path for a given username's session.
func sessionPath(dir, username string) string {
	return filepath.Join(dir, username+".json")
}

// savedSession holds serialized login cookies for persistence.
type savedSession struct {
	LoginCookies string    `json:"login_cookies"`
	SavedAt      time.Time `json:"saved_at"`
}

// saveSession persists login cookies to disk.
func saveSession(dir, username, cookies string) error {
	d := sessionDir(dir)
	if err := os.MkdirAll(d, 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	s := savedSession{LoginCookies: cookies, SavedAt: time.Now()}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	path := sessionPath(d, username)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session %s: %w", path, err)
	}
	slog.Debug("session saved", slog.String("user", username))
	return nil
}

// loadSession loads a persisted session from disk. Expired or missing
// sessions return empty cookies.
func loadSession(dir, username string, ttl time.Duration) (string, error) {
	data, err := os.ReadFile(sessionPath(sessionDir(dir), username))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var s savedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	if time.Since(s.SavedAt) > ttl {
		slog.Debug("session expired", slog.String("user", username))
		return "", nil
	}
	return s.LoginCookies, nil
}

// Login authenticates via the provider's login endpoint and stores the
// returned login cookies for posting. A fresh session is only requested
// when no valid persisted session exists. Temporarily blocked accounts
// are retried with growing waits, per provider guidance.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	if creds.Username == "" {
		return ErrUsernameRequired
	}

	cookies, err := loadSession(c.cfg.SessionDir, creds.Username, c.cfg.SessionTTL)
	if err != nil {
		slog.Warn("error loading session", slog.String("user", creds.Username), slog.Any("error", err))
	}
	if cookies != "" {
		c.setLoginCookies(cookies)
		slog.Info("loaded session from disk", slog.String("user", creds.Username))
		return nil
	}

	proxy := creds.Proxy
	if proxy == "" {
		proxy = c.cfg.Proxy
	}

	var lastErr error
	for attempt := range maxLoginAttempts {
		payload := map[string]any{
			"user_name": creds.Username,
			"email":     creds.Email,
			"password":  creds.Password,
			"proxy":     proxy,
		}
		if creds.TOTPSecret != "" {
			payload["totp_secret"] = creds.TOTPSecret
			if code, codeErr := totp.GenerateCode(creds.TOTPSecret, time.Now()); codeErr == nil {
				payload["totp_code"] = code
			} else {
				slog.Warn("totp code generation failed", slog.Any("error", codeErr))
			}
		}

		body, err := c.doPOST(ctx, endpoints["UserLogin"], payload)
		if err != nil {
			lastErr = err
			continue
		}

		var resp struct {
			Status       string `json:"status"`
			Message      string `json:"message"`
			LoginCookies string `json:"login_cookies"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("unmarshal login response: %w", err)
		}

		if resp.Status == "success" {
			if resp.LoginCookies == "" {
				return fmt.Errorf("login succeeded but no cookies returned")
			}
			c.setLoginCookies(resp.LoginCookies)
			if err := saveSession(c.cfg.SessionDir, creds.Username, resp.LoginCookies); err != nil {
				slog.Warn("session save failed", slog.String("user", creds.Username), slog.Any("error", err))
			}
			slog.Info("login succeeded", slog.String("user", creds.Username))
			return nil
		}

		if isBlockedLoginMessage(resp.Message) && attempt < maxLoginAttempts-1 {
			wait := time.Duration(attempt+1) * time.Minute
			slog.Warn("account blocked, waiting before retry",
				slog.String("user", creds.Username),
				slog.Duration("wait", wait))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			lastErr = fmt.Errorf("login blocked: %s", resp.Message)
			continue
		}

		return fmt.Errorf("login failed: %s", resp.Message)
	}
	return fmt.Errorf("login failed after %d attempts: %w", maxLoginAttempts, lastErr)
}

// Logout drops the in-memory login cookies and removes the persisted
// session file.
func (c *Client) Logout(username string) error {
	c.setLoginCookies("")
	path := sessionPath(sessionDir(c.cfg.SessionDir), username)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session %s: %w", path, err)
	}
	return nil
}
