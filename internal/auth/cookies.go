// Package auth manages the X.com login session. Credentials are browser
// cookies captured after an interactive login, persisted alongside the
// config file.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/PoojaB26/tweet-tool-finder/internal/config"
)

// SessionStore persists captured session cookies on disk.
type SessionStore struct {
	path string
}

type storedSession struct {
	Cookies    []*network.Cookie `json:"cookies"`
	CapturedAt time.Time         `json:"captured_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// NewSessionStore creates a session store at the given path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath returns the session file location next to the config file.
func DefaultSessionPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// Save persists the captured cookies. The session's expiry is the earliest
// expiration among the auth cookies X requires.
// TODO: Encrypt cookies at rest
func (s *SessionStore) Save(cookies []*network.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	var expiresAt time.Time
	for _, c := range cookies {
		if c.Name != "auth_token" && c.Name != "ct0" {
			continue
		}
		exp := time.Unix(int64(c.Expires), 0)
		if expiresAt.IsZero() || exp.Before(expiresAt) {
			expiresAt = exp
		}
	}

	data, err := json.MarshalIndent(storedSession{
		Cookies:    cookies,
		CapturedAt: time.Now(),
		ExpiresAt:  expiresAt,
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

func (s *SessionStore) load() (*storedSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Valid reports whether a stored session exists, has not expired, and
// carries both cookies X needs for an authenticated feed.
func (s *SessionStore) Valid() bool {
	stored, err := s.load()
	if err != nil {
		return false
	}
	if time.Now().After(stored.ExpiresAt) {
		return false
	}

	var hasToken, hasCSRF bool
	for _, c := range stored.Cookies {
		switch c.Name {
		case "auth_token":
			hasToken = true
		case "ct0":
			hasCSRF = true
		}
	}
	return hasToken && hasCSRF
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	return os.Remove(s.path)
}

// FeedCookies returns the x.com cookies needed to load the feed.
func (s *SessionStore) FeedCookies() ([]*network.Cookie, error) {
	stored, err := s.load()
	if err != nil {
		return nil, err
	}

	var cookies []*network.Cookie
	for _, c := range stored.Cookies {
		if c.Domain == ".x.com" || c.Domain == "x.com" {
			cookies = append(cookies, c)
		}
	}
	return cookies, nil
}
