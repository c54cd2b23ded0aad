package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/PoojaB26/tweet-tool-finder/internal/browser"
)

// Manager handles interactive login and session lifecycle.
type Manager struct {
	sessions *SessionStore
}

func NewManager(sessions *SessionStore) *Manager {
	return &Manager{sessions: sessions}
}

// Authenticated reports whether a usable session is on disk.
func (m *Manager) Authenticated() bool {
	return m.sessions.Valid()
}

// Login opens a visible browser window, waits for the user to sign in to
// X.com, then captures and stores the session cookies.
func (m *Manager) Login(ctx context.Context) error {
	opts := append(browser.Options(false),
		chromedp.Flag("start-maximized", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate("https://x.com/login")); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	if err := m.waitForLogin(browserCtx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cookies, err := captureCookies(browserCtx)
	if err != nil {
		return fmt.Errorf("failed to capture cookies: %w", err)
	}

	if err := m.sessions.Save(cookies); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// waitForLogin polls the tab until it lands on the home feed with an
// auth_token cookie set, or gives up after 5 minutes.
func (m *Manager) waitForLogin(ctx context.Context) error {
	timeout := time.After(5 * time.Minute)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return fmt.Errorf("login timeout exceeded")
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			var url string
			if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
				continue
			}
			if url != "https://x.com/home" && url != "https://twitter.com/home" {
				continue
			}

			cookies, err := captureCookies(ctx)
			if err != nil {
				continue
			}
			for _, c := range cookies {
				if c.Name == "auth_token" && c.Value != "" {
					return nil
				}
			}
		}
	}
}

func captureCookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
	)
	return cookies, err
}

// Logout discards the stored session.
func (m *Manager) Logout() error {
	return m.sessions.Clear()
}

// Cookies returns the stored feed cookies for the watcher.
func (m *Manager) Cookies() ([]*network.Cookie, error) {
	return m.sessions.FeedCookies()
}
