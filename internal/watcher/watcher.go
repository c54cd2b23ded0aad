// Package watcher drives a Chrome session on the X.com feed and surfaces
// new tweets as the user scrolls. Discovery is mutation-driven: a page-side
// MutationObserver signals the Go side through a CDP binding, and extraction
// runs once the DOM has settled.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bep/debounce"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/PoojaB26/tweet-tool-finder/internal/browser"
	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// bindingName is the CDP binding the page script calls on DOM mutations.
const bindingName = "__feedMutated"

const feedContainer = `[data-testid="primaryColumn"]`

// Watcher owns the browser session and extraction rules.
type Watcher struct {
	headless bool
	filter   Filter
	debounce time.Duration
	log      *slog.Logger
}

// New creates a watcher. A zero debounce falls back to 1.5s.
func New(headless bool, filter Filter, debounceDur time.Duration, log *slog.Logger) *Watcher {
	if debounceDur <= 0 {
		debounceDur = 1500 * time.Millisecond
	}
	return &Watcher{headless: headless, filter: filter, debounce: debounceDur, log: log}
}

// Watch opens the feed and calls sink with each batch of extracted tweets
// until ctx is cancelled. Deduplication is the caller's concern; the same
// tweet may appear in multiple batches.
func (w *Watcher) Watch(ctx context.Context, cookies []*network.Cookie, sink func([]types.Tweet)) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, browser.Options(w.headless)...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	if err := injectCookies(browserCtx, cookies); err != nil {
		return fmt.Errorf("failed to inject cookies: %w", err)
	}

	scan := func() {
		tweets, err := w.extract(browserCtx)
		if err != nil {
			// The tab may be navigating or closing.
			w.log.Debug("extraction failed", "error", err)
			return
		}
		if len(tweets) > 0 {
			sink(tweets)
		}
	}

	debounced := debounce.New(w.debounce)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*runtime.EventBindingCalled); ok && e.Name == bindingName {
			debounced(scan)
		}
	})

	if err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return runtime.AddBinding(bindingName).Do(ctx)
		}),
		chromedp.Navigate("https://x.com/home"),
		chromedp.WaitVisible(feedContainer, chromedp.ByQuery),
		chromedp.Evaluate(observeJS, nil),
	); err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	w.log.Info("watching feed")

	// Pick up tweets already on screen before the first mutation.
	scan()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-browserCtx.Done():
		return browserCtx.Err()
	}
}

// ScanOnce opens the feed, extracts the currently visible tweets, and
// returns. Used for one-shot scans without the mutation loop.
func (w *Watcher) ScanOnce(ctx context.Context, cookies []*network.Cookie) ([]types.Tweet, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, browser.Options(w.headless)...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, 2*time.Minute)
	defer timeoutCancel()

	if err := injectCookies(browserCtx, cookies); err != nil {
		return nil, fmt.Errorf("failed to inject cookies: %w", err)
	}

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate("https://x.com/home"),
		chromedp.WaitVisible(feedContainer, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	// Give the timeline a moment to render past the skeleton state.
	time.Sleep(2 * time.Second)

	return w.extract(browserCtx)
}

// injectCookies sets session cookies in the browser context before navigation.
func injectCookies(ctx context.Context, cookies []*network.Cookie) error {
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cookies {
				err := network.SetCookie(c.Name, c.Value).
					WithDomain(c.Domain).
					WithPath(c.Path).
					WithSecure(c.Secure).
					WithHTTPOnly(c.HTTPOnly).
					WithSameSite(c.SameSite).
					Do(ctx)

				if err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

func (w *Watcher) extract(ctx context.Context) ([]types.Tweet, error) {
	var raws []rawTweet
	if err := chromedp.Run(ctx, chromedp.Evaluate(extractJS, &raws)); err != nil {
		return nil, fmt.Errorf("failed to extract tweets from DOM: %w", err)
	}
	return w.filter.Normalize(raws), nil
}

// observeJS installs a MutationObserver on the timeline that pings the
// Go side through the CDP binding whenever new content appears.
const observeJS = `
	(function() {
		if (window.__feedObserver) return true;
		const target = document.querySelector('main') || document.body;
		window.__feedObserver = new MutationObserver(() => {
			if (window.` + bindingName + `) window.` + bindingName + `('');
		});
		window.__feedObserver.observe(target, { childList: true, subtree: true });
		return true;
	})()
`

// extractJS pulls candidate tweets out of the visible timeline. Pages
// without a feed (settings, DMs, login) return nothing. ID extraction and
// filtering happen on the Go side.
const extractJS = `
	(function() {
		const path = window.location.pathname;
		const skipPages = ['/settings', '/messages', '/i/', '/login', '/signup'];
		if (skipPages.some(p => path.startsWith(p))) return [];

		const articles = document.querySelectorAll('article[data-testid="tweet"]');
		const results = [];

		articles.forEach(article => {
			try {
				// The permalink wraps the timestamp element.
				const timeEl = article.querySelector('time');
				const linkEl = timeEl ? timeEl.closest('a') : null;
				const url = linkEl ? linkEl.href : '';
				if (!url) return;

				const tweetTextEl = article.querySelector('[data-testid="tweetText"]');
				const text = tweetTextEl ? tweetTextEl.textContent.trim() : '';
				if (!text) return;

				let author = '';
				let handle = '';
				article.querySelectorAll('a[role="link"]').forEach(link => {
					const href = link.getAttribute('href');
					if (href && href.match(/^\/[^/]+$/) && !handle) {
						handle = '@' + href.slice(1);
						const nameSpan = link.querySelector('span');
						if (nameSpan) author = nameSpan.textContent;
					}
				});

				const avatarImg = article.querySelector('img[src*="profile_images"]');
				const avatar = avatarImg ? avatarImg.src : '';

				results.push({ url, text, author, handle, avatar });
			} catch (e) {
				// Skip tweets that fail to parse.
			}
		});

		return results;
	})()
`
