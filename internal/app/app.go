// Package app wires the watcher, classification pipeline, and sync client
// into the scanner daemon.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/network"

	"github.com/PoojaB26/tweet-tool-finder/internal/auth"
	"github.com/PoojaB26/tweet-tool-finder/internal/config"
	"github.com/PoojaB26/tweet-tool-finder/internal/forward"
	"github.com/PoojaB26/tweet-tool-finder/internal/pipeline"
	"github.com/PoojaB26/tweet-tool-finder/internal/types"
	"github.com/PoojaB26/tweet-tool-finder/internal/watcher"
)

// App holds the scanner daemon's components.
type App struct {
	cfg        *config.Config
	auth       *auth.Manager
	watcher    *watcher.Watcher
	dispatcher *pipeline.Dispatcher
	collection *pipeline.Collection
	forwarder  *forward.Client
	log        *slog.Logger
}

func New(cfg *config.Config, am *auth.Manager, w *watcher.Watcher, d *pipeline.Dispatcher, col *pipeline.Collection, fwd *forward.Client, log *slog.Logger) *App {
	return &App{
		cfg:        cfg,
		auth:       am,
		watcher:    w,
		dispatcher: d,
		collection: col,
		forwarder:  fwd,
		log:        log,
	}
}

// Authenticated reports whether an X.com session is stored.
func (a *App) Authenticated() bool {
	return a.auth.Authenticated()
}

// Login runs the interactive X.com login flow.
func (a *App) Login(ctx context.Context) error {
	a.log.Info("opening browser for X.com login")
	if err := a.auth.Login(ctx); err != nil {
		return err
	}
	a.log.Info("login successful, session saved")
	return nil
}

// Logout clears the stored session.
func (a *App) Logout() error {
	if err := a.auth.Logout(); err != nil {
		return err
	}
	a.log.Info("session cleared")
	return nil
}

// Run watches the feed until ctx is cancelled, pushing each extracted
// batch into the classification pipeline. Tweets already in the store
// service are pre-seeded so restarts do not reclassify them.
func (a *App) Run(ctx context.Context) error {
	cookies, err := a.sessionCookies()
	if err != nil {
		return err
	}

	a.seedFromStore(ctx)

	if a.cfg.Scanning.Paused || !a.cfg.Scanning.AutoScan {
		a.dispatcher.Pause()
		a.log.Info("scanning is paused in config; tweets will not be classified")
	}

	return a.watcher.Watch(ctx, cookies, func(tweets []types.Tweet) {
		a.dispatcher.Enqueue(ctx, tweets)
	})
}

// ScanOnce does a single extraction pass over the feed and waits for the
// pipeline to finish classifying it.
func (a *App) ScanOnce(ctx context.Context) error {
	cookies, err := a.sessionCookies()
	if err != nil {
		return err
	}

	a.seedFromStore(ctx)

	tweets, err := a.watcher.ScanOnce(ctx, cookies)
	if err != nil {
		return err
	}
	a.log.Info("extracted tweets", "count", len(tweets))

	a.dispatcher.Enqueue(ctx, tweets)
	a.dispatcher.Wait()

	// One full sync at the end catches anything the per-tweet forwards
	// missed, e.g. if the store came up mid-scan.
	if items := a.collection.Snapshot(); len(items) > 0 {
		if err := a.forwarder.ForwardAll(ctx, items); err != nil {
			a.log.Debug("full sync failed", "error", err)
		}
	}

	a.log.Info("scan complete", "found", a.collection.Len())
	return nil
}

func (a *App) sessionCookies() ([]*network.Cookie, error) {
	if !a.auth.Authenticated() {
		return nil, fmt.Errorf("not logged in to X.com, run with -login first")
	}
	cookies, err := a.auth.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to load session cookies: %w", err)
	}
	return cookies, nil
}

// seedFromStore marks tweets already persisted by the store service as
// processed. Best effort: the service may not be running.
func (a *App) seedFromStore(ctx context.Context) {
	ids := a.forwarder.SavedIDs(ctx)
	if len(ids) > 0 {
		a.dispatcher.SeedSeen(ids)
		a.log.Debug("seeded processed tweets from store", "count", len(ids))
	}
}
