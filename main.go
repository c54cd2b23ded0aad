package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/PoojaB26/tweet-tool-finder/internal/app"
	"github.com/PoojaB26/tweet-tool-finder/internal/auth"
	"github.com/PoojaB26/tweet-tool-finder/internal/classifier"
	"github.com/PoojaB26/tweet-tool-finder/internal/config"
	"github.com/PoojaB26/tweet-tool-finder/internal/forward"
	"github.com/PoojaB26/tweet-tool-finder/internal/pipeline"
	"github.com/PoojaB26/tweet-tool-finder/internal/quota"
	"github.com/PoojaB26/tweet-tool-finder/internal/scheduler"
	"github.com/PoojaB26/tweet-tool-finder/internal/store"
	"github.com/PoojaB26/tweet-tool-finder/internal/watcher"
)

func main() {
	login := flag.Bool("login", false, "open a browser window to log in to X.com and exit")
	logout := flag.Bool("logout", false, "clear the stored X.com session and exit")
	scanOnce := flag.Bool("scan-once", false, "do a single feed scan instead of watching continuously")
	export := flag.Bool("export", false, "write the saved collection as LLM context JSON to stdout and exit")
	flag.Parse()

	// Load or create configuration
	cfg, err := config.Load()
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Default()
			if saveErr := cfg.Save(); saveErr != nil {
				slog.Warn("could not save default config", "error", saveErr)
			} else {
				path, _ := config.ConfigPath()
				slog.Info("created default config", "path", path)
			}
		} else {
			slog.Warn("could not load config, using defaults", "error", err)
			cfg = config.Default()
		}
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger, *login, *logout, *scanOnce, *export); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, login, logout, scanOnce, export bool) error {
	if export {
		return exportContext()
	}

	sessionPath, err := auth.DefaultSessionPath()
	if err != nil {
		return err
	}
	authManager := auth.NewManager(auth.NewSessionStore(sessionPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if logout {
		if err := authManager.Logout(); err != nil && !os.IsNotExist(err) {
			return err
		}
		logger.Info("session cleared")
		return nil
	}
	if login {
		if err := authManager.Login(ctx); err != nil {
			return err
		}
		logger.Info("login successful, session saved")
		return nil
	}

	if cfg.API.Key == "" {
		path, _ := config.ConfigPath()
		logger.Error("no API key configured", "config", path)
		return errors.New("set api.key in the config file before scanning")
	}

	quotaDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	counter := quota.New(filepath.Join(quotaDir, "quota.json"), cfg.Scanning.DailyLimit)

	collection := pipeline.NewCollection(cfg.Scanning.MaxSaved)
	forwarder := forward.New(cfg.Store.Port)
	cls := classifier.New(cfg.API.Key, cfg.API.Model, cfg.API.MaxPromptChars)

	dispatcher := pipeline.NewDispatcher(cls, forwarder, counter, collection, pipeline.Options{
		MaxConcurrent:       cfg.Scanning.MaxConcurrent,
		ConfidenceThreshold: cfg.Scanning.ConfidenceThreshold,
		Status: func(msg string) {
			logger.Info(msg)
		},
	}, logger)
	defer dispatcher.Close()

	w := watcher.New(cfg.Scanning.Headless, watcher.Filter{
		MinTextLen:     cfg.Scanning.MinTextLen,
		IgnoredHandles: cfg.Scanning.IgnoredHandles,
	}, time.Duration(cfg.Scanning.DebounceMillis)*time.Millisecond, logger)

	a := app.New(cfg, authManager, w, dispatcher, collection, forwarder, logger)

	if scanOnce {
		return a.ScanOnce(ctx)
	}

	sched := scheduler.New(logger)
	if err := sched.AddDailyRollover(func(jobCtx context.Context) error {
		dispatcher.Rollover(jobCtx)
		return nil
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	logger.Info("tweet-tool-finder starting", "quota_resets", sched.NextRollover().Format(time.RFC3339))
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func exportContext() error {
	path, err := store.DefaultDataPath()
	if err != nil {
		return err
	}
	tweets, err := store.New(path).List()
	if err != nil {
		return err
	}
	return app.WriteContext(os.Stdout, tweets)
}
