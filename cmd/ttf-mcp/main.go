// ttf-mcp is the store service: it persists tweets forwarded by the
// scanner over a loopback HTTP endpoint and serves the collection to MCP
// clients over stdio.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/PoojaB26/tweet-tool-finder/internal/config"
	"github.com/PoojaB26/tweet-tool-finder/internal/mcptool"
	"github.com/PoojaB26/tweet-tool-finder/internal/store"
)

const version = "1.0.0"

func main() {
	port := flag.Int("port", 0, "sync server port (default from config)")
	dataPath := flag.String("data", "", "path to the collection file (default in the user data dir)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// stdout belongs to the MCP transport, so logs go to stderr.
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *port, *dataPath); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, port int, dataPath string) error {
	if port == 0 {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		port = cfg.Store.Port
	}

	if dataPath == "" {
		var err error
		dataPath, err = store.DefaultDataPath()
		if err != nil {
			return err
		}
	}
	st := store.New(dataPath)
	logger.Info("store service starting", "data", dataPath, "port", port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tweet-tool-finder",
		Version: version,
	}, nil)
	mcptool.Register(server, st)

	httpServer := store.NewServer(st, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(ctx, port)
	})
	g.Go(func() error {
		return server.Run(ctx, &mcp.StdioTransport{})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
