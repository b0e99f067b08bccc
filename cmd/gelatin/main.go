package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/gelatin/internal/blobstore"
	"github.com/example/gelatin/internal/config"
	"github.com/example/gelatin/internal/pipeline"
	"github.com/example/gelatin/internal/source"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gelatin:", err)
		os.Exit(1)
	}
}

func run() error {
	limit := flag.Int("limit", 0, "cap on new photos added this run (0 = unlimited)")
	dryRun := flag.Bool("dry-run", false, "report the diff without changing anything")
	catalogPath := flag.String("catalog", "", "override the catalogue path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}

	logger := newLogger(cfg.LogLevel).With("version", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var src source.Source
	switch cfg.Source {
	case config.SourceLibrary:
		lib := source.NewLibrary(cfg.LibraryTool, cfg.LibraryAlbum)
		defer lib.Close()
		src = lib
	default:
		src = source.NewFilesystem(cfg.PhotosDir)
	}

	store, err := blobstore.New(cfg)
	if err != nil {
		return err
	}
	if !*dryRun {
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
	}

	p := pipeline.New(cfg.CatalogPath, src, store, logger)
	sum, err := p.Run(ctx, *limit, *dryRun)
	if err != nil {
		return err
	}

	logger.Info("sync complete",
		"found", sum.Found,
		"added", sum.Added,
		"removed", sum.Removed,
		"unchanged", sum.Unchanged,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
