package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"modelpulse/internal/catalog"
	catfile "modelpulse/internal/catalog/file"
	gsheets "modelpulse/internal/catalog/google"
	mem "modelpulse/internal/catalog/memory"
	"modelpulse/internal/cli"
	apphttp "modelpulse/internal/http"
	"modelpulse/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	var releases catalog.ReleaseReader
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.Open(cfg.SQLitePath)
		if err != nil {
			logger.Error("Failed to open SQLite catalog", "error", err, "path", cfg.SQLitePath)
			os.Exit(1)
		}
		defer repo.Close()
		releases = repo
	case "sheets":
		src, err := gsheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets source", "error", err)
			os.Exit(1)
		}
		releases = src
	case "memory":
		releases = mem.Demo()
	default:
		releases = catfile.New(cfg.DatasetPath)
	}
	logger.Info("Initialized dataset backend", "backend", cfg.DataBackend)

	// A missing or malformed dataset is fatal at startup; there is no
	// transient cause to retry against.
	snap, err := releases.ListReleases(ctx)
	if err != nil {
		logger.Error("Dataset unreadable at startup", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Dataset loaded", "records", len(snap.Records), "skipped", snap.Skipped)

	srv := apphttp.NewServer(":"+cfg.Port, releases, apphttp.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting modelpulse server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
