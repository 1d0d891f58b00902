package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/macrolens/macrolens/internal/cache"
	"github.com/macrolens/macrolens/internal/catalog"
	"github.com/macrolens/macrolens/internal/config"
	"github.com/macrolens/macrolens/internal/ingest"
	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/router"
	"github.com/macrolens/macrolens/internal/services"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Dashboard service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	ctx := logging.WithLogger(context.Background(), logger)

	cat, err := catalog.Load(cfg.Data.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", "path", cfg.Data.CatalogPath, "error", err)
	}

	// The service does not start without a complete dataset
	store, err := ingest.LoadStore(ctx, cfg.Data.Source, ingest.FetchOptions{
		Timeout:    cfg.Data.FetchTimeout,
		MaxRetries: cfg.Data.FetchRetries,
		RetryDelay: cfg.Data.RetryDelay,
	})
	if err != nil {
		logger.Fatal("Failed to load dataset", "error", err)
	}

	memo, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "type", cfg.Cache.Type, "error", err)
	}
	defer func() { _ = memo.Close() }()
	if cfg.CacheEnabled() {
		logger.Info("Cache initialized", "type", cfg.Cache.Type, "compress", cfg.Cache.Compress, "ttl", cfg.Cache.TTL)
	} else {
		logger.Warn("Cache DISABLED - every request recomputes its result")
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	dashboard := services.NewDashboardService(logger, store, cat, memo)
	app := router.New(logger, dashboard, *cfg)

	go func() {
		addr := cfg.Address()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	hits, misses := memo.Stats()
	if entries, ok := memo.Entries(); ok {
		logger.Info("Cache usage", "active", entries.Active, "expired", entries.Expired)
	}
	logger.Info("Server exited", "cache_hits", hits, "cache_misses", misses)
}
