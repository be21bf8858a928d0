package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carmarket/carmarket-go/internal/cache"
	"github.com/carmarket/carmarket-go/internal/config"
	"github.com/carmarket/carmarket-go/internal/crypto"
	"github.com/carmarket/carmarket-go/internal/handler"
	"github.com/carmarket/carmarket-go/internal/market"
	"github.com/carmarket/carmarket-go/internal/repository"
	"github.com/carmarket/carmarket-go/internal/service"
	"github.com/carmarket/carmarket-go/internal/telemetry"
)

const serviceName = "carmarket-api"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	}

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	listingCache, err := cache.New(cfg.CacheMaxEntries)
	if err != nil {
		slog.Error("cache setup failed", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(db, cfg.StoreTimeout)
	reader := market.NewReader(store, listingCache, market.Freshness{
		Listings: cfg.ListingsFreshness,
		Profile:  cfg.ProfileFreshness,
	})
	coordinator := market.NewCoordinator(store, listingCache)
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		crypto.NewHasher(crypto.DefaultHashParams()),
		cfg.JWTSecret,
		cfg.JWTExpiry,
	)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(handler.Deps{
			Auth:          authService,
			Reader:        reader,
			Coordinator:   coordinator,
			JWTSecret:     cfg.JWTSecret,
			FeaturedLimit: cfg.FeaturedLimit,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	stats := listingCache.Stats()
	slog.Info("cache stats", "entries", stats.Entries, "hits", stats.Hits, "misses", stats.Misses, "loads", stats.Loads, "shared", stats.Shared)
	listingCache.Purge()

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("tracing shutdown failed", "error", err)
	}
	if err := db.Close(); err != nil {
		slog.Warn("database close failed", "error", err)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if !cfg.Production() {
		opts.Level = slog.LevelDebug
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
}
