package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/carmarket/carmarket-go/internal/cache"
	"github.com/carmarket/carmarket-go/internal/config"
	"github.com/carmarket/carmarket-go/internal/market"
	"github.com/carmarket/carmarket-go/internal/repository"
	"github.com/carmarket/carmarket-go/internal/seed"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	c, err := cache.New(cfg.CacheMaxEntries)
	if err != nil {
		slog.Error("cache setup failed", "error", err)
		os.Exit(1)
	}
	store := repository.NewStore(db, cfg.StoreTimeout)
	reader := market.NewReader(store, c, market.Freshness{Listings: cfg.ListingsFreshness, Profile: cfg.ProfileFreshness})
	coordinator := market.NewCoordinator(store, c)

	n, err := seed.Load(ctx, reader, coordinator, seed.Cars)
	if err != nil {
		slog.Error("seed failed", "created", n, "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "created", n, "catalogue", len(seed.Cars))
}
