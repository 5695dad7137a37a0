package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/macrolens/diary/config"
	httpDelivery "github.com/macrolens/diary/internal/delivery/http"
	"github.com/macrolens/diary/internal/infrastructure/cache"
	"github.com/macrolens/diary/internal/infrastructure/persistence"
	"github.com/macrolens/diary/internal/infrastructure/usda"
	applog "github.com/macrolens/diary/internal/log"
	"github.com/macrolens/diary/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		applog.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	applog.Info(ctx, "starting MacroLens diary",
		"version", httpDelivery.Version,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"database", cfg.Database.Driver)

	db, err := persistence.Open(persistence.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer persistence.Close(db)

	if cfg.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// Repositories
	foods := persistence.NewFoodRepository(db)
	dishes := persistence.NewCustomDishRepository(db)
	recipes := persistence.NewRecipeRepository(db)
	entries := persistence.NewDiaryRepository(db)

	if cfg.Database.Seed {
		if _, err := persistence.SeedFoods(ctx, foods); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	// Infrastructure
	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	defer memoryCache.Close()

	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL,
		usda.WithRequestsPerHour(cfg.RateLimit.USDA),
		usda.WithHTTPClient(&http.Client{Timeout: cfg.USDA.Timeout}))
	if cfg.USDA.APIKey == "DEMO_KEY" {
		applog.Warn(ctx, "[USDA] using DEMO_KEY; imports are heavily rate limited")
	}

	// Usecases
	summary := usecase.NewSummaryService(entries)
	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Catalog: usecase.NewCatalogService(foods, dishes, recipes, usdaClient, memoryCache, usecase.CatalogServiceConfig{
			MinMatchConfidence: cfg.Matching.MinConfidence,
			FuzzyMatching:      cfg.Matching.Fuzzy,
			CacheTTL:           cfg.Cache.TTL,
		}),
		Diary:       usecase.NewDiaryService(usecase.NewSourceResolver(foods, dishes, recipes), entries),
		Summary:     summary,
		Targets:     usecase.NewTargetService(persistence.NewTargetRepository(db)),
		BodyMetrics: usecase.NewBodyMetricService(persistence.NewBodyMetricRepository(db)),
		Ping: func(ctx context.Context) error {
			return persistence.Ping(ctx, db)
		},
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: httpDelivery.SetupRouter(cfg, handler),
	}

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	applog.Info(context.Background(), "shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
