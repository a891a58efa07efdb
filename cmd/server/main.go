package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/prohanzla/CalorieTracker-sub000/config"
	"github.com/prohanzla/CalorieTracker-sub000/internal/auth"
	httpDelivery "github.com/prohanzla/CalorieTracker-sub000/internal/delivery/http"
	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/cache"
	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/estimator"
	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/media"
	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/openfoodfacts"
	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/store"
	"github.com/prohanzla/CalorieTracker-sub000/internal/logging"
	"github.com/prohanzla/CalorieTracker-sub000/internal/realtime"
	"github.com/prohanzla/CalorieTracker-sub000/internal/usecase"
)

func main() {
	// Values from a local .env are picked up through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Server.Environment)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting calorietracker backend")

	db, err := store.Open(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal().Err(err).Msg("database unavailable")
	}

	users := store.NewUserStore(db)
	products := store.NewProductStore(db)
	logs := store.NewLogStore(db)
	templates := store.NewTemplateStore(db)
	activity := store.NewActivityStore(db)

	memoryCache := cache.NewMemoryCache(0)
	lookup := openfoodfacts.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.UserAgent, logger)
	aiClient := estimator.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.RequestsPerMinute, logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	hub := realtime.NewHub()
	catalog := domain.DefaultCatalog()

	// Image uploads stay disabled until a bucket is configured.
	var images domain.ImageStore
	if cfg.Media.Bucket != "" {
		uploader, err := media.NewUploader(context.Background(),
			cfg.Media.Bucket, cfg.Media.Region, cfg.Media.PublicURL, cfg.Media.KeyPrefix, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("media store unavailable")
		}
		images = uploader
		logger.Info().Str("bucket", cfg.Media.Bucket).Msg("image uploads enabled")
	} else {
		logger.Info().Msg("image uploads disabled: no bucket configured")
	}

	userSvc := usecase.NewUserService(users, tokens, logger)
	productSvc := usecase.NewProductService(products, lookup, memoryCache, usecase.ProductServiceConfig{
		LookupCacheTTL: cfg.Lookup.CacheTTL,
	}, logger)
	logSvc := usecase.NewLogService(logs, users, products, activity, catalog, usecase.LogServiceConfig{
		Rollup: usecase.RollupOptions{PreferEntryAmountForGramUnits: cfg.Rollup.PreferEntryAmountForGramUnits},
		Bonus: usecase.BonusFactors{
			SugarGramsPerKcal: cfg.Bonus.SugarGramsPerKcal,
			SodiumMgPerKcal:   cfg.Bonus.SodiumMgPerKcal,
		},
	}, logger)
	entrySvc := usecase.NewEntryService(logs, products, logSvc, logger)
	estimateSvc := usecase.NewEstimateService(aiClient, templates, products, entrySvc, logSvc, catalog, logger)
	activitySvc := usecase.NewActivityService(activity, logger)

	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Users:     userSvc,
		Products:  productSvc,
		Entries:   entrySvc,
		Logs:      logSvc,
		Estimates: estimateSvc,
		Activity:  activitySvc,
	}, hub, images, logger)

	router := httpDelivery.SetupRouter(cfg, handler, tokens, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
