package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/api"
	"github.com/farecast/farecast-go/internal/api/handlers"
	"github.com/farecast/farecast-go/internal/cache"
	"github.com/farecast/farecast-go/internal/config"
	"github.com/farecast/farecast-go/internal/database"
	"github.com/farecast/farecast-go/internal/logging"
	"github.com/farecast/farecast-go/internal/providers"
	"github.com/farecast/farecast-go/internal/services"
)

func main() {
	// Load .env if present; real deployments rely on the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	historyRepo := database.NewHistoryRepository(db.Pool)
	seasonalRepo := database.NewSeasonalRepository(db.Pool)
	fareCache := cache.NewRedisFareCache(redis.Client, cfg.FareCache.TTLDuration(), logger)

	provs := providers.FromConfig(cfg.Providers)
	if len(provs) == 0 {
		logger.Warn("No fare providers enabled; searches will return empty results")
	}

	searchTimeout := cfg.Providers.SearchTimeoutDuration()
	seasonalLearner := services.NewSeasonalLearner(seasonalRepo, time.Duration(cfg.Seasonal.FreshnessDays)*24*time.Hour, logger)
	flexScanner := services.NewFlexDateScanner(historyRepo, fareCache, provs, searchTimeout, logger)
	searchService := services.NewSearchService(provs, historyRepo, seasonalLearner, fareCache, flexScanner, searchTimeout, logger)
	historyService := services.NewHistoryService(historyRepo, logger)

	retention := services.NewRetentionService(historyRepo, seasonalRepo, services.RetentionConfig{
		SnapshotRetention: time.Duration(cfg.History.RetentionDays) * 24 * time.Hour,
		BucketStaleness:   time.Duration(cfg.Seasonal.FreshnessDays) * 24 * time.Hour,
		Interval:          time.Duration(cfg.History.CleanupIntervalMinutes) * time.Minute,
	}, logger)
	retention.Start()
	defer retention.Stop()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api.SetupRoutes(router, db, redis,
		handlers.NewSearchHandler(searchService, logger),
		handlers.NewHistoryHandler(historyService),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
