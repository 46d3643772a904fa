package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reachradar/reachradar/internal/api"
	"github.com/reachradar/reachradar/internal/api/middleware"
	"github.com/reachradar/reachradar/internal/config"
	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/queue"
	"github.com/reachradar/reachradar/internal/repository"
	"github.com/reachradar/reachradar/internal/scraper"
	"github.com/reachradar/reachradar/internal/service"
	"github.com/reachradar/reachradar/internal/storage"
)

func main() {
	// Initialize logger from environment
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	influencerRepo := repository.NewInfluencerRepository(db)
	postRepo := repository.NewPostRepository(db)
	jobRepo := repository.NewScrapJobRepository(db)

	// Initialize scraper registry
	registry := newScraperRegistry(cfg, jobRepo)

	// Initialize services
	profileSync := service.NewProfileSyncService(influencerRepo, registry, appLogger)
	postSync := service.NewPostSyncService(influencerRepo, postRepo, registry, appLogger)
	runner := service.NewTaskRunner(2, 64, appLogger)
	defer runner.Shutdown()

	// Initialize queue publisher for the webhook relay
	ctx := context.Background()
	publisher, err := queue.NewPublisher(ctx, queueConfig(cfg), appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize queue publisher")
	}

	// Optional raw-payload archive
	var archiver *storage.Archiver
	if cfg.Archive.Enabled {
		store, err := storage.NewS3Storage(&storage.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize archive storage")
		}
		if err := store.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure archive bucket")
		}
		archiver = storage.NewArchiver(store, appLogger)
	}

	// Setup router
	router := api.SetupRouter(api.RouterDeps{
		DB:          db,
		Influencers: influencerRepo,
		Posts:       postRepo,
		ProfileSync: profileSync,
		PostSync:    postSync,
		Runner:      runner,
		Publisher:   publisher,
		Archiver:    archiver,
		Logger:      appLogger,
		Mode:        cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}

// newScraperRegistry maps file configuration onto the scraper package.
func newScraperRegistry(cfg *config.Config, ledger scraper.JobLedger) *scraper.Registry {
	datasets := make(map[domain.Platform]scraper.DatasetIDs, len(cfg.Scraper.Datasets))
	for platform, ids := range cfg.Scraper.Datasets {
		datasets[domain.Platform(platform)] = scraper.DatasetIDs{
			Profile: ids.ProfileDatasetID,
			Posts:   ids.PostsDatasetID,
		}
	}
	return scraper.NewRegistry(&scraper.Config{
		APIKey:         cfg.Scraper.APIKey,
		BaseURL:        cfg.Scraper.BaseURL,
		WebhookBaseURL: cfg.Scraper.WebhookBaseURL,
		TriggerTimeout: cfg.Scraper.TriggerTimeout,
		Datasets:       datasets,
	}, ledger)
}

func queueConfig(cfg *config.Config) *queue.Config {
	return &queue.Config{
		Region:      cfg.Queue.Region,
		QueueURL:    cfg.Queue.QueueURL,
		Endpoint:    cfg.Queue.Endpoint,
		AccessKey:   cfg.Queue.AccessKey,
		SecretKey:   cfg.Queue.SecretKey,
		MaxInFlight: cfg.Queue.MaxInFlight,
		WaitSeconds: cfg.Queue.WaitSeconds,
	}
}
