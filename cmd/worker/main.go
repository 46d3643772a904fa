package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reachradar/reachradar/internal/config"
	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/queue"
	"github.com/reachradar/reachradar/internal/repository"
	"github.com/reachradar/reachradar/internal/scraper"
	"github.com/reachradar/reachradar/internal/service"
)

func main() {
	// Initialize logger from environment
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
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

	influencerRepo := repository.NewInfluencerRepository(db)
	postRepo := repository.NewPostRepository(db)
	jobRepo := repository.NewScrapJobRepository(db)

	registry := newScraperRegistry(cfg, jobRepo)

	profileSync := service.NewProfileSyncService(influencerRepo, registry, appLogger)
	postSync := service.NewPostSyncService(influencerRepo, postRepo, registry, appLogger)
	handler := service.NewScrapWebhookHandler(jobRepo, registry, profileSync, postSync, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := queue.NewConsumer(ctx, queueConfig(cfg), handler, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize queue consumer")
	}

	appLogger.WithField("queue_url", cfg.Queue.QueueURL).Info("Worker started")

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		appLogger.WithError(err).Fatal("Consumer stopped unexpectedly")
	}

	appLogger.Info("Worker exited")
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
