package di

import (
	"fmt"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/adapter/cache"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/adapter/instagram"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/adapter/storage/s3"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/app"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/config"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/database/client"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/database/storage"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/logger"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/rabbitmq"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// BuildApp assembles the application graph: config, logger, database,
// external adapters, use cases.
func BuildApp() (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	dbClient, err := client.NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	entryStore := storage.NewEntryStorage(dbClient.Gorm, log)
	contestStore := storage.NewContestStorage(dbClient.DB, log)
	voteLedger := storage.NewVoteStorage(dbClient.DB, log)

	fileStorage, err := s3.NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing object storage: %w", err)
	}

	harvester := instagram.NewClient(cfg)

	var invalidator ports.ViewInvalidator
	if cfg.CacheAddr != "" {
		valkeyInvalidator, err := cache.NewValkeyInvalidator(cfg.CacheAddr, log)
		if err != nil {
			return nil, fmt.Errorf("initializing cache: %w", err)
		}
		invalidator = valkeyInvalidator
	} else {
		log.Warn("no cache address configured, view invalidation disabled")
		invalidator = cache.NoopInvalidator{}
	}

	mqClient, err := rabbitmq.NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing RabbitMQ: %w", err)
	}

	ingestion := usecase.NewIngestionUseCase(entryStore, contestStore, fileStorage, harvester, cfg.MaxUploadBytes, log)
	moderation := usecase.NewModerationUseCase(entryStore, invalidator, log)
	voting := usecase.NewVotingUseCase(voteLedger, log)
	collection := usecase.NewCollectionUseCase(contestStore, ingestion, log)

	return app.NewApp(
		cfg,
		log,
		dbClient,
		ingestion,
		moderation,
		voting,
		collection,
		mqClient,
		mqClient,
	), nil
}
