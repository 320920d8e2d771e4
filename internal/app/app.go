package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/config"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/database/client"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// App bundles the wired application for either run mode.
type App struct {
	Config *config.Config
	logger *slog.Logger

	dbClient *client.Client

	ingestion  usecase.IngestionUseCase
	moderation usecase.ModerationUseCase
	voting     usecase.VotingUseCase
	collection usecase.CollectionUseCase

	collectionPublisher ports.CollectionPublisher
	collectionConsumer  ports.CollectionConsumer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	dbClient *client.Client,
	ingestion usecase.IngestionUseCase,
	moderation usecase.ModerationUseCase,
	voting usecase.VotingUseCase,
	collection usecase.CollectionUseCase,
	collectionPublisher ports.CollectionPublisher,
	collectionConsumer ports.CollectionConsumer,
) *App {
	return &App{
		Config:              cfg,
		logger:              logger,
		dbClient:            dbClient,
		ingestion:           ingestion,
		moderation:          moderation,
		voting:              voting,
		collection:          collection,
		collectionPublisher: collectionPublisher,
		collectionConsumer:  collectionConsumer,
	}
}

// LoggerIns exposes the configured application logger.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run starts the selected mode and blocks until a termination signal.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.logger, a.ingestion, a.moderation, a.voting, a.collection, a.collectionPublisher)
	case "worker":
		err = runWorker(ctx, a.logger, a.collection, a.collectionConsumer)
	default:
		err = fmt.Errorf("unknown mode: %s (use 'server' or 'worker')", mode)
	}
	if err != nil {
		return err
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("error during shutdown", "error", closeErr)
	}

	a.logger.Info("stopped cleanly")
	return nil
}

// Shutdown releases the application resources.
func (a *App) Shutdown() error {
	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}

	if closer, ok := a.collectionPublisher.(interface{ Close() }); ok {
		closer.Close()
	}

	return nil
}
