package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/config"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/handler"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// runServer starts the HTTP server and blocks until the context is cancelled.
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	ingestion usecase.IngestionUseCase,
	moderation usecase.ModerationUseCase,
	voting usecase.VotingUseCase,
	collection usecase.CollectionUseCase,
	collectionPublisher ports.CollectionPublisher,
) error {
	submissionHandler := handler.NewSubmissionHandler(ingestion, moderation, cfg.MaxUploadBytes, logger)
	voteHandler := handler.NewVoteHandler(voting, logger)
	adminHandler := handler.NewAdminHandler(moderation, logger)
	collectionHandler := handler.NewCollectionHandler(collection, collectionPublisher, logger)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Post("/entries", submissionHandler.SubmitEntry)
		r.Get("/contests/{contestID}/entries", submissionHandler.ListContestEntries)

		r.Post("/votes", voteHandler.CastVote)
		r.Get("/votes/status", voteHandler.GetVoteStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/entries", adminHandler.ListEntries)
			r.Patch("/entries/{entryID}/status", adminHandler.UpdateEntryStatus)
			r.Patch("/entries/{entryID}/award", adminHandler.UpdateEntryAward)
			r.Post("/collect", collectionHandler.TriggerCollectAll)
			r.Post("/collect/{contestID}", collectionHandler.TriggerCollectContest)
		})

		r.With(handler.CronAuth(cfg.CronSecret, logger)).
			Get("/cron/collect", collectionHandler.CronCollect)
	})

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("termination signal received, shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server shut down cleanly")
	return nil
}
