package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/messaging/payloads"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// runWorker consumes collection requests and executes them until the context
// is cancelled.
func runWorker(
	ctx context.Context,
	logger *slog.Logger,
	collection usecase.CollectionUseCase,
	consumer ports.CollectionConsumer,
) error {
	logger.Info("worker started, waiting for collection requests")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	messageHandler := func(ctx context.Context, payload payloads.CollectionRequestPayload) error {
		if payload.ContestID == "" {
			results, err := collection.CollectAll(ctx)
			if err != nil {
				return err
			}
			for _, res := range results {
				logger.Info("collection result",
					"contest_id", res.ContestID,
					"created", res.Created,
					"skipped", res.Skipped,
					"failed", res.Failed,
					"error", res.Err,
				)
			}
			return nil
		}

		contestID, err := uuid.Parse(payload.ContestID)
		if err != nil {
			// malformed request, do not requeue endlessly — log and drop
			logger.Error("collection request with invalid contest id", "contest_id", payload.ContestID)
			return nil
		}

		result, err := collection.CollectForContest(ctx, contestID)
		if err != nil {
			return err
		}
		logger.Info("collection result",
			"contest_id", result.ContestID,
			"created", result.Created,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
		return nil
	}

	if err := consumer.StartConsumingCollectionRequests(workerCtx, messageHandler); err != nil {
		return fmt.Errorf("starting collection consumer: %w", err)
	}

	<-ctx.Done()
	logger.Info("termination signal received, stopping worker")
	cancelWorker()

	return nil
}
