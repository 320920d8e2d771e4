package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

type collectionUseCase struct {
	contestStore ports.ContestStore
	ingestion    IngestionUseCase
	logger       *slog.Logger
}

func NewCollectionUseCase(
	contestStore ports.ContestStore,
	ingestion IngestionUseCase,
	logger *slog.Logger,
) CollectionUseCase {
	return &collectionUseCase{
		contestStore: contestStore,
		ingestion:    ingestion,
		logger:       logger,
	}
}

func (uc *collectionUseCase) CollectAll(ctx context.Context) ([]domain.CollectionResult, error) {
	contests, err := uc.contestStore.ListActiveContests(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active contests: %w", err)
	}

	results := make([]domain.CollectionResult, 0, len(contests))
	for _, contest := range contests {
		result, err := uc.ingestion.IngestContest(ctx, contest)
		if err != nil {
			// contained at the per-contest boundary: record and move on
			result.Err = err.Error()
			uc.logger.Error("contest collection failed",
				"contest_id", contest.ID,
				"contest_name", contest.Name,
				"error", err,
			)
		}
		results = append(results, result)
	}

	uc.logger.Info("collection pass finished", "contests", len(results))
	return results, nil
}

func (uc *collectionUseCase) CollectForContest(ctx context.Context, contestID uuid.UUID) (domain.CollectionResult, error) {
	contest, err := uc.contestStore.GetContestByID(ctx, contestID)
	if err != nil {
		return domain.CollectionResult{ContestID: contestID}, err
	}

	result, err := uc.ingestion.IngestContest(ctx, *contest)
	if err != nil {
		return result, fmt.Errorf("collecting contest %s: %w", contestID, err)
	}
	return result, nil
}
