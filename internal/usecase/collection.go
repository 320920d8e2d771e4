package usecase

import (
	"context"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
	"github.com/google/uuid"
)

// CollectionUseCase drives the ingestion gateway's harvest path across
// contests, on a timer or on demand.
type CollectionUseCase interface {
	// CollectAll runs collection for every active contest with per-contest
	// fault isolation: one contest's failure is recorded in its result and
	// never aborts the others.
	CollectAll(ctx context.Context) ([]domain.CollectionResult, error)

	// CollectForContest runs collection for a single contest and fails
	// loudly, since there is no sibling work to protect.
	CollectForContest(ctx context.Context, contestID uuid.UUID) (domain.CollectionResult, error)
}
