package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

type moderationUseCase struct {
	entryStore  ports.EntryStore
	invalidator ports.ViewInvalidator
	logger      *slog.Logger
}

func NewModerationUseCase(
	entryStore ports.EntryStore,
	invalidator ports.ViewInvalidator,
	logger *slog.Logger,
) ModerationUseCase {
	return &moderationUseCase{
		entryStore:  entryStore,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *moderationUseCase) SetStatus(ctx context.Context, entryID uuid.UUID, status domain.EntryStatus) (*domain.Entry, error) {
	newStatus, _, err := domain.StatusChange(status)
	if err != nil {
		return nil, err
	}

	// The read is for the operator log only; the write below is a single
	// unconditional statement and does not depend on it.
	if current, err := uc.entryStore.GetEntryByID(ctx, entryID); err == nil && current.Status == domain.StatusWinner {
		uc.logger.Warn("explicit status change revokes award",
			"entry_id", entryID,
			"new_status", newStatus,
		)
	}

	entry, err := uc.entryStore.SetEntryStatus(ctx, entryID, newStatus)
	if err != nil {
		return nil, err
	}

	uc.invalidateViews(ctx, entry.ContestID)

	uc.logger.Info("entry status set", "entry_id", entryID, "status", newStatus)
	return entry, nil
}

func (uc *moderationUseCase) SetAward(ctx context.Context, entryID uuid.UUID, label *domain.AwardLabel) (*domain.Entry, error) {
	if _, _, err := domain.AwardChange(label); err != nil {
		return nil, err
	}

	entry, err := uc.entryStore.SetEntryAward(ctx, entryID, label)
	if err != nil {
		return nil, err
	}

	uc.invalidateViews(ctx, entry.ContestID)

	if label != nil {
		uc.logger.Info("award granted", "entry_id", entryID, "award_label", *label)
	} else {
		uc.logger.Info("award revoked", "entry_id", entryID)
	}
	return entry, nil
}

func (uc *moderationUseCase) ListEntries(ctx context.Context, contestID uuid.UUID, status *domain.EntryStatus, page, perPage int) ([]domain.Entry, error) {
	entries, err := uc.entryStore.ListEntriesByContest(ctx, contestID, status, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// invalidateViews drops the cached contest views. A cache failure must not
// undo a committed moderation decision, so it is logged and swallowed.
func (uc *moderationUseCase) invalidateViews(ctx context.Context, contestID uuid.UUID) {
	if err := uc.invalidator.InvalidateContestViews(ctx, contestID); err != nil {
		uc.logger.Warn("failed to invalidate contest views", "contest_id", contestID, "error", err)
	}
}
