package usecase

import (
	"context"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
	"github.com/google/uuid"
)

// ModerationUseCase is the state machine over entry status with the award
// label as auxiliary state. Both operations write status and award together
// in a single store round trip, and every successful transition invalidates
// the cached views of the affected contest.
type ModerationUseCase interface {
	// SetStatus moves the entry to pending, approved or rejected, from any
	// current status. The award is always cleared: an explicit status change
	// on a winner revokes its award as a deliberate side effect.
	SetStatus(ctx context.Context, entryID uuid.UUID, status domain.EntryStatus) (*domain.Entry, error)

	// SetAward grants (non-nil) or revokes (nil) the ranking tier. Granting
	// requires the entry to already be approved or winner and promotes it to
	// winner; revoking demotes it to approved. Both fields change together
	// or neither does.
	SetAward(ctx context.Context, entryID uuid.UUID, label *domain.AwardLabel) (*domain.Entry, error)

	// ListEntries serves both the admin moderation list (any status filter)
	// and the public gallery feed (approved only).
	ListEntries(ctx context.Context, contestID uuid.UUID, status *domain.EntryStatus, page, perPage int) ([]domain.Entry, error)
}
