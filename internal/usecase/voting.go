package usecase

import (
	"context"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// VotingUseCase records at most one vote per (entry, voter) and answers the
// up-to-date tally. The voter identity is opaque: an authenticated user id
// and an anonymous client token are treated uniformly.
type VotingUseCase interface {
	// CastVote returns the updated status on success. On
	// domain.ErrAlreadyVoted the current status is still returned so the
	// caller can render the correct state.
	CastVote(ctx context.Context, entryID, voterIdentity string) (*domain.VoteStatus, error)

	// GetVoteStatus is a pure read.
	GetVoteStatus(ctx context.Context, entryID, voterIdentity string) (*domain.VoteStatus, error)
}
