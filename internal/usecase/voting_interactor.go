package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

type votingUseCase struct {
	ledger ports.VoteLedger
	logger *slog.Logger
}

func NewVotingUseCase(ledger ports.VoteLedger, logger *slog.Logger) VotingUseCase {
	return &votingUseCase{ledger: ledger, logger: logger}
}

func (uc *votingUseCase) CastVote(ctx context.Context, entryID, voterIdentity string) (*domain.VoteStatus, error) {
	id, err := parseVoteInput(entryID, voterIdentity)
	if err != nil {
		return nil, err
	}

	voteCount, err := uc.ledger.CastVote(ctx, id, voterIdentity)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			// expected on double-clicks and retries; hand the caller the
			// current state alongside the typed outcome
			status, statusErr := uc.ledger.GetVoteStatus(ctx, id, voterIdentity)
			if statusErr != nil {
				return nil, statusErr
			}
			return status, domain.ErrAlreadyVoted
		}
		return nil, err
	}

	return &domain.VoteStatus{VoteCount: voteCount, HasVoted: true}, nil
}

func (uc *votingUseCase) GetVoteStatus(ctx context.Context, entryID, voterIdentity string) (*domain.VoteStatus, error) {
	id, err := parseVoteInput(entryID, voterIdentity)
	if err != nil {
		return nil, err
	}
	return uc.ledger.GetVoteStatus(ctx, id, voterIdentity)
}

func parseVoteInput(entryID, voterIdentity string) (uuid.UUID, error) {
	if strings.TrimSpace(voterIdentity) == "" {
		return uuid.Nil, &domain.ValidationError{Field: "voter_identity", Reason: "voter identity is required"}
	}
	id, err := uuid.Parse(entryID)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "entry_id", Reason: "entry id is not a valid id"}
	}
	return id, nil
}
