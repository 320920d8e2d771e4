package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// PostgreSQL error codes the ledger interprets as expected outcomes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// VoteStorage implements ports.VoteLedger on PostgreSQL via sqlx.
type VoteStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewVoteStorage(db *sqlx.DB, logger *slog.Logger) *VoteStorage {
	return &VoteStorage{db: db, logger: logger}
}

// CastVote inserts the vote row and bumps the entry's denormalized tally in
// one transaction. The unique index on (entry_id, voter_identity) is the
// at-most-once guard: a conflicting insert surfaces as pq 23505 and maps to
// domain.ErrAlreadyVoted, which keeps concurrent double-clicks and retries
// correct without any check-then-act sequence.
func (s *VoteStorage) CastVote(ctx context.Context, entryID uuid.UUID, voterIdentity string) (int, error) {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin vote transaction", "entry_id", entryID, "error", err)
		return 0, fmt.Errorf("beginning vote transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (id, entry_id, voter_identity, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), entryID, voterIdentity, time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case pgUniqueViolation:
				return 0, domain.ErrAlreadyVoted
			case pgForeignKeyViolation:
				return 0, domain.ErrEntryNotFound
			}
		}
		s.logger.Error("failed to insert vote", "entry_id", entryID, "error", err)
		return 0, fmt.Errorf("inserting vote: %w", err)
	}

	var voteCount int
	err = tx.QueryRowContext(ctx, `
		UPDATE entries
		SET vote_count = vote_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING vote_count
	`, entryID).Scan(&voteCount)
	if err != nil {
		s.logger.Error("failed to increment vote count", "entry_id", entryID, "error", err)
		return 0, fmt.Errorf("incrementing vote count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit vote", "entry_id", entryID, "error", err)
		return 0, fmt.Errorf("committing vote: %w", err)
	}

	s.logger.Info("vote cast",
		"entry_id", entryID,
		"vote_count", voteCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return voteCount, nil
}

// GetVoteStatus returns the entry's tally and whether this voter already
// voted. Pure read, no side effects.
func (s *VoteStorage) GetVoteStatus(ctx context.Context, entryID uuid.UUID, voterIdentity string) (*domain.VoteStatus, error) {
	var voteCount int
	err := s.db.GetContext(ctx, &voteCount, `SELECT vote_count FROM entries WHERE id = $1`, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		s.logger.Error("failed to read vote count", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("reading vote count: %w", err)
	}

	var hasVoted bool
	err = s.db.GetContext(ctx, &hasVoted, `
		SELECT EXISTS(
			SELECT 1 FROM votes WHERE entry_id = $1 AND voter_identity = $2
		)
	`, entryID, voterIdentity)
	if err != nil {
		s.logger.Error("failed to check vote existence", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("checking vote existence: %w", err)
	}

	return &domain.VoteStatus{VoteCount: voteCount, HasVoted: hasVoted}, nil
}
