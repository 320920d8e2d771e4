package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// ContestStorage implements ports.ContestStore. Read-only: contest CRUD
// belongs to the admin backend, this pipeline only scopes work by contest.
type ContestStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewContestStorage(db *sqlx.DB, logger *slog.Logger) *ContestStorage {
	return &ContestStorage{db: db, logger: logger}
}

func (s *ContestStorage) GetContestByID(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	var contest domain.Contest
	err := s.db.GetContext(ctx, &contest, `SELECT * FROM contests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContestNotFound
		}
		s.logger.Error("failed to get contest", "id", id, "error", err)
		return nil, fmt.Errorf("getting contest by id: %w", err)
	}
	return &contest, nil
}

// ListActiveContests returns contests currently collecting entries.
func (s *ContestStorage) ListActiveContests(ctx context.Context) ([]domain.Contest, error) {
	var contests []domain.Contest
	err := s.db.SelectContext(ctx, &contests, `
		SELECT * FROM contests
		WHERE status = $1
		ORDER BY created_at DESC
	`, domain.ContestActive)
	if err != nil {
		s.logger.Error("failed to list active contests", "error", err)
		return nil, fmt.Errorf("listing active contests: %w", err)
	}
	return contests, nil
}
