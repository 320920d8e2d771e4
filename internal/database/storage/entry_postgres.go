package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// EntryStorage implements ports.EntryStore on PostgreSQL via GORM.
type EntryStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewEntryStorage(db *gorm.DB, logger *slog.Logger) *EntryStorage {
	return &EntryStorage{db: db, logger: logger}
}

// CreatePendingEntry inserts the entry in pending state. The uniqueness check
// and the insert are one statement: INSERT ... ON CONFLICT DO NOTHING over the
// (contest_id, source_media_id) index. Zero affected rows means the media was
// already ingested and maps to domain.ErrDuplicateMedia — no separate
// existence check, so concurrent duplicate submissions stay safe.
func (s *EntryStorage) CreatePendingEntry(ctx context.Context, entry *domain.Entry) error {
	start := time.Now()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Status = domain.StatusPending
	entry.AwardLabel = nil
	entry.VoteCount = 0
	if entry.CollectedAt.IsZero() {
		entry.CollectedAt = time.Now()
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contest_id"}, {Name: "source_media_id"}},
		DoNothing: true,
	}).Create(entry)
	if result.Error != nil {
		s.logger.Error("failed to insert entry",
			"contest_id", entry.ContestID,
			"source_media_id", entry.SourceMediaID,
			"error", result.Error,
		)
		return fmt.Errorf("inserting entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDuplicateMedia
	}

	s.logger.Info("entry created",
		"id", entry.ID,
		"contest_id", entry.ContestID,
		"source_media_id", entry.SourceMediaID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetEntryByID fetches one entry.
func (s *EntryStorage) GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	var entry domain.Entry
	result := s.db.WithContext(ctx).First(&entry, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		s.logger.Error("failed to get entry by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("getting entry by id: %w", result.Error)
	}
	return &entry, nil
}

// ListEntriesByContest lists entries of one contest, newest first, optionally
// filtered by status.
func (s *EntryStorage) ListEntriesByContest(ctx context.Context, contestID uuid.UUID, status *domain.EntryStatus, page, perPage int) ([]domain.Entry, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	q := s.db.WithContext(ctx).Where("contest_id = ?", contestID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var entries []domain.Entry
	result := q.Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&entries)
	if result.Error != nil {
		s.logger.Error("failed to list entries", "contest_id", contestID, "error", result.Error)
		return nil, fmt.Errorf("listing entries: %w", result.Error)
	}
	return entries, nil
}

// SetEntryStatus writes (status, NULL award) in one UPDATE. Allowed from any
// current status; a winner loses its award as part of the same statement, so
// status and award can never be observed inconsistent.
func (s *EntryStorage) SetEntryStatus(ctx context.Context, id uuid.UUID, status domain.EntryStatus) (*domain.Entry, error) {
	entry := domain.Entry{ID: id}
	result := s.db.WithContext(ctx).
		Model(&entry).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"award_label": nil,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		s.logger.Error("failed to update entry status", "id", id, "status", status, "error", result.Error)
		return nil, fmt.Errorf("updating entry status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrEntryNotFound
	}

	s.logger.Info("entry status updated", "id", id, "status", status)
	return &entry, nil
}

// SetEntryAward writes the coupled (status, award) pair in one conditional
// UPDATE. The WHERE clause guards the transition: awards only move between
// approved and winner, so granting on a pending or rejected entry affects
// zero rows and is reported as an invalid transition (or not-found, decided
// with a follow-up read).
func (s *EntryStorage) SetEntryAward(ctx context.Context, id uuid.UUID, label *domain.AwardLabel) (*domain.Entry, error) {
	status, award, err := domain.AwardChange(label)
	if err != nil {
		return nil, err
	}

	entry := domain.Entry{ID: id}
	result := s.db.WithContext(ctx).
		Model(&entry).
		Clauses(clause.Returning{}).
		Where("id = ? AND status IN ?", id, []domain.EntryStatus{domain.StatusApproved, domain.StatusWinner}).
		Updates(map[string]interface{}{
			"status":      status,
			"award_label": award,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		s.logger.Error("failed to update entry award", "id", id, "error", result.Error)
		return nil, fmt.Errorf("updating entry award: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var probe domain.Entry
		if probeErr := s.db.WithContext(ctx).First(&probe, "id = ?", id).Error; probeErr != nil {
			if errors.Is(probeErr, gorm.ErrRecordNotFound) {
				return nil, domain.ErrEntryNotFound
			}
			return nil, fmt.Errorf("checking entry after award update: %w", probeErr)
		}
		return nil, domain.ErrInvalidTransition
	}

	s.logger.Info("entry award updated", "id", id, "status", status)
	return &entry, nil
}
