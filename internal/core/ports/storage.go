package ports

import (
	"context"
	"io"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
	"github.com/google/uuid"
)

// EntryStore defines the persistent entry store. CreatePendingEntry performs
// the uniqueness check and the insert as one atomic statement; callers treat
// domain.ErrDuplicateMedia as an expected outcome, never as a fault.
type EntryStore interface {
	CreatePendingEntry(ctx context.Context, entry *domain.Entry) error
	GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	ListEntriesByContest(ctx context.Context, contestID uuid.UUID, status *domain.EntryStatus, page, perPage int) ([]domain.Entry, error)

	// SetEntryStatus writes (status, NULL award) in a single statement,
	// allowed from any current status.
	SetEntryStatus(ctx context.Context, id uuid.UUID, status domain.EntryStatus) (*domain.Entry, error)

	// SetEntryAward writes the coupled (status, award) pair in a single
	// conditional statement: a non-nil label requires the entry to already be
	// approved or winner and promotes it to winner; nil demotes to approved.
	SetEntryAward(ctx context.Context, id uuid.UUID, label *domain.AwardLabel) (*domain.Entry, error)
}

// VoteLedger records at most one vote per (entry, voter) and maintains the
// denormalized tally on the entry row, atomically.
type VoteLedger interface {
	// CastVote returns the updated tally, domain.ErrAlreadyVoted on a
	// duplicate, or domain.ErrEntryNotFound.
	CastVote(ctx context.Context, entryID uuid.UUID, voterIdentity string) (int, error)

	// GetVoteStatus is a pure read with no side effects.
	GetVoteStatus(ctx context.Context, entryID uuid.UUID, voterIdentity string) (*domain.VoteStatus, error)
}

// ContestStore exposes the read-only contest queries this pipeline needs.
type ContestStore interface {
	GetContestByID(ctx context.Context, id uuid.UUID) (*domain.Contest, error)
	ListActiveContests(ctx context.Context) ([]domain.Contest, error)
}

// FileStorage is the object storage for submitted media binaries.
type FileStorage interface {
	// UploadFile stores the object under key and returns its public URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile removes the object; used to clean up an uploaded blob when
	// the subsequent store insert fails.
	DeleteFile(ctx context.Context, key string) error
}

// MediaHarvester yields candidate media items for a hashtag. The concrete
// harvesting mechanics (API, pagination, rate limits) stay behind this
// boundary.
type MediaHarvester interface {
	FetchRecentMediaByHashtag(ctx context.Context, hashtag string) ([]domain.HarvestedMedia, error)
}

// ViewInvalidator drops cached views derived from entry state: the admin
// entry list, the public ranking page, and the public gallery of a contest.
type ViewInvalidator interface {
	InvalidateContestViews(ctx context.Context, contestID uuid.UUID) error
}
