package usecase

import (
	"context"
	"io"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// UploadSubmission carries one direct form submission into the gateway.
type UploadSubmission struct {
	ContestID   string
	Nickname    string
	Email       string
	Title       string
	Description string

	// SubmissionToken, when the client provides one, makes the submission
	// replay-safe: a retry after a timeout hits the dedup key instead of
	// creating a second entry.
	SubmissionToken string

	File     io.Reader
	Filename string
}

// IngestionUseCase is the media ingestion gateway: it turns one external
// submission (manual upload or harvested social post) into a validated
// pending entry, or reports why it was rejected or skipped, without ever
// producing a duplicate for the same (contest, source media) pair.
type IngestionUseCase interface {
	// SubmitUpload validates the submission, stores the binary and creates
	// the pending entry. A failed insert never leaves an orphaned blob.
	SubmitUpload(ctx context.Context, sub UploadSubmission) (*domain.Entry, error)

	// IngestContest harvests the contest's hashtags and ingests every
	// candidate item. Duplicates are silent skips; any other per-item failure
	// is counted and never stops the remaining items.
	IngestContest(ctx context.Context, contest domain.Contest) (domain.CollectionResult, error)
}
