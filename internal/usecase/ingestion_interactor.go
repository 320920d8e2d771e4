package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// ingestionUseCase implements IngestionUseCase.
type ingestionUseCase struct {
	entryStore   ports.EntryStore
	contestStore ports.ContestStore
	fileStorage  ports.FileStorage
	harvester    ports.MediaHarvester
	maxUpload    int64
	logger       *slog.Logger
}

func NewIngestionUseCase(
	entryStore ports.EntryStore,
	contestStore ports.ContestStore,
	fileStorage ports.FileStorage,
	harvester ports.MediaHarvester,
	maxUploadBytes int64,
	logger *slog.Logger,
) IngestionUseCase {
	return &ingestionUseCase{
		entryStore:   entryStore,
		contestStore: contestStore,
		fileStorage:  fileStorage,
		harvester:    harvester,
		maxUpload:    maxUploadBytes,
		logger:       logger,
	}
}

// SubmitUpload validates the form fields and the file, stores the blob under
// a contest-namespaced collision-resistant key, then creates the pending
// entry. If the insert fails for any reason the just-uploaded blob is deleted
// so no orphan survives.
func (uc *ingestionUseCase) SubmitUpload(ctx context.Context, sub UploadSubmission) (*domain.Entry, error) {
	contestID, err := uc.validateUpload(&sub)
	if err != nil {
		return nil, err
	}

	if _, err := uc.contestStore.GetContestByID(ctx, contestID); err != nil {
		if errors.Is(err, domain.ErrContestNotFound) {
			return nil, &domain.ValidationError{Field: "contest_id", Reason: "unknown contest"}
		}
		return nil, fmt.Errorf("checking contest: %w", err)
	}

	// Read the whole file once: the size cap bounds memory and the sniffer
	// needs the leading bytes before the uploader consumes the stream.
	data, err := io.ReadAll(io.LimitReader(sub.File, uc.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "file", Reason: "file is empty"}
	}
	if int64(len(data)) > uc.maxUpload {
		return nil, &domain.ValidationError{Field: "file", Reason: fmt.Sprintf("file exceeds %d MB limit", uc.maxUpload>>20)}
	}

	// Sniff the content, never trust the client's Content-Type.
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") {
		return nil, &domain.ValidationError{Field: "file", Reason: "only JPEG and PNG files are accepted"}
	}

	key := fmt.Sprintf("contests/%s/%s%s", contestID, uuid.New(), mtype.Extension())
	mediaURL, err := uc.fileStorage.UploadFile(ctx, key, bytes.NewReader(data), mtype.String())
	if err != nil {
		uc.logger.Error("failed to store upload", "contest_id", contestID, "key", key, "error", err)
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	email := strings.TrimSpace(sub.Email)
	entry := &domain.Entry{
		ID:            uuid.New(),
		ContestID:     contestID,
		SourceMediaID: uploadSourceMediaID(sub.SubmissionToken),
		MediaURL:      mediaURL,
		MediaType:     domain.MediaImage,
		Username:      strings.TrimSpace(sub.Nickname),
		Email:         &email,
		Title:         strings.TrimSpace(sub.Title),
		Caption:       strings.TrimSpace(sub.Description),
		CollectedAt:   time.Now(),
	}

	if err := uc.entryStore.CreatePendingEntry(ctx, entry); err != nil {
		// Scoped cleanup: the blob must not outlive a failed insert. On a
		// duplicate the earlier attempt already owns its own object.
		if delErr := uc.fileStorage.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Warn("failed to delete orphaned upload", "key", key, "error", delErr)
		}
		if errors.Is(err, domain.ErrDuplicateMedia) {
			return nil, err
		}
		uc.logger.Error("failed to persist upload entry", "contest_id", contestID, "error", err)
		return nil, fmt.Errorf("persisting entry: %w", err)
	}

	uc.logger.Info("upload submitted",
		"entry_id", entry.ID,
		"contest_id", contestID,
		"username", entry.Username,
	)
	return entry, nil
}

func (uc *ingestionUseCase) validateUpload(sub *UploadSubmission) (uuid.UUID, error) {
	if sub.File == nil {
		return uuid.Nil, &domain.ValidationError{Field: "file", Reason: "file is required"}
	}
	if strings.TrimSpace(sub.ContestID) == "" {
		return uuid.Nil, &domain.ValidationError{Field: "contest_id", Reason: "contest id is required"}
	}
	contestID, err := uuid.Parse(sub.ContestID)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "contest_id", Reason: "contest id is not a valid id"}
	}
	if strings.TrimSpace(sub.Nickname) == "" {
		return uuid.Nil, &domain.ValidationError{Field: "nickname", Reason: "nickname is required"}
	}
	if strings.TrimSpace(sub.Email) == "" {
		return uuid.Nil, &domain.ValidationError{Field: "email", Reason: "email is required"}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(sub.Email)); err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "email", Reason: "email address is malformed"}
	}
	return contestID, nil
}

// uploadSourceMediaID synthesizes the dedup key of a direct upload. The
// "upload:" prefix keeps manual entries out of the platform media id space;
// a client-supplied token makes the key stable across retries.
func uploadSourceMediaID(token string) string {
	if t := strings.TrimSpace(token); t != "" {
		return "upload:" + t
	}
	return fmt.Sprintf("upload:%s-%s", time.Now().UTC().Format("20060102150405"), uuid.NewString()[:8])
}

// IngestContest fetches every configured hashtag of the contest and attempts
// to ingest each candidate item. An unreachable source is a contest-level
// failure and propagates; per-item failures only mark that item.
func (uc *ingestionUseCase) IngestContest(ctx context.Context, contest domain.Contest) (domain.CollectionResult, error) {
	result := domain.CollectionResult{ContestID: contest.ID, ContestName: contest.Name}

	for _, hashtag := range contest.HashtagList() {
		items, err := uc.harvester.FetchRecentMediaByHashtag(ctx, hashtag)
		if err != nil {
			return result, fmt.Errorf("harvesting hashtag %q: %w", hashtag, err)
		}

		for i := range items {
			entry := harvestedToEntry(contest.ID, &items[i])
			err := uc.entryStore.CreatePendingEntry(ctx, entry)
			switch {
			case errors.Is(err, domain.ErrDuplicateMedia):
				// already ingested in a prior run, expected
				result.Skipped++
			case err != nil:
				result.Failed++
				uc.logger.Error("failed to ingest harvested item",
					"contest_id", contest.ID,
					"source_media_id", items[i].MediaID,
					"error", err,
				)
			default:
				result.Created++
			}
		}
	}

	uc.logger.Info("contest collection finished",
		"contest_id", contest.ID,
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func harvestedToEntry(contestID uuid.UUID, item *domain.HarvestedMedia) *domain.Entry {
	var sourceTS *time.Time
	if !item.Timestamp.IsZero() {
		ts := item.Timestamp
		sourceTS = &ts
	}
	return &domain.Entry{
		ID:              uuid.New(),
		ContestID:       contestID,
		SourceMediaID:   item.MediaID,
		MediaURL:        item.MediaURL,
		Permalink:       item.Permalink,
		MediaType:       item.MediaType,
		Username:        item.Username,
		Caption:         item.Caption,
		SourceTimestamp: sourceTS,
		CollectedAt:     time.Now(),
	}
}
