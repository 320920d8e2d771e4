package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEntryStore is an in-memory EntryStore that mirrors the database
// semantics: dedup on (contest_id, source_media_id), coupled status/award
// writes, conditional award transition.
type fakeEntryStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*domain.Entry
	dedup   map[string]uuid.UUID

	createErr    error
	createErrFor string // source media id that should fail to insert
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{
		entries: make(map[uuid.UUID]*domain.Entry),
		dedup:   make(map[string]uuid.UUID),
	}
}

func dedupKey(contestID uuid.UUID, sourceMediaID string) string {
	return fmt.Sprintf("%s|%s", contestID, sourceMediaID)
}

func (f *fakeEntryStore) CreatePendingEntry(ctx context.Context, entry *domain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if f.createErrFor != "" && entry.SourceMediaID == f.createErrFor {
		return fmt.Errorf("insert failed for %s", entry.SourceMediaID)
	}

	key := dedupKey(entry.ContestID, entry.SourceMediaID)
	if _, exists := f.dedup[key]; exists {
		return domain.ErrDuplicateMedia
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Status = domain.StatusPending
	entry.AwardLabel = nil
	entry.VoteCount = 0

	stored := *entry
	f.entries[entry.ID] = &stored
	f.dedup[key] = entry.ID
	return nil
}

func (f *fakeEntryStore) GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryStore) ListEntriesByContest(ctx context.Context, contestID uuid.UUID, status *domain.EntryStatus, page, perPage int) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Entry
	for _, e := range f.entries {
		if e.ContestID != contestID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEntryStore) SetEntryStatus(ctx context.Context, id uuid.UUID, status domain.EntryStatus) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	entry.Status = status
	entry.AwardLabel = nil
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryStore) SetEntryAward(ctx context.Context, id uuid.UUID, label *domain.AwardLabel) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	if entry.Status != domain.StatusApproved && entry.Status != domain.StatusWinner {
		return nil, domain.ErrInvalidTransition
	}

	status, award, err := domain.AwardChange(label)
	if err != nil {
		return nil, err
	}
	entry.Status = status
	entry.AwardLabel = award
	copied := *entry
	return &copied, nil
}

// seed inserts an entry bypassing the pending reset, for arranging state.
func (f *fakeEntryStore) seed(entry domain.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	stored := entry
	f.entries[entry.ID] = &stored
	f.dedup[dedupKey(entry.ContestID, entry.SourceMediaID)] = entry.ID
}

type fakeContestStore struct {
	contests map[uuid.UUID]domain.Contest
	listErr  error
}

func newFakeContestStore(contests ...domain.Contest) *fakeContestStore {
	f := &fakeContestStore{contests: make(map[uuid.UUID]domain.Contest)}
	for _, c := range contests {
		f.contests[c.ID] = c
	}
	return f
}

func (f *fakeContestStore) GetContestByID(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	c, ok := f.contests[id]
	if !ok {
		return nil, domain.ErrContestNotFound
	}
	return &c, nil
}

func (f *fakeContestStore) ListActiveContests(ctx context.Context) ([]domain.Contest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Contest
	for _, c := range f.contests {
		if c.Status == domain.ContestActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeFileStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: make(map[string][]byte)}
}

func (f *fakeFileStorage) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	f.objects[key] = buf.Bytes()
	return "http://storage.test/media/" + key, nil
}

func (f *fakeFileStorage) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeHarvester struct {
	media map[string][]domain.HarvestedMedia
	errs  map[string]error
}

func newFakeHarvester() *fakeHarvester {
	return &fakeHarvester{
		media: make(map[string][]domain.HarvestedMedia),
		errs:  make(map[string]error),
	}
}

func (f *fakeHarvester) FetchRecentMediaByHashtag(ctx context.Context, hashtag string) ([]domain.HarvestedMedia, error) {
	if err, ok := f.errs[hashtag]; ok {
		return nil, err
	}
	return f.media[hashtag], nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (f *fakeInvalidator) InvalidateContestViews(ctx context.Context, contestID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, contestID)
	return f.err
}

// fakeVoteLedger enforces the at-most-once guarantee under a single lock, so
// concurrent casts behave like the unique index would.
type fakeVoteLedger struct {
	mu     sync.Mutex
	voters map[uuid.UUID]map[string]bool
	counts map[uuid.UUID]int
}

func newFakeVoteLedger(entryIDs ...uuid.UUID) *fakeVoteLedger {
	f := &fakeVoteLedger{
		voters: make(map[uuid.UUID]map[string]bool),
		counts: make(map[uuid.UUID]int),
	}
	for _, id := range entryIDs {
		f.voters[id] = make(map[string]bool)
	}
	return f
}

func (f *fakeVoteLedger) CastVote(ctx context.Context, entryID uuid.UUID, voterIdentity string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	voters, ok := f.voters[entryID]
	if !ok {
		return 0, domain.ErrEntryNotFound
	}
	if voters[voterIdentity] {
		return 0, domain.ErrAlreadyVoted
	}
	voters[voterIdentity] = true
	f.counts[entryID]++
	return f.counts[entryID], nil
}

func (f *fakeVoteLedger) GetVoteStatus(ctx context.Context, entryID uuid.UUID, voterIdentity string) (*domain.VoteStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	voters, ok := f.voters[entryID]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &domain.VoteStatus{
		VoteCount: f.counts[entryID],
		HasVoted:  voters[voterIdentity],
	}, nil
}
