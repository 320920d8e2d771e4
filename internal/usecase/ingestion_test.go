package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

// jpegBytes returns a minimal buffer that sniffs as image/jpeg.
func jpegBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00})
	return data
}

func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'})
	return data
}

type ingestionFixture struct {
	entries  *fakeEntryStore
	contests *fakeContestStore
	files    *fakeFileStorage
	source   *fakeHarvester
	uc       IngestionUseCase

	contest domain.Contest
}

func newIngestionFixture(t *testing.T, maxUpload int64) *ingestionFixture {
	t.Helper()

	contest := domain.Contest{
		ID:       uuid.New(),
		Name:     "Summer Photo Contest",
		Status:   domain.ContestActive,
		Hashtags: "summerphoto",
	}

	f := &ingestionFixture{
		entries:  newFakeEntryStore(),
		contests: newFakeContestStore(contest),
		files:    newFakeFileStorage(),
		source:   newFakeHarvester(),
		contest:  contest,
	}
	f.uc = NewIngestionUseCase(f.entries, f.contests, f.files, f.source, maxUpload, testLogger())
	return f
}

func validSubmission(contestID uuid.UUID, file []byte) UploadSubmission {
	return UploadSubmission{
		ContestID:   contestID.String(),
		Nickname:    "hana",
		Email:       "hana@example.com",
		Title:       "Beach at dusk",
		Description: "taken last weekend",
		File:        bytes.NewReader(file),
		Filename:    "beach.jpg",
	}
}

func TestSubmitUpload_CreatesPendingEntry(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	entry, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, jpegBytes(128)))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, entry.Status)
	assert.Nil(t, entry.AwardLabel)
	assert.Equal(t, f.contest.ID, entry.ContestID)
	assert.Equal(t, domain.MediaImage, entry.MediaType)
	assert.Equal(t, "hana", entry.Username)
	assert.True(t, strings.HasPrefix(entry.SourceMediaID, "upload:"))
	assert.Contains(t, entry.MediaURL, "contests/"+f.contest.ID.String()+"/")

	require.Len(t, f.files.objects, 1)
}

func TestSubmitUpload_AcceptsPNG(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	entry, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, pngBytes(64)))
	require.NoError(t, err)
	assert.Contains(t, entry.MediaURL, ".png")
}

func TestSubmitUpload_RejectsNonImage(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	_, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, []byte("definitely not an image")))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file", vErr.Field)
	assert.Empty(t, f.files.objects, "rejected file must not reach storage")
}

func TestSubmitUpload_RejectsOversizedFile(t *testing.T) {
	f := newIngestionFixture(t, 64)

	_, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, jpegBytes(65)))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file", vErr.Field)
}

func TestSubmitUpload_ValidatesFields(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	tests := []struct {
		name      string
		mutate    func(*UploadSubmission)
		wantField string
	}{
		{
			name:      "missing file",
			mutate:    func(s *UploadSubmission) { s.File = nil },
			wantField: "file",
		},
		{
			name:      "missing contest id",
			mutate:    func(s *UploadSubmission) { s.ContestID = "" },
			wantField: "contest_id",
		},
		{
			name:      "malformed contest id",
			mutate:    func(s *UploadSubmission) { s.ContestID = "not-a-uuid" },
			wantField: "contest_id",
		},
		{
			name:      "missing nickname",
			mutate:    func(s *UploadSubmission) { s.Nickname = "  " },
			wantField: "nickname",
		},
		{
			name:      "missing email",
			mutate:    func(s *UploadSubmission) { s.Email = "" },
			wantField: "email",
		},
		{
			name:      "malformed email",
			mutate:    func(s *UploadSubmission) { s.Email = "not-an-address" },
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission(f.contest.ID, jpegBytes(64))
			tt.mutate(&sub)

			_, err := f.uc.SubmitUpload(context.Background(), sub)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestSubmitUpload_UnknownContest(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	_, err := f.uc.SubmitUpload(context.Background(), validSubmission(uuid.New(), jpegBytes(64)))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "contest_id", vErr.Field)
}

func TestSubmitUpload_CleansUpBlobWhenInsertFails(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)
	f.entries.createErr = errors.New("connection reset")

	_, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, jpegBytes(64)))
	require.Error(t, err)

	assert.Empty(t, f.files.objects, "blob must not outlive a failed insert")
	assert.Len(t, f.files.deleted, 1)
}

func TestSubmitUpload_RetryWithTokenIsIdempotent(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	sub := validSubmission(f.contest.ID, jpegBytes(64))
	sub.SubmissionToken = "client-retry-abc"
	first, err := f.uc.SubmitUpload(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "upload:client-retry-abc", first.SourceMediaID)

	retry := validSubmission(f.contest.ID, jpegBytes(64))
	retry.SubmissionToken = "client-retry-abc"
	_, err = f.uc.SubmitUpload(context.Background(), retry)
	require.ErrorIs(t, err, domain.ErrDuplicateMedia)

	// only the first attempt's blob survives
	assert.Len(t, f.files.objects, 1)
	assert.Len(t, f.files.deleted, 1)
}

func TestSubmitUpload_WithoutTokenTwoUploadsAreDistinct(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	first, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, jpegBytes(64)))
	require.NoError(t, err)

	second, err := f.uc.SubmitUpload(context.Background(), validSubmission(f.contest.ID, jpegBytes(64)))
	require.NoError(t, err)

	assert.NotEqual(t, first.SourceMediaID, second.SourceMediaID)
}

func TestIngestContest_CountsOutcomes(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)

	f.source.media["summerphoto"] = []domain.HarvestedMedia{
		{MediaID: "ig-1", Username: "ayu", MediaType: domain.MediaImage},
		{MediaID: "ig-2", Username: "ken", MediaType: domain.MediaVideo},
		{MediaID: "ig-3", Username: "mio", MediaType: domain.MediaImage},
	}
	// ig-2 was ingested in a previous pass
	f.entries.seed(domain.Entry{
		ContestID:     f.contest.ID,
		SourceMediaID: "ig-2",
		Status:        domain.StatusApproved,
	})
	// ig-3 hits a store fault
	f.entries.createErrFor = "ig-3"

	result, err := f.uc.IngestContest(context.Background(), f.contest)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
}

func TestIngestContest_UnreachableSourceFails(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)
	f.source.errs["summerphoto"] = errors.New("graph API returned status 500")

	_, err := f.uc.IngestContest(context.Background(), f.contest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summerphoto")
}

func TestIngestContest_MultipleHashtags(t *testing.T) {
	f := newIngestionFixture(t, 1<<20)
	f.contest.Hashtags = "summerphoto,#photocon2026"

	f.source.media["summerphoto"] = []domain.HarvestedMedia{{MediaID: "ig-10"}}
	f.source.media["photocon2026"] = []domain.HarvestedMedia{{MediaID: "ig-11"}}

	result, err := f.uc.IngestContest(context.Background(), f.contest)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
}
