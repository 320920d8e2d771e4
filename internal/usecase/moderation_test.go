package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

type moderationFixture struct {
	entries     *fakeEntryStore
	invalidator *fakeInvalidator
	uc          ModerationUseCase

	contestID uuid.UUID
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()

	f := &moderationFixture{
		entries:     newFakeEntryStore(),
		invalidator: &fakeInvalidator{},
		contestID:   uuid.New(),
	}
	f.uc = NewModerationUseCase(f.entries, f.invalidator, testLogger())
	return f
}

func (f *moderationFixture) seedEntry(status domain.EntryStatus, award *domain.AwardLabel) uuid.UUID {
	id := uuid.New()
	f.entries.seed(domain.Entry{
		ID:            id,
		ContestID:     f.contestID,
		SourceMediaID: "ig-" + id.String()[:8],
		Status:        status,
		AwardLabel:    award,
	})
	return id
}

func TestSetStatus_Approves(t *testing.T) {
	f := newModerationFixture(t)
	id := f.seedEntry(domain.StatusPending, nil)

	entry, err := f.uc.SetStatus(context.Background(), id, domain.StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, entry.Status)
	assert.Nil(t, entry.AwardLabel)
	assert.Equal(t, []uuid.UUID{f.contestID}, f.invalidator.calls)
}

func TestSetStatus_RevokesAwardOnWinner(t *testing.T) {
	f := newModerationFixture(t)
	gold := domain.AwardGold
	id := f.seedEntry(domain.StatusWinner, &gold)

	entry, err := f.uc.SetStatus(context.Background(), id, domain.StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, entry.Status)
	assert.Nil(t, entry.AwardLabel, "status change on a winner must revoke the award")
}

func TestSetStatus_RejectsWinnerValue(t *testing.T) {
	f := newModerationFixture(t)
	id := f.seedEntry(domain.StatusApproved, nil)

	_, err := f.uc.SetStatus(context.Background(), id, domain.StatusWinner)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, f.invalidator.calls, "failed transition must not touch the cache")
}

func TestSetStatus_UnknownEntry(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.uc.SetStatus(context.Background(), uuid.New(), domain.StatusApproved)
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestSetAward_GrantPromotesToWinner(t *testing.T) {
	f := newModerationFixture(t)
	id := f.seedEntry(domain.StatusApproved, nil)

	gold := domain.AwardGold
	entry, err := f.uc.SetAward(context.Background(), id, &gold)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusWinner, entry.Status)
	require.NotNil(t, entry.AwardLabel)
	assert.Equal(t, domain.AwardGold, *entry.AwardLabel)
	assert.Equal(t, []uuid.UUID{f.contestID}, f.invalidator.calls)
}

func TestSetAward_ReassignOnWinner(t *testing.T) {
	f := newModerationFixture(t)
	gold := domain.AwardGold
	id := f.seedEntry(domain.StatusWinner, &gold)

	silver := domain.AwardSilver
	entry, err := f.uc.SetAward(context.Background(), id, &silver)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusWinner, entry.Status)
	assert.Equal(t, domain.AwardSilver, *entry.AwardLabel)
}

func TestSetAward_RevokeDemotesToApproved(t *testing.T) {
	f := newModerationFixture(t)
	bronze := domain.AwardBronze
	id := f.seedEntry(domain.StatusWinner, &bronze)

	entry, err := f.uc.SetAward(context.Background(), id, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, entry.Status)
	assert.Nil(t, entry.AwardLabel)
}

func TestSetAward_RequiresApprovedEntry(t *testing.T) {
	f := newModerationFixture(t)
	gold := domain.AwardGold

	for _, status := range []domain.EntryStatus{domain.StatusPending, domain.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			id := f.seedEntry(status, nil)

			_, err := f.uc.SetAward(context.Background(), id, &gold)
			require.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

func TestSetAward_UnknownLabel(t *testing.T) {
	f := newModerationFixture(t)
	id := f.seedEntry(domain.StatusApproved, nil)

	bad := domain.AwardLabel("platinum")
	_, err := f.uc.SetAward(context.Background(), id, &bad)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "award_label", vErr.Field)
}

func TestSetStatus_CacheFailureDoesNotFailTransition(t *testing.T) {
	f := newModerationFixture(t)
	f.invalidator.err = errors.New("valkey down")
	id := f.seedEntry(domain.StatusPending, nil)

	entry, err := f.uc.SetStatus(context.Background(), id, domain.StatusApproved)
	require.NoError(t, err, "a cache failure must not undo a committed decision")
	assert.Equal(t, domain.StatusApproved, entry.Status)
}

func TestListEntries_FiltersByStatus(t *testing.T) {
	f := newModerationFixture(t)
	f.seedEntry(domain.StatusApproved, nil)
	f.seedEntry(domain.StatusApproved, nil)
	f.seedEntry(domain.StatusPending, nil)

	approved := domain.StatusApproved
	entries, err := f.uc.ListEntries(context.Background(), f.contestID, &approved, 1, 20)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	all, err := f.uc.ListEntries(context.Background(), f.contestID, nil, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
