package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus is the moderation state of an entry.
type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
	StatusWinner   EntryStatus = "winner"
)

// AwardLabel is the ranking tier of a winning entry.
type AwardLabel string

const (
	AwardGold   AwardLabel = "gold"
	AwardSilver AwardLabel = "silver"
	AwardBronze AwardLabel = "bronze"
)

// MediaType distinguishes image and video entries.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Entry represents one submitted photo and its moderation state,
// maps to the entries table.
//
// Dedup key: (contest_id, source_media_id) is unique. Social-sourced entries
// carry the platform media id; direct uploads carry a synthesized
// "upload:<token>" id, so the two populations can never collide.
type Entry struct {
	ID              uuid.UUID   `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ContestID       uuid.UUID   `json:"contest_id" db:"contest_id" gorm:"type:uuid;not null;uniqueIndex:idx_entries_contest_source"`
	SourceMediaID   string      `json:"source_media_id" db:"source_media_id" gorm:"not null;uniqueIndex:idx_entries_contest_source"`
	MediaURL        string      `json:"media_url" db:"media_url"`
	Permalink       string      `json:"permalink" db:"permalink"`
	MediaType       MediaType   `json:"media_type" db:"media_type"`
	Username        string      `json:"username" db:"username"`
	Email           *string     `json:"email,omitempty" db:"email"`
	Title           string      `json:"title" db:"title"`
	Caption         string      `json:"caption" db:"caption"`
	UserID          *uuid.UUID  `json:"user_id,omitempty" db:"user_id" gorm:"type:uuid"`
	Status          EntryStatus `json:"status" db:"status"`
	AwardLabel      *AwardLabel `json:"award_label" db:"award_label"`
	VoteCount       int         `json:"vote_count" db:"vote_count"`
	CollectedAt     time.Time   `json:"collected_at" db:"collected_at"`
	SourceTimestamp *time.Time  `json:"source_timestamp,omitempty" db:"source_timestamp"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

func (Entry) TableName() string {
	return "entries"
}

// ValidExplicitStatus reports whether s is one of the statuses an operator may
// set directly. "winner" is excluded: it is only reachable through an award
// grant, never through a plain status change.
func ValidExplicitStatus(s EntryStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ValidAwardLabel reports whether l names a known ranking tier.
func ValidAwardLabel(l AwardLabel) bool {
	switch l {
	case AwardGold, AwardSilver, AwardBronze:
		return true
	}
	return false
}

// StatusChange computes the coupled (status, award) pair for an explicit
// status change. The award is always cleared: status and award are written
// together so the award⇔winner invariant cannot be violated at the write site.
func StatusChange(s EntryStatus) (EntryStatus, *AwardLabel, error) {
	if !ValidExplicitStatus(s) {
		return "", nil, &ValidationError{Field: "status", Reason: "must be one of pending, approved, rejected"}
	}
	return s, nil, nil
}

// AwardChange computes the coupled (status, award) pair for an award change.
// A non-nil label promotes the entry to winner; nil revokes the award and
// demotes the entry back to approved.
func AwardChange(label *AwardLabel) (EntryStatus, *AwardLabel, error) {
	if label == nil {
		return StatusApproved, nil, nil
	}
	if !ValidAwardLabel(*label) {
		return "", nil, &ValidationError{Field: "award_label", Reason: "must be one of gold, silver, bronze"}
	}
	return StatusWinner, label, nil
}

// Vote records one (entry, voter) pairing, maps to the votes table.
// The unique index over (entry_id, voter_identity) is the at-most-once
// guarantee; rows are created once and never mutated.
type Vote struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	EntryID       uuid.UUID `json:"entry_id" db:"entry_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_entry_voter"`
	VoterIdentity string    `json:"voter_identity" db:"voter_identity" gorm:"not null;uniqueIndex:idx_votes_entry_voter"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteStatus is the ledger's read model for one (entry, voter) pair.
type VoteStatus struct {
	VoteCount int  `json:"vote_count"`
	HasVoted  bool `json:"has_voted"`
}

// HarvestedMedia is one candidate item yielded by a social-media harvester.
type HarvestedMedia struct {
	MediaID   string
	Caption   string
	MediaType MediaType
	MediaURL  string
	Permalink string
	Username  string
	Timestamp time.Time
}

// CollectionResult summarizes one scheduler pass over one contest.
// Not persisted; returned to the caller and logged.
type CollectionResult struct {
	ContestID   uuid.UUID `json:"contest_id"`
	ContestName string    `json:"contest_name"`
	Created     int       `json:"created"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	Err         string    `json:"error,omitempty"`
}
