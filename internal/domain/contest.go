package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContestStatus is the lifecycle state of a contest.
type ContestStatus string

const (
	ContestDraft  ContestStatus = "draft"
	ContestActive ContestStatus = "active"
	ContestVoting ContestStatus = "voting"
	ContestClosed ContestStatus = "closed"
)

// Contest scopes entries and collection, maps to the contests table.
// Read-only to this pipeline; contest CRUD lives in the admin backend.
type Contest struct {
	ID        uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name      string        `json:"name" db:"name"`
	Status    ContestStatus `json:"status" db:"status"`
	Hashtags  string        `json:"hashtags" db:"hashtags"`
	StartsAt  *time.Time    `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt    *time.Time    `json:"ends_at,omitempty" db:"ends_at"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

func (Contest) TableName() string {
	return "contests"
}

// HashtagList splits the stored comma-separated hashtag filter into
// individual tags, dropping empties and a leading '#'.
func (c Contest) HashtagList() []string {
	parts := strings.Split(c.Hashtags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimPrefix(strings.TrimSpace(p), "#")
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
