package domain

import (
	"errors"
	"fmt"
)

// Expected business outcomes and lookup failures. Handlers branch on these
// with errors.Is to pick a response; anything else is an infrastructure fault.
var (
	// ErrDuplicateMedia means the (contest, source media) pair was already
	// ingested. During harvest this is a silent skip; on a direct submission
	// it surfaces as a conflict.
	ErrDuplicateMedia = errors.New("media already ingested for this contest")

	// ErrAlreadyVoted means this voter already holds a vote on this entry.
	ErrAlreadyVoted = errors.New("already voted for this entry")

	// ErrInvalidTransition means the requested status/award change is not
	// allowed from the entry's current state (e.g. awarding a pending entry).
	ErrInvalidTransition = errors.New("invalid entry state transition")

	ErrEntryNotFound   = errors.New("entry not found")
	ErrContestNotFound = errors.New("contest not found")
)

// ValidationError is malformed or missing caller input. Always
// user-correctable; the field name drives the client-side message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
