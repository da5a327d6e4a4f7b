package roster

import (
	"errors"
	"fmt"
)

var (
	// Informational no-ops: surfaced as warnings, never abort unrelated work.
	ErrAlreadyNoShow = errors.New("participant is already marked as a no-show")
	ErrNotNoShow     = errors.New("participant is not marked as a no-show")
	ErrNotRemoved    = errors.New("participant is not removed")

	// Validation failures: rejected before any mutation.
	ErrMatchNotEditable    = errors.New("match can no longer be edited")
	ErrCapacityBelowJoined = errors.New("cannot set max players below current joined count")
	ErrInvalidMaxPlayers   = errors.New("max players must be positive")
)

// CapacityConflictError signals that restoring (or un-no-showing) a
// participant would overbook a full match. Not a hard failure: the admin is
// expected to retry with a raised capacity, which is the second step of the
// capacity-negotiation flow.
type CapacityConflictError struct {
	MatchID string
	// MaxPlayers is the current capacity, ActiveCount the occupied spots,
	// RequiredCapacity the minimum that would make the operation fit.
	MaxPlayers       int
	ActiveCount      int
	RequiredCapacity int
}

func (e *CapacityConflictError) Error() string {
	return fmt.Sprintf(
		"match %s is full (%d/%d): raise capacity to at least %d to proceed",
		e.MatchID, e.ActiveCount, e.MaxPlayers, e.RequiredCapacity,
	)
}
