package models

import (
	"fmt"
	"time"
)

type ParticipationStatus string

const (
	StatusJoined ParticipationStatus = "joined"
	StatusLeft   ParticipationStatus = "left"
)

type NoShowReason string

const (
	NoShowExcused    NoShowReason = "excused"
	NoShowNotExcused NoShowReason = "not_excused"
	NoShowLastMinute NoShowReason = "last_minute"
)

func (r NoShowReason) Valid() bool {
	switch r {
	case NoShowExcused, NoShowNotExcused, NoShowLastMinute:
		return true
	}
	return false
}

// PointDeduction is the standing cost of a no-show with this reason.
func (r NoShowReason) PointDeduction() int {
	switch r {
	case NoShowNotExcused:
		return 4
	case NoShowLastMinute:
		return 2
	default:
		return 0
	}
}

// Participation is the roster entry for one user in one match. There is at
// most one per (user, match) pair; a re-join flips the existing record back
// to joined instead of creating a duplicate.
type Participation struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	UserID  string `gorm:"type:uuid;uniqueIndex:idx_user_match"`
	MatchID string `gorm:"type:uuid;uniqueIndex:idx_user_match"`

	Status     ParticipationStatus
	StatusTime time.Time

	// Removed is the admin soft delete, distinct from Status=left.
	Removed     bool
	RemovedTime *time.Time

	IsNoShow     bool
	NoShowReason *NoShowReason
	NoShowTime   *time.Time

	// IsPresent tracks physical attendance independently of IsNoShow.
	IsPresent bool

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Active reports whether the record occupies a roster spot: joined, not
// soft-removed and not a no-show. The same predicate defines "attended"
// for past matches.
func (p *Participation) Active() bool {
	return p.Status == StatusJoined && !p.Removed && !p.IsNoShow
}

// ExcusedAbsence reports whether the record is a no-show with an excused
// reason. Excused absences are neutral for scoring.
func (p *Participation) ExcusedAbsence() bool {
	return p.IsNoShow && p.NoShowReason != nil && *p.NoShowReason == NoShowExcused
}

func (p *Participation) String() string {
	return fmt.Sprintf("Participation(user=%s, match=%s, %s)", p.UserID, p.MatchID, p.Status)
}
