package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// AttendanceEditWindow is how long after kickoff admins can still edit
	// attendance (no-shows, presence).
	AttendanceEditWindow = 24 * time.Hour
	// MatchEditWindow is how long after kickoff the match itself stays
	// editable.
	MatchEditWindow = time.Hour
)

type Match struct {
	ID string `gorm:"type:uuid;primaryKey"`

	Date      time.Time
	Time      *time.Time
	DayOfWeek string

	StadiumID  string `gorm:"type:uuid;index"`
	MaxPlayers int

	// ShareToken makes the public roster link unguessable.
	ShareToken string `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (m *Match) BeforeSave(*gorm.DB) error {
	m.DayOfWeek = m.Date.Weekday().String()
	return nil
}

// Kickoff combines Date and the optional Time. A match without a time counts
// as starting at midnight, matching the date-only comparisons used elsewhere.
func (m *Match) Kickoff() time.Time {
	h, min := 0, 0
	if m.Time != nil {
		h, min = m.Time.Hour(), m.Time.Minute()
	}
	return time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), h, min, 0, 0, m.Date.Location())
}

// SpotsLeft derives the open slot count from the active participant count.
// Counting is the storage layer's job; the rule lives here.
func (m *Match) SpotsLeft(activeCount int) int {
	left := m.MaxPlayers - activeCount
	if left < 0 {
		return 0
	}
	return left
}

func (m *Match) IsFull(activeCount int) bool {
	return m.SpotsLeft(activeCount) <= 0
}

func (m *Match) IsPast(now time.Time) bool {
	return m.Kickoff().Before(now)
}

func (m *Match) CanEditAttendance(now time.Time) bool {
	return !now.After(m.Kickoff().Add(AttendanceEditWindow))
}

func (m *Match) CanEditMatch(now time.Time) bool {
	return !now.After(m.Kickoff().Add(MatchEditWindow))
}

// IsSettled reports whether the attendance-edit window has closed, i.e. the
// recorded outcome is final. Only settled matches feed the recent-form strip.
func (m *Match) IsSettled(now time.Time) bool {
	return !m.CanEditAttendance(now)
}
