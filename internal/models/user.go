package models

import "time"

const (
	// MaxPoints is the full points balance, like a fresh driving license.
	MaxPoints = 15
	// SuspensionDays is how long a point-exhaustion suspension lasts.
	SuspensionDays = 15
	// MaxSuspensions is the lifetime suspension count after which a user is
	// permanently disabled.
	MaxSuspensions = 5
)

// Eligibility is the result of the can-participate check: either OK or the
// reason the user is blocked from joining matches.
type Eligibility string

const (
	EligibilityOK                  Eligibility = "can_participate"
	EligibilityInactiveOrRecruiter Eligibility = "inactive_or_recruiter"
	EligibilityDisabled            Eligibility = "disabled"
	EligibilitySuspended           Eligibility = "suspended"
)

func (e Eligibility) Allowed() bool {
	return e == EligibilityOK
}

type User struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string

	IsAdmin     bool
	IsActive    bool
	IsRecruiter bool
	IsDisabled  bool

	Points          int
	IsSuspended     bool
	SuspensionUntil *time.Time
	SuspensionCount int

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) String() string {
	return u.Username
}
