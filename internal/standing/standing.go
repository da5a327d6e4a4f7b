// Package standing owns the points-and-suspension state machine: every user
// starts with a full points balance, no-shows burn it down, exhaustion
// suspends the user for a fixed period, and repeated suspensions disable the
// account for good.
package standing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotEligible   = errors.New("user is not allowed to participate")
	ErrInvalidReason = errors.New("invalid no-show reason")
	ErrAdminOnly     = errors.New("admin privileges required")
	ErrSelfTarget    = errors.New("you cannot disable your own account")
)

type Engine struct {
	storage *storage.Storage
}

func New(store *storage.Storage) *Engine {
	return &Engine{storage: store}
}

// CheckSuspensionExpired reinstates a user whose suspension has run out:
// suspension flags cleared and points reset to full. Idempotent; reports
// whether a reset happened.
func (e *Engine) CheckSuspensionExpired(ctx context.Context, user *models.User) (bool, error) {
	if !user.IsSuspended || user.SuspensionUntil == nil || user.SuspensionUntil.After(time.Now()) {
		return false, nil
	}

	user.IsSuspended = false
	user.SuspensionUntil = nil
	user.Points = models.MaxPoints
	if err := e.storage.SaveUser(ctx, user); err != nil {
		return false, fmt.Errorf("reinstating user: %w", err)
	}

	logrus.Infof("suspension of user %s expired, points reset to %d", user.Username, models.MaxPoints)
	return true, nil
}

// Eligibility decides whether the user may join matches, healing an expired
// suspension first. Check order: inactive/recruiter, then permanent disable,
// then active suspension.
func (e *Engine) Eligibility(ctx context.Context, user *models.User) (models.Eligibility, error) {
	if _, err := e.CheckSuspensionExpired(ctx, user); err != nil {
		return "", err
	}

	if !user.IsActive || user.IsRecruiter {
		return models.EligibilityInactiveOrRecruiter, nil
	}
	if user.IsDisabled {
		return models.EligibilityDisabled, nil
	}
	if user.SuspensionUntil != nil && user.SuspensionUntil.After(time.Now()) {
		return models.EligibilitySuspended, nil
	}
	return models.EligibilityOK, nil
}

// ApplyNoShowOutcome deducts points for a no-show, or credits them back when
// reversing a mistaken mark. Forward application requires an eligible user;
// a reversal must work on a suspended user too, otherwise the suspension it
// caused could never be undone.
func (e *Engine) ApplyNoShowOutcome(ctx context.Context, user *models.User, reason models.NoShowReason, reverse bool) error {
	if !reason.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}

	if !reverse {
		eligibility, err := e.Eligibility(ctx, user)
		if err != nil {
			return err
		}
		if !eligibility.Allowed() {
			return fmt.Errorf("%w: %s", ErrNotEligible, eligibility)
		}
	}

	deduction := reason.PointDeduction()
	if deduction == 0 {
		// Excused absences never touch standing.
		return nil
	}

	if reverse {
		user.Points += deduction
	} else {
		user.Points -= deduction
	}

	if user.Points <= 0 && !reverse {
		user.Points = 0
		user.IsSuspended = true
		user.SuspensionCount++
		until := time.Now().AddDate(0, 0, models.SuspensionDays)
		user.SuspensionUntil = &until

		logrus.Warnf("user %s ran out of points, suspended until %s (suspension #%d)",
			user.Username, until.Format(time.DateOnly), user.SuspensionCount)

		// Permanent disable supersedes the temporary suspension.
		if user.SuspensionCount >= models.MaxSuspensions {
			user.IsDisabled = true
			user.IsSuspended = false
			user.SuspensionUntil = nil
			logrus.Warnf("user %s reached %d suspensions, disabling account", user.Username, user.SuspensionCount)
		}
	}

	if reverse && user.IsSuspended && user.Points > 0 {
		user.IsSuspended = false
		user.SuspensionUntil = nil
		logrus.Infof("reversal lifted suspension of user %s", user.Username)
	}

	if user.Points > models.MaxPoints {
		user.Points = models.MaxPoints
	}
	if user.Points < 0 {
		user.Points = 0
	}

	if err := e.storage.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("saving standing: %w", err)
	}
	return nil
}

// SetDisabled is the explicit administrative override of the disabled flag.
// Self-targeting is rejected so an admin cannot lock themselves out.
func (e *Engine) SetDisabled(ctx context.Context, actor, target *models.User, disabled bool) error {
	if !actor.IsAdmin {
		return ErrAdminOnly
	}
	if actor.ID == target.ID {
		return ErrSelfTarget
	}

	target.IsDisabled = disabled
	if err := e.storage.SaveUser(ctx, target); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}

	logrus.Infof("admin %s set disabled=%v for user %s", actor.Username, disabled, target.Username)
	return nil
}
