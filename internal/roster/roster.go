// Package roster implements the participation lifecycle: the user-facing
// join/leave toggle, the admin attendance and soft-delete transitions, and
// the capacity-negotiation flow used when a restore would overbook a full
// match.
package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/mohammedAljadd/FootyOn/internal/notify"
	"github.com/mohammedAljadd/FootyOn/internal/standing"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	storage  *storage.Storage
	standing *standing.Engine
	notifier notify.Notifier
}

func New(store *storage.Storage, standingEngine *standing.Engine, notifier notify.Notifier) *Engine {
	return &Engine{
		storage:  store,
		standing: standingEngine,
		notifier: notifier,
	}
}

// Join puts the user on the roster, reusing an earlier record that was
// flipped to left. Already joined is a no-op. Capacity is deliberately not
// checked here: join stays a cheap toggle and overbooking is surfaced at
// display and edit time instead.
func (e *Engine) Join(ctx context.Context, user *models.User, match *models.Match) (*models.Participation, error) {
	p, err := e.storage.GetOrCreateParticipation(ctx, user.ID, match.ID)
	if err != nil {
		return nil, fmt.Errorf("getting or creating participation: %w", err)
	}

	if p.Status != models.StatusJoined {
		p.Status = models.StatusJoined
		p.StatusTime = time.Now()
		if err := e.storage.SaveParticipation(ctx, p); err != nil {
			return nil, fmt.Errorf("rejoining: %w", err)
		}
	}

	logrus.Infof("user %s joined match %s", user.Username, match.ID)
	return p, nil
}

// Leave flips the user's record to left. Leaving a match never joined is
// silently ignored.
func (e *Engine) Leave(ctx context.Context, user *models.User, match *models.Match) error {
	p, err := e.storage.GetParticipationForUserMatch(ctx, user.ID, match.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("getting participation: %w", err)
	}

	if p.Status == models.StatusLeft {
		return nil
	}

	p.Status = models.StatusLeft
	p.StatusTime = time.Now()
	if err := e.storage.SaveParticipation(ctx, p); err != nil {
		return fmt.Errorf("leaving: %w", err)
	}

	logrus.Infof("user %s left match %s", user.Username, match.ID)
	return nil
}

// MarkNoShow classifies a participant as absent and charges the point
// deduction for the reason against their standing.
func (e *Engine) MarkNoShow(ctx context.Context, p *models.Participation, reason models.NoShowReason) error {
	if !reason.Valid() {
		return fmt.Errorf("%w: %q", standing.ErrInvalidReason, reason)
	}
	if p.IsNoShow {
		return ErrAlreadyNoShow
	}

	user, err := e.storage.GetUser(ctx, p.UserID)
	if err != nil {
		return err
	}

	// Eligibility is the precondition of the point deduction; checking it
	// before touching the record keeps a rejection mutation-free.
	eligibility, err := e.standing.Eligibility(ctx, user)
	if err != nil {
		return err
	}
	if !eligibility.Allowed() {
		return fmt.Errorf("%w: %s", standing.ErrNotEligible, eligibility)
	}

	now := time.Now()
	p.IsNoShow = true
	p.NoShowReason = &reason
	p.NoShowTime = &now
	if err := e.storage.SaveParticipation(ctx, p); err != nil {
		return fmt.Errorf("marking no-show: %w", err)
	}

	if err := e.standing.ApplyNoShowOutcome(ctx, user, reason, false); err != nil {
		return fmt.Errorf("applying no-show outcome: %w", err)
	}

	logrus.Infof("marked user %s as no-show (%s) for match %s", user.Username, reason, p.MatchID)
	return nil
}

// RemoveNoShow undoes a mistaken no-show mark and refunds the points. When
// clearing the mark would re-occupy a spot in a full match, the caller must
// resolve the conflict through the capacity negotiation (newCapacity).
func (e *Engine) RemoveNoShow(ctx context.Context, p *models.Participation, match *models.Match, newCapacity *int) error {
	if !p.IsNoShow {
		return ErrNotNoShow
	}

	// The cleared record counts for spots again only if it is joined and not
	// soft-removed.
	if p.Status == models.StatusJoined && !p.Removed {
		if err := e.negotiateCapacity(ctx, match, newCapacity); err != nil {
			return err
		}
	}

	var reason models.NoShowReason
	if p.NoShowReason != nil {
		reason = *p.NoShowReason
	}

	p.IsNoShow = false
	p.NoShowReason = nil
	p.NoShowTime = nil
	if err := e.storage.SaveParticipation(ctx, p); err != nil {
		return fmt.Errorf("clearing no-show: %w", err)
	}

	if reason.Valid() {
		user, err := e.storage.GetUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if err := e.standing.ApplyNoShowOutcome(ctx, user, reason, true); err != nil {
			return fmt.Errorf("reversing no-show outcome: %w", err)
		}
	}

	logrus.Infof("cleared no-show for participation %s", p.ID)
	return nil
}

// RemoveParticipant is the admin soft delete. Status and StatusTime are left
// untouched so the join/leave history stays auditable.
func (e *Engine) RemoveParticipant(ctx context.Context, p *models.Participation) error {
	if p.Removed {
		return nil
	}

	now := time.Now()
	p.Removed = true
	p.RemovedTime = &now
	if err := e.storage.SaveParticipation(ctx, p); err != nil {
		return fmt.Errorf("removing participant: %w", err)
	}

	logrus.Infof("removed participation %s", p.ID)
	return nil
}

// RestoreParticipant undoes a soft removal. Restoring into a full match goes
// through the capacity negotiation instead of silently overbooking.
func (e *Engine) RestoreParticipant(ctx context.Context, p *models.Participation, match *models.Match, newCapacity *int) error {
	if !p.Removed {
		return ErrNotRemoved
	}

	if p.Status == models.StatusJoined && !p.IsNoShow {
		if err := e.negotiateCapacity(ctx, match, newCapacity); err != nil {
			return err
		}
	}

	p.Removed = false
	p.RemovedTime = nil
	if err := e.storage.SaveParticipation(ctx, p); err != nil {
		return fmt.Errorf("restoring participant: %w", err)
	}

	logrus.Infof("restored participation %s", p.ID)
	return nil
}

// negotiateCapacity checks whether one more active participant fits. If not,
// a nil newCapacity yields a CapacityConflictError (step one of the flow) and
// a provided newCapacity raises MaxPlayers before proceeding (step two).
func (e *Engine) negotiateCapacity(ctx context.Context, match *models.Match, newCapacity *int) error {
	count, err := e.storage.CountActiveParticipants(ctx, match.ID)
	if err != nil {
		return err
	}
	if !match.IsFull(count) {
		return nil
	}

	required := count + 1
	if newCapacity == nil {
		return &CapacityConflictError{
			MatchID:          match.ID,
			MaxPlayers:       match.MaxPlayers,
			ActiveCount:      count,
			RequiredCapacity: required,
		}
	}
	if *newCapacity < required {
		return fmt.Errorf("%w: need at least %d", ErrCapacityBelowJoined, required)
	}

	match.MaxPlayers = *newCapacity
	if err := e.storage.SaveMatch(ctx, match); err != nil {
		return fmt.Errorf("raising capacity: %w", err)
	}

	logrus.Infof("raised capacity of match %s to %d", match.ID, *newCapacity)
	return nil
}

// DeleteParticipation permanently erases a roster record. Irreversible; the
// surface layer is responsible for the explicit confirmation step.
func (e *Engine) DeleteParticipation(ctx context.Context, p *models.Participation) error {
	if err := e.storage.DeleteParticipation(ctx, p.ID); err != nil {
		return err
	}
	logrus.Warnf("hard-deleted participation %s (user %s, match %s)", p.ID, p.UserID, p.MatchID)
	return nil
}

// MarkPresent and RemovePresent toggle physical attendance, independent of
// the no-show classification.
func (e *Engine) MarkPresent(ctx context.Context, p *models.Participation) error {
	return e.setPresent(ctx, p, true)
}

func (e *Engine) RemovePresent(ctx context.Context, p *models.Participation) error {
	return e.setPresent(ctx, p, false)
}

func (e *Engine) setPresent(ctx context.Context, p *models.Participation, present bool) error {
	if p.IsPresent == present {
		return nil
	}
	p.IsPresent = present
	if err := e.storage.SaveParticipation(ctx, p); err != nil {
		return fmt.Errorf("updating presence: %w", err)
	}
	return nil
}
