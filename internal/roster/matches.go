package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/sirupsen/logrus"
)

// MatchUpdate carries the editable match fields. Nil means "leave as is".
type MatchUpdate struct {
	Date       *time.Time
	Time       *time.Time
	StadiumID  *string
	MaxPlayers *int
}

// CreateMatch validates and persists a new match and announces it to the
// league chat.
func (e *Engine) CreateMatch(ctx context.Context, match *models.Match) error {
	if match.MaxPlayers < 1 {
		return ErrInvalidMaxPlayers
	}

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.ShareToken == "" {
		match.ShareToken = uuid.New().String()
	}

	if err := e.storage.CreateMatch(ctx, match); err != nil {
		return err
	}

	e.notifier.MatchCreated(ctx, match, e.stadiumName(ctx, match.StadiumID))
	logrus.Infof("created match %s on %s", match.ID, match.Date.Format(time.DateOnly))
	return nil
}

// UpdateMatch applies an admin edit. The match must still be inside its edit
// window, and capacity may not drop below the current joined-and-active
// count.
func (e *Engine) UpdateMatch(ctx context.Context, match *models.Match, upd MatchUpdate) error {
	if !match.CanEditMatch(time.Now()) {
		return ErrMatchNotEditable
	}

	if upd.MaxPlayers != nil {
		if *upd.MaxPlayers < 1 {
			return ErrInvalidMaxPlayers
		}
		count, err := e.storage.CountActiveParticipants(ctx, match.ID)
		if err != nil {
			return err
		}
		if *upd.MaxPlayers < count {
			return fmt.Errorf("%w (%d)", ErrCapacityBelowJoined, count)
		}
		match.MaxPlayers = *upd.MaxPlayers
	}

	if upd.Date != nil {
		match.Date = *upd.Date
	}
	if upd.Time != nil {
		match.Time = upd.Time
	}
	if upd.StadiumID != nil {
		match.StadiumID = *upd.StadiumID
	}

	if err := e.storage.SaveMatch(ctx, match); err != nil {
		return err
	}

	logrus.Infof("updated match %s", match.ID)
	return nil
}

// DeleteMatch removes the match and its roster and announces the
// cancellation.
func (e *Engine) DeleteMatch(ctx context.Context, match *models.Match) error {
	if err := e.storage.DeleteMatch(ctx, match.ID); err != nil {
		return err
	}

	e.notifier.MatchCancelled(ctx, match, e.stadiumName(ctx, match.StadiumID))
	logrus.Warnf("deleted match %s and its roster", match.ID)
	return nil
}

func (e *Engine) stadiumName(ctx context.Context, stadiumID string) string {
	if stadiumID == "" {
		return "the usual pitch"
	}
	stadium, err := e.storage.GetStadium(ctx, stadiumID)
	if err != nil {
		logrus.Warnf("failed to resolve stadium %s: %v", stadiumID, err)
		return "the usual pitch"
	}
	return stadium.Name
}
