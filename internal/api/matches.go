package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/mohammedAljadd/FootyOn/internal/roster"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
)

type matchView struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Time        *string `json:"time,omitempty"`
	DayOfWeek   string  `json:"day_of_week"`
	StadiumID   string  `json:"stadium_id,omitempty"`
	StadiumName string  `json:"stadium_name,omitempty"`
	MaxPlayers  int     `json:"max_players"`

	SpotsLeft         int  `json:"spots_left"`
	IsFull            bool `json:"is_full"`
	IsPast            bool `json:"is_past"`
	CanEditMatch      bool `json:"can_edit_match"`
	CanEditAttendance bool `json:"can_edit_attendance"`

	// MyStatus is the caller's roster status for this match, when logged in.
	MyStatus *models.ParticipationStatus `json:"my_status,omitempty"`
}

func (s *Service) matchView(c echo.Context, match *models.Match, stadiumNames map[string]string) (*matchView, error) {
	ctx := c.Request().Context()
	count, err := s.storage.CountActiveParticipants(ctx, match.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	view := &matchView{
		ID:                match.ID,
		Date:              match.Date.Format(time.DateOnly),
		DayOfWeek:         match.DayOfWeek,
		StadiumID:         match.StadiumID,
		StadiumName:       stadiumNames[match.StadiumID],
		MaxPlayers:        match.MaxPlayers,
		SpotsLeft:         match.SpotsLeft(count),
		IsFull:            match.IsFull(count),
		IsPast:            match.IsPast(now),
		CanEditMatch:      match.CanEditMatch(now),
		CanEditAttendance: match.CanEditAttendance(now),
	}
	if match.Time != nil {
		t := match.Time.Format("15:04")
		view.Time = &t
	}

	if user := currentUser(c); user != nil {
		p, err := s.storage.GetParticipationForUserMatch(ctx, user.ID, match.ID)
		if err == nil && !p.Removed {
			view.MyStatus = &p.Status
		} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	return view, nil
}

func (s *Service) stadiumNames(c echo.Context) (map[string]string, error) {
	stadiums, err := s.storage.ListStadiums(c.Request().Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(stadiums))
	for _, stadium := range stadiums {
		names[stadium.ID] = stadium.Name
	}
	return names, nil
}

func (s *Service) HandleListMatches() echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		matches, err := s.storage.ListUpcomingMatches(c.Request().Context(), today)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		names, err := s.stadiumNames(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		views := make([]*matchView, 0, len(matches))
		for _, match := range matches {
			view, err := s.matchView(c, match, names)
			if err != nil {
				return s.writeDomainError(c, err)
			}
			views = append(views, view)
		}
		return c.JSON(http.StatusOK, echo.Map{"matches": views})
	}
}

type rosterEntryView struct {
	ParticipationID string                     `json:"participation_id"`
	UserID          string                     `json:"user_id"`
	Username        string                     `json:"username"`
	Status          models.ParticipationStatus `json:"status"`
	StatusTime      time.Time                  `json:"status_time"`
	IsPresent       bool                       `json:"is_present"`

	// Admin-only detail.
	Removed      bool                 `json:"removed,omitempty"`
	IsNoShow     bool                 `json:"is_no_show,omitempty"`
	NoShowReason *models.NoShowReason `json:"no_show_reason,omitempty"`
}

func (s *Service) HandleViewMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		match, err := s.storage.GetMatch(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}

		names, err := s.stadiumNames(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		view, err := s.matchView(c, match, names)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		participations, err := s.storage.ListMatchParticipations(ctx, match.ID)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		user := currentUser(c)
		isAdmin := user != nil && user.IsAdmin

		entries := make([]*rosterEntryView, 0, len(participations))
		for _, p := range participations {
			// Non-admins only see the active roster.
			if !isAdmin && (p.Removed || p.Status != models.StatusJoined) {
				continue
			}

			participant, err := s.storage.GetUser(ctx, p.UserID)
			if err != nil {
				return s.writeDomainError(c, err)
			}

			entry := &rosterEntryView{
				ParticipationID: p.ID,
				UserID:          p.UserID,
				Username:        participant.Username,
				Status:          p.Status,
				StatusTime:      p.StatusTime,
				IsPresent:       p.IsPresent,
			}
			if isAdmin {
				entry.Removed = p.Removed
				entry.IsNoShow = p.IsNoShow
				entry.NoShowReason = p.NoShowReason
			}
			entries = append(entries, entry)
		}

		return c.JSON(http.StatusOK, echo.Map{"match": view, "roster": entries})
	}
}

type matchRequest struct {
	Date       *string `json:"date"`
	Time       *string `json:"time"`
	StadiumID  *string `json:"stadium_id"`
	MaxPlayers *int    `json:"max_players"`
}

func parseMatchDate(raw string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, raw, time.Local)
}

func parseMatchTime(date time.Time, raw string) (time.Time, error) {
	clock, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}

func (s *Service) HandleCreateMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req matchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}
		if req.Date == nil || req.MaxPlayers == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and max_players are required"})
		}

		date, err := parseMatchDate(*req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}

		match := &models.Match{
			Date:       date,
			MaxPlayers: *req.MaxPlayers,
		}
		if req.Time != nil && *req.Time != "" {
			kickoff, err := parseMatchTime(date, *req.Time)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time, expected HH:MM"})
			}
			match.Time = &kickoff
		}
		if req.StadiumID != nil {
			if _, err := s.storage.GetStadium(c.Request().Context(), *req.StadiumID); err != nil {
				return s.writeDomainError(c, err)
			}
			match.StadiumID = *req.StadiumID
		}

		if err := s.roster.CreateMatch(c.Request().Context(), match); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"id": match.ID})
	}
}

func (s *Service) HandleUpdateMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		match, err := s.storage.GetMatch(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}

		var req matchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}

		var upd roster.MatchUpdate
		if req.Date != nil {
			date, err := parseMatchDate(*req.Date)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
			}
			upd.Date = &date
		}
		if req.Time != nil && *req.Time != "" {
			base := match.Date
			if upd.Date != nil {
				base = *upd.Date
			}
			kickoff, err := parseMatchTime(base, *req.Time)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time, expected HH:MM"})
			}
			upd.Time = &kickoff
		}
		if req.StadiumID != nil {
			if _, err := s.storage.GetStadium(ctx, *req.StadiumID); err != nil {
				return s.writeDomainError(c, err)
			}
			upd.StadiumID = req.StadiumID
		}
		upd.MaxPlayers = req.MaxPlayers

		if err := s.roster.UpdateMatch(ctx, match, upd); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "match updated"})
	}
}

func (s *Service) HandleDeleteMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		match, err := s.storage.GetMatch(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if err := s.roster.DeleteMatch(ctx, match); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "match deleted"})
	}
}

// HandleShareMatch produces the WhatsApp share text and link for a match,
// minting the share token on first use.
func (s *Service) HandleShareMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		match, err := s.storage.GetMatch(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}

		if match.ShareToken == "" {
			match.ShareToken = uuid.New().String()
			if err := s.storage.SaveMatch(ctx, match); err != nil {
				return s.writeDomainError(c, err)
			}
			logrus.Infof("minted share token for match %s", match.ID)
		}

		count, err := s.storage.CountActiveParticipants(ctx, match.ID)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		stadiumName := "the usual pitch"
		if match.StadiumID != "" {
			if stadium, err := s.storage.GetStadium(ctx, match.StadiumID); err == nil {
				stadiumName = stadium.Name
			}
		}

		text := fmt.Sprintf(
			"Match %s %s at %s. %d of %d spots left. Join here: %s/matches/%s?token=%s",
			match.DayOfWeek,
			match.Date.Format(time.DateOnly),
			stadiumName,
			match.SpotsLeft(count),
			match.MaxPlayers,
			s.config.BaseURL,
			match.ID,
			match.ShareToken,
		)

		return c.JSON(http.StatusOK, echo.Map{
			"text":         text,
			"whatsapp_url": "https://wa.me/?text=" + url.QueryEscape(text),
		})
	}
}
