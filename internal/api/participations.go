package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/models"
)

func (s *Service) HandleJoinMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user := currentUser(c)

		match, err := s.storage.GetMatch(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}

		eligibility, err := s.standing.Eligibility(ctx, user)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if !eligibility.Allowed() {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":  "you cannot join matches",
				"reason": eligibility,
			})
		}

		if _, err := s.roster.Join(ctx, user, match); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "you joined the match"})
	}
}

func (s *Service) HandleLeaveMatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		match, err := s.storage.GetMatch(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}

		if err := s.roster.Leave(ctx, currentUser(c), match); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "you left the match"})
	}
}

func (s *Service) participationAndMatch(c echo.Context) (*models.Participation, *models.Match, error) {
	ctx := c.Request().Context()
	p, err := s.storage.GetParticipation(ctx, c.Param("id"))
	if err != nil {
		return nil, nil, err
	}
	match, err := s.storage.GetMatch(ctx, p.MatchID)
	if err != nil {
		return nil, nil, err
	}
	return p, match, nil
}

func (s *Service) HandleMarkNoShow() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Reason models.NoShowReason `json:"reason"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}

		p, _, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		if err := s.roster.MarkNoShow(c.Request().Context(), p, req.Reason); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "no-show recorded"})
	}
}

func (s *Service) HandleRemoveNoShow() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			NewCapacity *int `json:"new_capacity"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}

		p, match, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		if err := s.roster.RemoveNoShow(c.Request().Context(), p, match, req.NewCapacity); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "no-show cleared"})
	}
}

func (s *Service) HandleRemoveParticipant() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, _, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if err := s.roster.RemoveParticipant(c.Request().Context(), p); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "user removed"})
	}
}

func (s *Service) HandleRestoreParticipant() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			NewCapacity *int `json:"new_capacity"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}

		p, match, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		if err := s.roster.RestoreParticipant(c.Request().Context(), p, match, req.NewCapacity); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "user restored"})
	}
}

// HandleDeleteParticipation is the irreversible hard delete; it demands an
// explicit confirm flag as the confirmation step.
func (s *Service) HandleDeleteParticipation() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Confirm bool `json:"confirm"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}
		if !req.Confirm {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "hard delete is irreversible, pass confirm=true to proceed",
			})
		}

		p, _, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if err := s.roster.DeleteParticipation(c.Request().Context(), p); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "participation deleted"})
	}
}

func (s *Service) HandleMarkPresent() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, _, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if err := s.roster.MarkPresent(c.Request().Context(), p); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "marked present"})
	}
}

func (s *Service) HandleRemovePresent() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, _, err := s.participationAndMatch(c)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if err := s.roster.RemovePresent(c.Request().Context(), p); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "presence cleared"})
	}
}
