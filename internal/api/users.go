package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/models"
)

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`

	Points          int                `json:"points"`
	Eligibility     models.Eligibility `json:"eligibility"`
	IsSuspended     bool               `json:"is_suspended"`
	SuspensionUntil *time.Time         `json:"suspension_until,omitempty"`
	SuspensionCount int                `json:"suspension_count"`
	IsDisabled      bool               `json:"is_disabled"`
	IsRecruiter     bool               `json:"is_recruiter"`
}

func (s *Service) HandleListUsers() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		users, err := s.storage.ListUsers(ctx)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		views := make([]*userView, 0, len(users))
		for _, user := range users {
			eligibility, err := s.standing.Eligibility(ctx, user)
			if err != nil {
				return s.writeDomainError(c, err)
			}
			views = append(views, &userView{
				ID:              user.ID,
				Username:        user.Username,
				IsAdmin:         user.IsAdmin,
				Points:          user.Points,
				Eligibility:     eligibility,
				IsSuspended:     user.IsSuspended,
				SuspensionUntil: user.SuspensionUntil,
				SuspensionCount: user.SuspensionCount,
				IsDisabled:      user.IsDisabled,
				IsRecruiter:     user.IsRecruiter,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"users": views})
	}
}

func (s *Service) HandleDisableUser() echo.HandlerFunc {
	return s.handleSetDisabled(true, "user disabled")
}

func (s *Service) HandleEnableUser() echo.HandlerFunc {
	return s.handleSetDisabled(false, "user enabled")
}

func (s *Service) handleSetDisabled(disabled bool, message string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		target, err := s.storage.GetUser(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}
		if err := s.standing.SetDisabled(ctx, currentUser(c), target, disabled); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": message})
	}
}
