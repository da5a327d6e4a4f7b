// Package api is the JSON surface of the league service. Handlers translate
// HTTP into engine calls and map domain errors onto the response taxonomy:
// validation 400, auth 401/403, stale references 404, capacity conflicts 409
// with a negotiation payload, and idempotent no-ops as 200 warnings.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/config"
	"github.com/mohammedAljadd/FootyOn/internal/maps"
	"github.com/mohammedAljadd/FootyOn/internal/roster"
	"github.com/mohammedAljadd/FootyOn/internal/standing"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
)

type Service struct {
	config   *config.Config
	storage  *storage.Storage
	standing *standing.Engine
	roster   *roster.Engine
	maps     *maps.Resolver
}

func NewService(
	cfg *config.Config,
	store *storage.Storage,
	standingEngine *standing.Engine,
	rosterEngine *roster.Engine,
	resolver *maps.Resolver,
) *Service {
	return &Service{
		config:   cfg,
		storage:  store,
		standing: standingEngine,
		roster:   rosterEngine,
		maps:     resolver,
	}
}

func (s *Service) Register(e *echo.Echo) {
	e.POST("/signup", s.HandleSignup())
	e.POST("/login", s.HandleLogin())
	e.POST("/logout", s.HandleLogout())

	e.GET("/matches", s.HandleListMatches(), s.OptionalAuth())
	e.GET("/matches/:id", s.HandleViewMatch(), s.OptionalAuth())
	e.GET("/matches/:id/share", s.HandleShareMatch())
	e.GET("/leaderboard", s.HandleLeaderboard())
	e.GET("/stadiums", s.HandleListStadiums())

	authed := e.Group("", s.RequireAuth())
	authed.POST("/matches/:id/join", s.HandleJoinMatch())
	authed.POST("/matches/:id/leave", s.HandleLeaveMatch())

	admin := e.Group("", s.RequireAuth(), s.RequireAdmin())
	admin.POST("/matches", s.HandleCreateMatch())
	admin.PUT("/matches/:id", s.HandleUpdateMatch())
	admin.DELETE("/matches/:id", s.HandleDeleteMatch())

	admin.POST("/participations/:id/no_show", s.HandleMarkNoShow())
	admin.POST("/participations/:id/remove_no_show", s.HandleRemoveNoShow())
	admin.POST("/participations/:id/remove", s.HandleRemoveParticipant())
	admin.POST("/participations/:id/restore", s.HandleRestoreParticipant())
	admin.POST("/participations/:id/present", s.HandleMarkPresent())
	admin.POST("/participations/:id/remove_present", s.HandleRemovePresent())
	admin.DELETE("/participations/:id", s.HandleDeleteParticipation())

	admin.GET("/users", s.HandleListUsers())
	admin.POST("/users/:id/disable", s.HandleDisableUser())
	admin.POST("/users/:id/enable", s.HandleEnableUser())

	admin.POST("/stadiums", s.HandleCreateStadium())
	admin.PUT("/stadiums/:id", s.HandleUpdateStadium())
}

// writeDomainError maps engine errors onto the HTTP taxonomy.
func (s *Service) writeDomainError(c echo.Context, err error) error {
	var conflict *roster.CapacityConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "match is full",
			"capacity_conflict": echo.Map{
				"match_id":          conflict.MatchID,
				"max_players":       conflict.MaxPlayers,
				"active_count":      conflict.ActiveCount,
				"required_capacity": conflict.RequiredCapacity,
			},
		})

	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})

	case errors.Is(err, standing.ErrSelfTarget):
		return c.JSON(http.StatusForbidden, echo.Map{"error": standing.ErrSelfTarget.Error()})

	case errors.Is(err, standing.ErrAdminOnly):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin only"})

	case errors.Is(err, standing.ErrNotEligible):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})

	case errors.Is(err, roster.ErrAlreadyNoShow),
		errors.Is(err, roster.ErrNotNoShow),
		errors.Is(err, roster.ErrNotRemoved):
		// Idempotent no-ops: informational, not failures.
		return c.JSON(http.StatusOK, echo.Map{"warning": err.Error()})

	case errors.Is(err, roster.ErrMatchNotEditable),
		errors.Is(err, roster.ErrCapacityBelowJoined),
		errors.Is(err, roster.ErrInvalidMaxPlayers),
		errors.Is(err, standing.ErrInvalidReason):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	default:
		logrus.Errorf("unhandled error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
