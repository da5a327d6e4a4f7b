package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/scoring"
)

// HandleLeaderboard recomputes the full ranking on every request. The
// history set is expected to stay small, so there is no caching or
// invalidation to get wrong.
func (s *Service) HandleLeaderboard() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		users, err := s.storage.ListUsers(ctx)
		if err != nil {
			return s.writeDomainError(c, err)
		}

		matches, err := s.storage.ListAllMatches(ctx)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		matchByID := make(map[string]int, len(matches))
		for i, match := range matches {
			matchByID[match.ID] = i
		}

		participations, err := s.storage.ListAllParticipations(ctx)
		if err != nil {
			return s.writeDomainError(c, err)
		}
		historyByUser := make(map[string][]scoring.HistoryItem)
		for _, p := range participations {
			i, ok := matchByID[p.MatchID]
			if !ok {
				continue
			}
			historyByUser[p.UserID] = append(historyByUser[p.UserID], scoring.HistoryItem{
				Participation: *p,
				Match:         *matches[i],
			})
		}

		entries := make([]scoring.Entry, 0, len(users))
		for _, user := range users {
			// Resolving eligibility may heal an expired suspension; that is
			// the one write on this read path, and it happens before the
			// pure scoring pass.
			eligibility, err := s.standing.Eligibility(ctx, user)
			if err != nil {
				return s.writeDomainError(c, err)
			}
			entries = append(entries, scoring.Entry{
				User:        *user,
				Eligibility: eligibility,
				History:     historyByUser[user.ID],
			})
		}

		board := scoring.BuildLeaderboard(entries, time.Now(), s.config.RecentFormLength)
		return c.JSON(http.StatusOK, echo.Map{"leaderboard": board})
	}
}
