package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/maps"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/sirupsen/logrus"
)

type stadiumRequest struct {
	Name         string `json:"name"`
	MapsShortURL string `json:"maps_short_url"`
}

func (s *Service) HandleListStadiums() echo.HandlerFunc {
	return func(c echo.Context) error {
		stadiums, err := s.storage.ListStadiums(c.Request().Context())
		if err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"stadiums": stadiums})
	}
}

func (s *Service) HandleCreateStadium() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req stadiumRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}
		if req.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}

		stadium := &models.Stadium{
			ID:   uuid.New().String(),
			Name: req.Name,
		}
		if err := s.applyMapsLink(c, stadium, req.MapsShortURL); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		if err := s.storage.CreateStadium(c.Request().Context(), stadium); err != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "stadium already exists"})
		}
		return c.JSON(http.StatusCreated, echo.Map{"id": stadium.ID})
	}
}

func (s *Service) HandleUpdateStadium() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		stadium, err := s.storage.GetStadium(ctx, c.Param("id"))
		if err != nil {
			return s.writeDomainError(c, err)
		}

		var req stadiumRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}
		if req.Name != "" {
			stadium.Name = req.Name
		}
		if err := s.applyMapsLink(c, stadium, req.MapsShortURL); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		if err := s.storage.SaveStadium(ctx, stadium); err != nil {
			return s.writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "stadium updated"})
	}
}

var errInvalidMapsURL = errors.New("please enter a valid Google Maps URL (maps.app.goo.gl or google.com/maps)")

// applyMapsLink validates and expands a pasted maps link. A non-Maps URL is
// a validation error; a failed expansion is not fatal, the stadium keeps the
// short link and just has no embed.
func (s *Service) applyMapsLink(c echo.Context, stadium *models.Stadium, shortURL string) error {
	if shortURL == "" {
		return nil
	}
	if !maps.IsMapsURL(shortURL) {
		return errInvalidMapsURL
	}

	stadium.MapsShortURL = shortURL
	embed, err := s.maps.EmbedURL(c.Request().Context(), shortURL)
	if err != nil {
		logrus.Warnf("failed to expand maps link for stadium %s: %v", stadium.Name, err)
		stadium.MapsEmbedURL = ""
		return nil
	}
	stadium.MapsEmbedURL = embed
	return nil
}
