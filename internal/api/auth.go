package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	cookieName     = "footyon_token"
	userContextKey = "user"
)

// Usernames are letters followed by exactly three digits, e.g. alex123.
var usernameRe = regexp.MustCompile(`^[A-Za-z]+[0-9]{3}$`)

type sessionClaims struct {
	UserID  string `json:"uid"`
	IsAdmin bool   `json:"adm"`
	jwt.RegisteredClaims
}

func (s *Service) HandleSignup() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Username  string `json:"username"`
			Password  string `json:"password"`
			Password2 string `json:"password2"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}
		if req.Username == "" || req.Password == "" || req.Password2 == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "fill all fields"})
		}
		if req.Password != req.Password2 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
		}
		if len(req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
		}
		if !usernameRe.MatchString(req.Username) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "username must be letters followed by exactly 3 digits (e.g. alex123)",
			})
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			logrus.Errorf("hashing password: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}

		user := &models.User{
			ID:           uuid.New().String(),
			Username:     req.Username,
			PasswordHash: string(hash),
			IsActive:     true,
			Points:       models.MaxPoints,
		}
		if err := s.storage.CreateUser(c.Request().Context(), user); err != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}

		logrus.Infof("user %s signed up", user.Username)
		return c.JSON(http.StatusCreated, echo.Map{"ok": true})
	}
}

func (s *Service) HandleLogin() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}

		user, err := s.storage.GetUserByUsername(c.Request().Context(), req.Username)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
			UserID:  user.ID,
			IsAdmin: user.IsAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.SessionTTL)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Issuer:    "footyon",
			},
		})
		signed, err := token.SignedString([]byte(s.config.JWTSecret))
		if err != nil {
			logrus.Errorf("signing session token: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}

		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    signed,
			Path:     "/",
			MaxAge:   int(s.config.SessionTTL.Seconds()),
			HttpOnly: true,
		})
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
}

func (s *Service) HandleLogout() echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
}

// resolveUser loads the session user fresh from storage so standing and
// admin flags are always current, not the ones baked into the token.
func (s *Service) resolveUser(c echo.Context) (*models.User, error) {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, echo.ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.ErrUnauthorized
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return nil, echo.ErrUnauthorized
	}

	user, err := s.storage.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, echo.ErrUnauthorized
	}
	return user, nil
}

func (s *Service) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := s.resolveUser(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalAuth resolves the user when a valid session is present but lets
// anonymous requests through.
func (s *Service) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := s.resolveUser(c); err == nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

func (s *Service) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := currentUser(c)
			if user == nil || !user.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin only"})
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
