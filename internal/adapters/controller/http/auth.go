package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	contextUserIDKey = "userID"
	contextRoleKey   = "userRole"
)

type sessionStorage interface {
	Get(ctx context.Context, tokenID string) (string, error)
	Set(ctx context.Context, tokenID, userID string, expiration time.Duration) error
	Revoke(ctx context.Context, tokenID string) error
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) issueTokens(ctx context.Context, userID string) (tokenPair, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return tokenPair{}, err
	}

	refresh := uuid.New().String()
	if err = s.sessions.Set(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return tokenPair{}, err
	}
	return tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Server) parseAccessToken(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w", errorz.InvalidToken)
	}
	return claims.Subject, nil
}

// authMiddleware authenticates the bearer token and stashes the identity on
// the request context. Role lookups are deferred to currentRole.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		userID, err := s.parseAccessToken(raw)
		if err != nil {
			return err
		}
		c.Set(contextUserIDKey, userID)
		return next(c)
	}
}

// boardMiddleware and eboardMiddleware gate staff routes.
func (s *Server) boardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := s.currentRole(c)
		if err != nil {
			return err
		}
		if !role.IsBoard() {
			return fmt.Errorf("%w: board access required", errorz.Forbidden)
		}
		return next(c)
	}
}

func (s *Server) eboardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := s.currentRole(c)
		if err != nil {
			return err
		}
		if !role.IsEBoard() {
			return fmt.Errorf("%w: e-board access required", errorz.Forbidden)
		}
		return next(c)
	}
}

func currentUserID(c echo.Context) string {
	id, _ := c.Get(contextUserIDKey).(string)
	return id
}

// currentRole resolves the caller's role once per request.
func (s *Server) currentRole(c echo.Context) (entity.Role, error) {
	if role, ok := c.Get(contextRoleKey).(entity.Role); ok {
		return role, nil
	}
	record, err := s.roleService.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return "", err
	}
	c.Set(contextRoleKey, record.Role)
	return record.Role, nil
}

type registerRequest struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	ClassYear int    `json:"class_year"`
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Discord   string `json:"discord"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := s.profileService.Register(c.Request().Context(), entity.Profile{
		FullName:  req.FullName,
		Email:     req.Email,
		ClassYear: req.ClassYear,
		Github:    req.Github,
		Linkedin:  req.Linkedin,
		Discord:   req.Discord,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profileResponseFrom(profile))
}

type sendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) sendCode(c echo.Context) error {
	var req sendCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := s.profileService.SendAuthCode(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

func (s *Server) verifyCode(c echo.Context) error {
	var req verifyCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := s.profileService.VerifyAuthCode(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	tokens, err := s.issueTokens(c.Request().Context(), profile.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// refresh rotates the refresh token: the presented one is revoked whether or
// not a new pair is issued.
func (s *Server) refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	userID, err := s.sessions.Get(ctx, req.RefreshToken)
	if err != nil || userID == "" {
		return fmt.Errorf("%w", errorz.InvalidToken)
	}
	if err = s.sessions.Revoke(ctx, req.RefreshToken); err != nil {
		return err
	}
	tokens, err := s.issueTokens(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) logout(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := s.sessions.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	s.contexts.close(currentUserID(c))
	return c.NoContent(http.StatusNoContent)
}
