package httpapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/entity"
)

const maxAvatarBytes = 5 << 20

type profileResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	ClassYear int    `json:"class_year,omitempty"`
	Github    string `json:"github,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Discord   string `json:"discord,omitempty"`
	Points    int    `json:"points"`
	AvatarKey string `json:"avatar_key,omitempty"`
}

func profileResponseFrom(p *entity.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		ClassYear: p.ClassYear,
		Github:    p.Github,
		Linkedin:  p.Linkedin,
		Discord:   p.Discord,
		Points:    p.Points,
		AvatarKey: p.AvatarKey,
	}
}

func (s *Server) myProfile(c echo.Context) error {
	profile, err := s.profileService.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponseFrom(profile))
}

type updateProfileRequest struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	ClassYear int    `json:"class_year"`
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Discord   string `json:"discord"`
}

func (s *Server) updateMyProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	profile, err := s.profileService.Get(ctx, currentUserID(c))
	if err != nil {
		return err
	}
	profile.FullName = req.FullName
	profile.Email = req.Email
	profile.ClassYear = req.ClassYear
	profile.Github = req.Github
	profile.Linkedin = req.Linkedin
	profile.Discord = req.Discord

	profile, err = s.profileService.Update(ctx, profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponseFrom(profile))
}

func (s *Server) updateMyAvatar(c echo.Context) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	if file.Size > maxAvatarBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "avatar exceeds 5 MiB")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	profile, err := s.profileService.UpdateAvatar(c.Request().Context(), currentUserID(c), content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponseFrom(profile))
}

func (s *Server) deleteMyAccount(c echo.Context) error {
	userID := currentUserID(c)
	if err := s.profileService.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}
	s.contexts.close(userID)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) mySnapshot(c echo.Context) error {
	pc, err := s.contexts.get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	// Touch each sub-resource so stale slots schedule their refetch.
	pc.Role()
	pc.Projects()
	pc.Classes()
	pc.Applications()
	pc.Events()
	return c.JSON(http.StatusOK, pc.Snapshot())
}

// refreshMySnapshot forces a synchronous refetch of every sub-resource.
func (s *Server) refreshMySnapshot(c echo.Context) error {
	ctx := c.Request().Context()
	pc, err := s.contexts.get(ctx, currentUserID(c))
	if err != nil {
		return err
	}
	if err = pc.RefreshRole(ctx); err != nil {
		return err
	}
	if err = pc.RefreshProjects(ctx); err != nil {
		return err
	}
	if err = pc.RefreshClasses(ctx); err != nil {
		return err
	}
	if err = pc.RefreshApplications(ctx); err != nil {
		return err
	}
	if err = pc.RefreshEvents(ctx); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pc.Snapshot())
}

type assignRoleRequest struct {
	Role     string `json:"role" validate:"required"`
	Position string `json:"position"`
}

func (s *Server) assignRole(c echo.Context) error {
	var req assignRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actorRole, err := s.currentRole(c)
	if err != nil {
		return err
	}
	record, err := s.roleService.Set(c.Request().Context(), actorRole, c.Param("userID"), entity.Role(req.Role), req.Position)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}
