package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/entity"
)

func (s *Server) listLectures(c echo.Context) error {
	role, err := s.currentRole(c)
	if err != nil {
		return err
	}
	lectures, err := s.lectureService.List(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lectures)
}

func (s *Server) getLecture(c echo.Context) error {
	role, err := s.currentRole(c)
	if err != nil {
		return err
	}
	lecture, err := s.lectureService.GetBySlug(c.Request().Context(), c.Param("slug"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lecture)
}

type lectureRequest struct {
	Title     string `json:"title" validate:"required"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
}

func (s *Server) createLecture(c echo.Context) error {
	var req lectureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lecture, err := s.lectureService.Create(c.Request().Context(), &entity.Lecture{
		Title:     req.Title,
		Slug:      req.Slug,
		Summary:   req.Summary,
		Content:   req.Content,
		AuthorID:  currentUserID(c),
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lecture)
}

func (s *Server) updateLecture(c echo.Context) error {
	var req lectureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	lecture, err := s.lectureService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	lecture.Title = req.Title
	if req.Slug != "" {
		lecture.Slug = req.Slug
	}
	lecture.Summary = req.Summary
	lecture.Content = req.Content
	lecture.Published = req.Published

	updated, err := s.lectureService.Update(ctx, lecture)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteLecture(c echo.Context) error {
	if err := s.lectureService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
