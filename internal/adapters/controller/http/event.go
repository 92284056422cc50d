package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/entity"
)

func (s *Server) listEvents(c echo.Context) error {
	role, err := s.currentRole(c)
	if err != nil {
		return err
	}
	events, err := s.eventService.VisibleTo(c.Request().Context(), role, currentUserID(c), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

type eventRequest struct {
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description"`
	Location        string    `json:"location" validate:"required"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time"`
	Points          int       `json:"points" validate:"gte=0"`
	RequiresRSVP    bool      `json:"requires_rsvp"`
	MaxParticipants int       `json:"max_participants" validate:"gte=0"`
	AllowedRoles    []string  `json:"allowed_roles"`
}

func (r eventRequest) apply(event *entity.Event) {
	event.Name = r.Name
	event.Description = r.Description
	event.Location = r.Location
	event.StartTime = r.StartTime
	event.EndTime = r.EndTime
	event.Points = r.Points
	event.RequiresRSVP = r.RequiresRSVP
	event.MaxParticipants = r.MaxParticipants
	event.AllowedRoles = r.AllowedRoles
}

func (s *Server) createEvent(c echo.Context) error {
	var req eventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	var event entity.Event
	req.apply(&event)

	created, err := s.eventService.Create(c.Request().Context(), &event)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateEvent(c echo.Context) error {
	var req eventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	event, err := s.eventService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	req.apply(event)

	updated, err := s.eventService.Update(ctx, event)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteEvent(c echo.Context) error {
	if err := s.eventService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) rsvp(c echo.Context) error {
	role, err := s.currentRole(c)
	if err != nil {
		return err
	}
	attendance, err := s.eventService.RSVP(c.Request().Context(), c.Param("id"), currentUserID(c), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attendance)
}

func (s *Server) cancelRSVP(c echo.Context) error {
	if err := s.eventService.CancelRSVP(c.Request().Context(), c.Param("id"), currentUserID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type checkInRequest struct {
	Code string `json:"code" validate:"required"`
}

func (s *Server) checkIn(c echo.Context) error {
	var req checkInRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	attendance, err := s.eventService.CheckIn(c.Request().Context(), req.Code, currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attendance)
}

func (s *Server) exportAttendance(c echo.Context) error {
	buf, err := s.eventService.ExportAttendance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
