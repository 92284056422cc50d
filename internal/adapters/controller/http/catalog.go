package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/entity"
)

type projectListEntry struct {
	entity.Project
	MemberCount int64 `json:"member_count"`
}

func (s *Server) listProjects(c echo.Context) error {
	ctx := c.Request().Context()
	projects, err := s.projectService.GetAll(ctx)
	if err != nil {
		return err
	}
	entries := make([]projectListEntry, 0, len(projects))
	for _, project := range projects {
		count, err := s.projectService.MemberCount(ctx, project.ID)
		if err != nil {
			return err
		}
		entries = append(entries, projectListEntry{Project: project, MemberCount: count})
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) projectBuckets(c echo.Context) error {
	buckets, err := s.projectService.BucketForUser(c.Request().Context(), currentUserID(c), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

type projectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	SemesterID  *uint  `json:"semester_id"`
}

func (s *Server) createProject(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	project, err := s.projectService.Create(c.Request().Context(), &entity.Project{
		Name:        req.Name,
		Description: req.Description,
		SemesterID:  req.SemesterID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) updateProject(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	project, err := s.projectService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	project.Name = req.Name
	project.Description = req.Description
	project.SemesterID = req.SemesterID

	updated, err := s.projectService.Update(ctx, project)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteProject(c echo.Context) error {
	if err := s.projectService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) projectMembers(c echo.Context) error {
	members, err := s.projectService.Members(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

type memberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role"`
}

func (s *Server) addProjectMember(c echo.Context) error {
	var req memberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Role == "" {
		req.Role = entity.ProjectRoleMember
	}
	member, err := s.projectService.AddMember(c.Request().Context(), c.Param("id"), req.UserID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}

func (s *Server) removeProjectMember(c echo.Context) error {
	if err := s.projectService.RemoveMember(c.Request().Context(), c.Param("id"), c.Param("userID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type classListEntry struct {
	entity.Class
	EnrollmentCount int64 `json:"enrollment_count"`
}

func (s *Server) listClasses(c echo.Context) error {
	ctx := c.Request().Context()
	classes, err := s.classService.GetAll(ctx)
	if err != nil {
		return err
	}
	entries := make([]classListEntry, 0, len(classes))
	for _, class := range classes {
		count, err := s.classService.EnrollmentCount(ctx, class.ID)
		if err != nil {
			return err
		}
		entries = append(entries, classListEntry{Class: class, EnrollmentCount: count})
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) classBuckets(c echo.Context) error {
	buckets, err := s.classService.BucketForUser(c.Request().Context(), currentUserID(c), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

type classRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	SemesterID  *uint  `json:"semester_id"`
}

func (s *Server) createClass(c echo.Context) error {
	var req classRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	class, err := s.classService.Create(c.Request().Context(), &entity.Class{
		Name:        req.Name,
		Description: req.Description,
		SemesterID:  req.SemesterID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, class)
}

func (s *Server) updateClass(c echo.Context) error {
	var req classRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	class, err := s.classService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	class.Name = req.Name
	class.Description = req.Description
	class.SemesterID = req.SemesterID

	updated, err := s.classService.Update(ctx, class)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteClass(c echo.Context) error {
	if err := s.classService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) classEnrollments(c echo.Context) error {
	enrollments, err := s.classService.Enrollments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollments)
}

func (s *Server) listSemesters(c echo.Context) error {
	semesters, err := s.semesterService.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, semesters)
}

type semesterRequest struct {
	Name      string     `json:"name" validate:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (s *Server) createSemester(c echo.Context) error {
	var req semesterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	semester, err := s.semesterService.Create(c.Request().Context(), &entity.Semester{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, semester)
}

func (s *Server) updateSemester(c echo.Context) error {
	var req semesterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid semester id")
	}
	semester, err := s.semesterService.Get(ctx, uint(id))
	if err != nil {
		return err
	}
	semester.Name = req.Name
	semester.StartDate = req.StartDate
	semester.EndDate = req.EndDate

	updated, err := s.semesterService.Update(ctx, semester)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
