package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
)

const maxDocumentBytes = 10 << 20

// submitApplication accepts a multipart form: the typed fields plus optional
// resume and transcript attachments.
func (s *Server) submitApplication(c echo.Context) error {
	payload, err := payloadFromForm(c)
	if err != nil {
		return err
	}

	docs := dto.Documents{}
	if docs.Resume, err = formUpload(c, "resume"); err != nil {
		return err
	}
	if docs.Transcript, err = formUpload(c, "transcript"); err != nil {
		return err
	}

	application, err := s.applicationService.Submit(c.Request().Context(), currentUserID(c), payload, docs)
	if err != nil {
		return err
	}
	view, err := dto.NewApplicationView(application, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func payloadFromForm(c echo.Context) (dto.ApplicationPayload, error) {
	field := func(name string) string { return c.FormValue(name) }

	switch entity.ApplicationType(field("type")) {
	case entity.ApplicationClubAdmission:
		return dto.ClubAdmissionApplication{
			WhyJoin:            field("why_join"),
			RelevantExperience: field("relevant_experience"),
		}, nil
	case entity.ApplicationBoard:
		return dto.BoardApplication{
			Position:           field("position"),
			WhyJoin:            field("why_join"),
			RelevantExperience: field("relevant_experience"),
			Contribution:       field("contribution"),
			Vision:             field("vision"),
		}, nil
	case entity.ApplicationClass:
		return dto.ClassApplication{
			ClassID:            field("class_id"),
			Role:               field("role"),
			WhyJoin:            field("why_join"),
			RelevantExperience: field("relevant_experience"),
		}, nil
	case entity.ApplicationProject:
		return dto.ProjectApplication{
			ProjectID:          field("project_id"),
			Role:               field("role"),
			WhyJoin:            field("why_join"),
			RelevantExperience: field("relevant_experience"),
			ProjectDetail:      field("project_detail"),
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown application type %q", errorz.ValidationFailed, field("type"))
}

func formUpload(c echo.Context, name string) (*dto.Upload, error) {
	file, err := c.FormFile(name)
	if err != nil {
		// The attachment is optional.
		return nil, nil
	}
	if file.Size > maxDocumentBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, name+" exceeds 10 MiB")
	}
	return readUpload(file)
}

func readUpload(file *multipart.FileHeader) (*dto.Upload, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &dto.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func (s *Server) myApplications(c echo.Context) error {
	views, err := s.applicationService.Own(c.Request().Context(), currentUserID(c), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) applicationDashboard(c echo.Context) error {
	role, err := s.currentRole(c)
	if err != nil {
		return err
	}
	dashboard, err := s.applicationService.Dashboard(c.Request().Context(), currentUserID(c), role, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}

type decisionRequest struct {
	Accept bool `json:"accept"`
}

func (s *Server) decideApplication(c echo.Context) error {
	var req decisionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	application, err := s.applicationService.Decide(c.Request().Context(), c.Param("id"), currentUserID(c), req.Accept)
	if err != nil {
		return err
	}
	view, err := dto.NewApplicationView(application, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
