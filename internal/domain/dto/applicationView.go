package dto

import (
	"time"

	"github.com/studorg/membership-service/internal/domain/entity"
)

// ApplicationView is an application as surfaced to the API, with the
// retention countdown computed against the given clock reading.
type ApplicationView struct {
	ID                string
	UserID            string
	Type              entity.ApplicationType
	Status            entity.ApplicationStatus
	Payload           ApplicationPayload
	ResumeKey         string
	TranscriptKey     string
	CreatedAt         time.Time
	ReviewedBy        *string
	ReviewedAt        *time.Time
	RetentionDaysLeft int
}

func NewApplicationView(app *entity.Application, now time.Time) (ApplicationView, error) {
	payload, err := PayloadFromEntity(app)
	if err != nil {
		return ApplicationView{}, err
	}
	view := ApplicationView{
		ID:            app.ID,
		UserID:        app.UserID,
		Type:          app.Type,
		Status:        app.Status,
		Payload:       payload,
		ResumeKey:     app.ResumeKey,
		TranscriptKey: app.TranscriptKey,
		CreatedAt:     app.CreatedAt,
		ReviewedBy:    app.ReviewedBy,
		ReviewedAt:    app.ReviewedAt,
	}
	if app.Decided() {
		view.RetentionDaysLeft = app.RetentionDaysLeft(now)
	}
	return view, nil
}
