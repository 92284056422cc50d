package dto

import (
	"fmt"

	"github.com/studorg/membership-service/internal/domain/entity"
)

// ApplicationPayload is the typed view of one application variant. The flat
// entity.Application record is produced and consumed only through this
// interface, so the rest of the code never reasons about which optional
// columns a given type populates.
type ApplicationPayload interface {
	Type() entity.ApplicationType
	// TargetID is the class/project the application points at, empty for
	// club admission and board applications.
	TargetID() string
	fill(app *entity.Application)
}

type ClubAdmissionApplication struct {
	WhyJoin            string
	RelevantExperience string
}

type BoardApplication struct {
	Position           string
	WhyJoin            string
	RelevantExperience string
	Contribution       string
	Vision             string
}

type ClassApplication struct {
	ClassID            string
	Role               string
	WhyJoin            string
	RelevantExperience string
}

type ProjectApplication struct {
	ProjectID          string
	Role               string
	WhyJoin            string
	RelevantExperience string
	ProjectDetail      string
}

func (ClubAdmissionApplication) Type() entity.ApplicationType { return entity.ApplicationClubAdmission }
func (BoardApplication) Type() entity.ApplicationType         { return entity.ApplicationBoard }
func (ClassApplication) Type() entity.ApplicationType         { return entity.ApplicationClass }
func (ProjectApplication) Type() entity.ApplicationType       { return entity.ApplicationProject }

func (ClubAdmissionApplication) TargetID() string { return "" }
func (BoardApplication) TargetID() string         { return "" }
func (p ClassApplication) TargetID() string       { return p.ClassID }
func (p ProjectApplication) TargetID() string     { return p.ProjectID }

func (p ClubAdmissionApplication) fill(app *entity.Application) {
	app.WhyJoin = p.WhyJoin
	app.RelevantExperience = p.RelevantExperience
}

func (p BoardApplication) fill(app *entity.Application) {
	app.Position = p.Position
	app.WhyJoin = p.WhyJoin
	app.RelevantExperience = p.RelevantExperience
	app.Contribution = p.Contribution
	app.Vision = p.Vision
}

func (p ClassApplication) fill(app *entity.Application) {
	id := p.ClassID
	app.ClassID = &id
	app.DesiredRole = p.Role
	app.WhyJoin = p.WhyJoin
	app.RelevantExperience = p.RelevantExperience
}

func (p ProjectApplication) fill(app *entity.Application) {
	id := p.ProjectID
	app.ProjectID = &id
	app.DesiredRole = p.Role
	app.WhyJoin = p.WhyJoin
	app.RelevantExperience = p.RelevantExperience
	app.ProjectDetail = p.ProjectDetail
}

// NewApplication builds the flat pending record for a payload.
func NewApplication(userID string, p ApplicationPayload) *entity.Application {
	app := &entity.Application{
		UserID: userID,
		Type:   p.Type(),
		Status: entity.StatusPending,
	}
	p.fill(app)
	return app
}

// PayloadFromEntity restores the typed view of a stored record.
func PayloadFromEntity(app *entity.Application) (ApplicationPayload, error) {
	switch app.Type {
	case entity.ApplicationClubAdmission:
		return ClubAdmissionApplication{
			WhyJoin:            app.WhyJoin,
			RelevantExperience: app.RelevantExperience,
		}, nil
	case entity.ApplicationBoard:
		return BoardApplication{
			Position:           app.Position,
			WhyJoin:            app.WhyJoin,
			RelevantExperience: app.RelevantExperience,
			Contribution:       app.Contribution,
			Vision:             app.Vision,
		}, nil
	case entity.ApplicationClass:
		var classID string
		if app.ClassID != nil {
			classID = *app.ClassID
		}
		return ClassApplication{
			ClassID:            classID,
			Role:               app.DesiredRole,
			WhyJoin:            app.WhyJoin,
			RelevantExperience: app.RelevantExperience,
		}, nil
	case entity.ApplicationProject:
		var projectID string
		if app.ProjectID != nil {
			projectID = *app.ProjectID
		}
		return ProjectApplication{
			ProjectID:          projectID,
			Role:               app.DesiredRole,
			WhyJoin:            app.WhyJoin,
			RelevantExperience: app.RelevantExperience,
			ProjectDetail:      app.ProjectDetail,
		}, nil
	}
	return nil, fmt.Errorf("unknown application type %q", app.Type)
}
