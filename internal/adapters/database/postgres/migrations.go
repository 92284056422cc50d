package postgres

import "github.com/studorg/membership-service/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.Profile{},
	&entity.UserRole{},
	&entity.Semester{},
	&entity.Project{},
	&entity.ProjectMember{},
	&entity.Class{},
	&entity.ClassEnrollment{},
	&entity.Application{},
	&entity.Event{},
	&entity.EventAttendance{},
	&entity.Lecture{},
}
