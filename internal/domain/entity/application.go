package entity

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationType string

const (
	ApplicationClubAdmission ApplicationType = "club_admission"
	ApplicationBoard         ApplicationType = "board"
	ApplicationClass         ApplicationType = "class"
	ApplicationProject       ApplicationType = "project"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// RetentionPeriod is how long a decided application is kept before it
// becomes eligible for deletion.
const RetentionPeriod = 30 * 24 * time.Hour

// Application is the flat storage shape of a membership application. Which
// columns are populated depends on Type; the typed view lives in the dto
// package.
type Application struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	UserID    string          `gorm:"not null;type:uuid;index"`
	Type      ApplicationType `gorm:"not null"`

	// Type-specific fields.
	Position           string
	WhyJoin            string
	RelevantExperience string
	Contribution       string
	Vision             string
	ProjectDetail      string
	DesiredRole        string
	ClassID            *string `gorm:"type:uuid"`
	ProjectID          *string `gorm:"type:uuid"`

	// Uploaded document object keys.
	ResumeKey     string
	TranscriptKey string

	Status     ApplicationStatus `gorm:"not null;default:pending"`
	ReviewedBy *string           `gorm:"type:uuid"`
	ReviewedAt *time.Time
}

func (a *Application) Decided() bool {
	return a.Status != StatusPending
}

// TargetID returns the class or project id the application points at, empty
// for club admission and board applications.
func (a *Application) TargetID() string {
	switch {
	case a.ClassID != nil:
		return *a.ClassID
	case a.ProjectID != nil:
		return *a.ProjectID
	}
	return ""
}

// RetentionDaysLeft returns whole days remaining before a decided
// application is eligible for deletion. Negative values mean the record is
// overdue; pending applications return 0 and are never swept.
func (a *Application) RetentionDaysLeft(now time.Time) int {
	if a.ReviewedAt == nil {
		return 0
	}
	deadline := a.ReviewedAt.Add(RetentionPeriod)
	return int(deadline.Sub(now).Hours() / 24)
}
