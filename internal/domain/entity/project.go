package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectRoleMember = "member"
	ProjectRoleLead   = "lead"
)

type Project struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Name        string `gorm:"not null"`
	Description string
	SemesterID  *uint
	Semester    *Semester
}

type ProjectMember struct {
	ID        uint   `gorm:"primaryKey"`
	ProjectID string `gorm:"not null;type:uuid;uniqueIndex:idx_project_member"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_project_member"`
	Role      string `gorm:"not null;default:member"`
	CreatedAt time.Time
}

func (p Project) Key() string { return p.ID }

func (p Project) Dates() (start, end *time.Time) {
	if p.Semester == nil {
		return nil, nil
	}
	return p.Semester.StartDate, p.Semester.EndDate
}
