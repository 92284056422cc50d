package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	ClassRoleStudent = "student"
	ClassRoleTeacher = "teacher"
)

type Class struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Name        string `gorm:"not null"`
	Description string
	SemesterID  *uint
	Semester    *Semester
}

type ClassEnrollment struct {
	ID        uint   `gorm:"primaryKey"`
	ClassID   string `gorm:"not null;type:uuid;uniqueIndex:idx_class_enrollment"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_class_enrollment"`
	Role      string `gorm:"not null;default:student"`
	CreatedAt time.Time
}

func (c Class) Key() string { return c.ID }

func (c Class) Dates() (start, end *time.Time) {
	if c.Semester == nil {
		return nil, nil
	}
	return c.Semester.StartDate, c.Semester.EndDate
}
