package entity

import (
	"time"

	"gorm.io/gorm"
)

// Lecture is a page of the instructional lecture library.
type Lecture struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	Title     string `gorm:"not null"`
	Slug      string `gorm:"not null;uniqueIndex"`
	Summary   string
	Content   string `gorm:"not null"`
	AuthorID  string `gorm:"not null;type:uuid"`
	Published bool
}
