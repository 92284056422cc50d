package entity

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	FullName  string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	ClassYear int
	Github    string
	Linkedin  string
	Discord   string
	Points    int
	AvatarKey string
}
