package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Event struct {
	ID              string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt
	Name            string `gorm:"not null"`
	Description     string
	Location        string    `gorm:"not null"`
	StartTime       time.Time `gorm:"not null"`
	EndTime         time.Time
	Points          int
	RequiresRSVP    bool
	MaxParticipants int
	AllowedRoles    pq.StringArray `gorm:"type:text[]"`
	CheckInCode     string         `gorm:"uniqueIndex"`
	QRKey           string
}

type EventAttendance struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   string `gorm:"not null;type:uuid;uniqueIndex:idx_event_attendance"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_event_attendance"`
	Visited   bool
	CreatedAt time.Time
}

// VisibleTo reports whether the event is listed for the given role. An empty
// allowed-roles set means the event is open to everyone.
func (e *Event) VisibleTo(role Role) bool {
	if len(e.AllowedRoles) == 0 {
		return true
	}
	for _, r := range e.AllowedRoles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// Full reports whether the event has reached its RSVP capacity. A zero
// capacity means unlimited.
func (e *Event) Full(attending int) bool {
	return e.MaxParticipants > 0 && attending >= e.MaxParticipants
}

func (e *Event) RegistrationOpen(now time.Time) bool {
	return now.Before(e.StartTime)
}
