package dto

import (
	"time"

	"github.com/studorg/membership-service/internal/domain/entity"
)

type Event struct {
	ID              string
	Name            string
	Description     string
	Location        string
	StartTime       time.Time
	EndTime         time.Time
	Points          int
	RequiresRSVP    bool
	MaxParticipants int
	AllowedRoles    []string
	Attending       bool
	AttendingCount  int
	Full            bool
}

// NewEventFromEntity derives the per-user event view. A user counts as
// attending when they RSVP'd or when the event does not require an RSVP at
// all.
func NewEventFromEntity(event entity.Event, rsvpd bool, attendingCount int) Event {
	return Event{
		ID:              event.ID,
		Name:            event.Name,
		Description:     event.Description,
		Location:        event.Location,
		StartTime:       event.StartTime,
		EndTime:         event.EndTime,
		Points:          event.Points,
		RequiresRSVP:    event.RequiresRSVP,
		MaxParticipants: event.MaxParticipants,
		AllowedRoles:    event.AllowedRoles,
		Attending:       rsvpd || !event.RequiresRSVP,
		AttendingCount:  attendingCount,
		Full:            event.Full(attendingCount),
	}
}
