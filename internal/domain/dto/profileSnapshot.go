package dto

import (
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/status"
)

// Applications groups what the identity sees on the applications dashboard:
// their own submissions plus, for reviewers, the queues they may decide.
type Applications struct {
	Own               []ApplicationView
	ReviewablePending []ApplicationView
	ReviewableDecided []ApplicationView
}

// Events splits the visible events by derived attendance status.
type Events struct {
	Attending    []Event
	NotAttending []Event
}

// ProfileSnapshot is one consistent read of the profile aggregation context.
type ProfileSnapshot struct {
	UserID       string
	Role         entity.Role
	Position     string
	Projects     status.Buckets[entity.Project]
	Classes      status.Buckets[entity.Class]
	Applications Applications
	Events       Events
}

func (s ProfileSnapshot) IsBoard() bool  { return s.Role.IsBoard() }
func (s ProfileSnapshot) IsEBoard() bool { return s.Role.IsEBoard() }
