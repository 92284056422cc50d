package entity

import "time"

type Role string

const (
	Prospect Role = "prospect"
	Member   Role = "member"
	Board    Role = "board"
	EBoard   Role = "e-board"
)

// UserRole is the single active role record of a profile.
type UserRole struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex"`
	Role      Role   `gorm:"not null;default:prospect"`
	Position  string
	UpdatedAt time.Time
}

func (r Role) Valid() bool {
	switch r {
	case Prospect, Member, Board, EBoard:
		return true
	}
	return false
}

func (r Role) IsBoard() bool {
	return r == Board || r == EBoard
}

func (r Role) IsEBoard() bool {
	return r == EBoard
}

// CanReview reports whether a reviewer with this role may decide an
// application of the given type. Board reviewers are limited to class and
// project applications; e-board may decide any type.
func (r Role) CanReview(t ApplicationType) bool {
	switch r {
	case EBoard:
		return true
	case Board:
		return t == ApplicationClass || t == ApplicationProject
	}
	return false
}
