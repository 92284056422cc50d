package entity

import "time"

// Semester is the named date range a project or class is scheduled within.
// Either bound may be unset.
type Semester struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;uniqueIndex"`
	StartDate *time.Time
	EndDate   *time.Time
}
