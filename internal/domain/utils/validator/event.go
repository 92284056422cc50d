package validator

import (
	"fmt"
	"unicode/utf8"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
)

func EventName(name string) bool {
	return utf8.RuneCountInString(name) >= 3 && utf8.RuneCountInString(name) <= 100
}

func EventLocation(location string) bool {
	return utf8.RuneCountInString(location) >= 2 && utf8.RuneCountInString(location) <= 150
}

// Event validates a new or updated event. The end time may be zero (open
// ended), otherwise it must follow the start time. Allowed roles must be
// known role names.
func Event(e *entity.Event) error {
	if !EventName(e.Name) {
		return fmt.Errorf("%w: name", errorz.ValidationFailed)
	}
	if !EventLocation(e.Location) {
		return fmt.Errorf("%w: location", errorz.ValidationFailed)
	}
	if e.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time", errorz.ValidationFailed)
	}
	if !e.EndTime.IsZero() && !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("%w: end_time before start_time", errorz.ValidationFailed)
	}
	if e.MaxParticipants < 0 {
		return fmt.Errorf("%w: max_participants", errorz.ValidationFailed)
	}
	for _, r := range e.AllowedRoles {
		if !entity.Role(r).Valid() {
			return fmt.Errorf("%w: allowed_roles contains %q", errorz.ValidationFailed, r)
		}
	}
	return nil
}
